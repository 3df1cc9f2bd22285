package gpuparticles

import (
	"time"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
)

// ParticlesModule creates the ParticleSystem from the Config resource and
// schedules its update and, unless Headless, its render pass. It must be
// installed after the config, GPU and (windowed) input modules.
type ParticlesModule struct {
	Headless bool
}

// ParticleControls is runtime state driven by input.
type ParticleControls struct {
	Paused bool
}

func (m ParticlesModule) Install(app *App, cmd *Commands) {
	cfg := DefaultConfig()
	if c, ok := Resource[Config](app); ok {
		cfg = *c
	} else {
		cmd.AddResources(&cfg)
	}
	gs, _ := Resource[GpuState](app)
	logger := app.Logger()
	if m.Headless && gs == nil && cfg.BackendName() == BackendDevice {
		logger.Warnf("No GPU device, falling back to the %s backend", BackendHost)
		cfg.System.ParallelBackend = BackendHost
	}

	ps, err := NewParticleSystem(cfg, gs, logger)
	if err != nil {
		logger.Errorf("%v", err)
		panic(err)
	}
	cmd.AddResources(ps, &ParticleControls{}, &Profiler{})
	app.UseShutdownSystem(Render, func(ps *ParticleSystem) {
		ps.Release()
	})

	if m.Headless {
		app.UseSystem(
			System(particlesHeadlessUpdateSystem).
				InStage(Update).
				RunAlways(),
		)
		return
	}
	app.UseSystem(
		System(particlesUpdateSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(particlesRenderSystem).
			InStage(Render).
			RunAlways(),
	)
}

func particlesUpdateSystem(ps *ParticleSystem, controls *ParticleControls, prof *Profiler, t *Time, input *Input, cmd *Commands) {
	if input.JustPressed[KeyP] {
		controls.Paused = !controls.Paused
		cmd.Logger().Debugf("particles paused=%v", controls.Paused)
	}
	if controls.Paused {
		return
	}
	updateParticles(ps, prof, t.DeltaSeconds(), EmitterInput(input), cmd)
}

func particlesHeadlessUpdateSystem(ps *ParticleSystem, prof *Profiler, t *Time, cmd *Commands) {
	updateParticles(ps, prof, t.DeltaSeconds(), core.MoveInput{}, cmd)
}

func updateParticles(ps *ParticleSystem, prof *Profiler, dt float32, in core.MoveInput, cmd *Commands) {
	start := time.Now()
	err := ps.Update(dt, in)
	prof.AddUpdate(time.Since(start))
	if err != nil {
		cmd.Logger().Errorf("particle update failed: %v", err)
		cmd.Stop()
	}
}

func particlesRenderSystem(gs *GpuState, ps *ParticleSystem, prof *Profiler, cam *core.CameraState, cfg *Config, cmd *Commands) {
	f, err := gs.beginFrame(cfg.ClearColor())
	if err != nil {
		cmd.Logger().Warnf("skipping frame: %v", err)
		return
	}
	start := time.Now()
	err = ps.Draw(f.pass, cam, gs.Viewport())
	prof.AddDraw(time.Since(start))
	if err != nil {
		cmd.Logger().Errorf("particle draw failed: %v", err)
		cmd.Stop()
	}
	if err := gs.endFrame(f); err != nil {
		cmd.Logger().Errorf("frame submit failed: %v", err)
		cmd.Stop()
	}
}
