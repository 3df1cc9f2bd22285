package gpuparticles

import (
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessApp(cfg *Config, logger Logger, ticks, every int) *App {
	return NewAppBuilder().
		UseStates(StateRunning, StateStopped).
		UseModule(
			LoggingModule{Logger: logger},
			ConfigModule{Config: cfg},
			TimeModule{FixedDt: 50 * time.Millisecond},
			ParticlesModule{Headless: true},
			HeadlessModule{Ticks: ticks, ReportEvery: every},
		).
		Build()
}

func TestHeadlessRun(t *testing.T) {
	cfg := hostConfig()
	logger := newRecordingLogger()
	app := headlessApp(&cfg, logger, 20, 5)

	ps, ok := Resource[ParticleSystem](app)
	require.True(t, ok)

	app.Run()

	assert.Equal(t, StateStopped, app.State())
	assert.Equal(t, uint32(20), ps.Ticks())
	assert.Nil(t, ps.backend, "shutdown releases the backend")

	run, ok := Resource[HeadlessRun](app)
	require.True(t, ok)
	assert.True(t, run.Done)

	var reports []string
	for _, line := range logger.get("info") {
		if strings.HasPrefix(line, "tick ") {
			reports = append(reports, line)
		}
	}
	require.Len(t, reports, 4)
	assert.True(t, strings.HasPrefix(reports[0], "tick 5 kernel=stream"), reports[0])
	assert.True(t, strings.HasPrefix(reports[3], "tick 20 kernel=stream"), reports[3])
	assert.Contains(t, reports[3], "active=")
	assert.Contains(t, reports[3], "/tick")

	prof, ok := Resource[Profiler](app)
	require.True(t, ok)
	assert.Zero(t, prof.Updates, "reset after the final report")
	assert.Empty(t, logger.get("error"))
}

func TestHeadlessRunWithoutPeriodicReports(t *testing.T) {
	cfg := hostConfig()
	cfg.System.UseCPU = true
	logger := newRecordingLogger()
	app := headlessApp(&cfg, logger, 3, 0)

	app.Run()

	var reports []string
	for _, line := range logger.get("info") {
		if strings.HasPrefix(line, "tick ") {
			reports = append(reports, line)
		}
	}
	require.Len(t, reports, 1)
	assert.True(t, strings.HasPrefix(reports[0], "tick 3 kernel=sequential"), reports[0])
}

func TestParticlesUpdateSystemPause(t *testing.T) {
	ps := newHostSystem(t, hostConfig())
	controls := &ParticleControls{}
	prof := &Profiler{}
	tm := &Time{Dt: 100 * time.Millisecond}
	input := &Input{}
	app := NewAppBuilder().Build()
	cmd := app.Commands()

	particlesUpdateSystem(ps, controls, prof, tm, input, cmd)
	assert.Equal(t, uint32(1), ps.Ticks())

	input.setPressed(KeyP, true)
	particlesUpdateSystem(ps, controls, prof, tm, input, cmd)
	assert.True(t, controls.Paused)
	assert.Equal(t, uint32(1), ps.Ticks())

	// Holding the key does not toggle again.
	input.setPressed(KeyP, true)
	particlesUpdateSystem(ps, controls, prof, tm, input, cmd)
	assert.True(t, controls.Paused)

	input.setPressed(KeyP, false)
	input.setPressed(KeyP, true)
	particlesUpdateSystem(ps, controls, prof, tm, input, cmd)
	assert.False(t, controls.Paused)
	assert.Equal(t, uint32(2), ps.Ticks())
	assert.Equal(t, 2, prof.Updates)
}

func TestParticlesUpdateSystemMovesEmitter(t *testing.T) {
	ps := newHostSystem(t, hostConfig())
	input := &Input{}
	input.setPressed(KeyY, true)
	input.setPressed(KeyI, true)

	particlesUpdateSystem(ps, &ParticleControls{}, &Profiler{}, &Time{Dt: time.Second}, input, NewAppBuilder().Build().Commands())

	assert.Equal(t, core.MoveInput{Forward: true, Up: true}, EmitterInput(input))
	assert.InDelta(t, -1, ps.Emitter.Position[2], 1e-6)
	assert.InDelta(t, 1, ps.Emitter.Position[1], 1e-6)
}

func TestProfiler(t *testing.T) {
	var p Profiler
	assert.Zero(t, p.MeanUpdate())
	assert.Zero(t, p.MeanDraw())

	p.AddUpdate(2 * time.Millisecond)
	p.AddUpdate(4 * time.Millisecond)
	p.AddDraw(time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, p.MeanUpdate())
	assert.Equal(t, time.Millisecond, p.MeanDraw())
	assert.Equal(t, "update=3ms/tick draw=1ms/frame", p.String())

	p.Reset()
	assert.Equal(t, Profiler{}, p)
}

func TestHeadlessFallsBackToHostWithoutGPU(t *testing.T) {
	cfg := hostConfig()
	cfg.System.ParallelBackend = BackendDevice
	logger := newRecordingLogger()
	app := headlessApp(&cfg, logger, 2, 0)

	ps, ok := Resource[ParticleSystem](app)
	require.True(t, ok)
	assert.Equal(t, "stream", ps.KernelName())
	assert.Len(t, logger.get("warn"), 1)
	assert.Equal(t, BackendDevice, cfg.System.ParallelBackend, "the caller's config is not modified")
}
