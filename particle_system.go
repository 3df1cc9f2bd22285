package gpuparticles

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/gekko3d/gpuparticles/particlert/rt/gpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/opencl"
	"github.com/google/uuid"
)

// verifyTolerance bounds the per-field difference between the device and the
// host stream kernel in verify mode.
const verifyTolerance = 1e-4

// ParticleSystem ties scheduler, emitter and one simulation backend together.
// The backend is chosen once at construction and never changes.
type ParticleSystem struct {
	ID        uuid.UUID
	Settings  core.Settings
	Scheduler *core.EmissionScheduler
	Emitter   *core.Emitter
	Params    core.ParameterBlock

	backend simulationBackend
	pass    *gpu.PointRenderPass
	gpu     *GpuState
	logger  Logger
	tick    uint32
}

// simulationBackend is one way of advancing the store plus a way to hand the
// result to the renderer.
type simulationBackend interface {
	Name() string
	Step(blk *core.ParameterBlock) error
	// Snapshot copies the latest slot state to the host.
	Snapshot() ([]core.Particle, error)
	// RenderSource returns a vertex buffer holding the latest state.
	RenderSource(pass *gpu.PointRenderPass) (*wgpu.Buffer, error)
	Release()
}

// NewParticleSystem builds the system described by cfg. gs may be nil for
// headless runs, which then can only use host backends and never draw.
func NewParticleSystem(cfg Config, gs *GpuState, logger Logger) (*ParticleSystem, error) {
	if logger == nil {
		logger = NewNopLogger()
	}
	s := &ParticleSystem{
		ID:        uuid.New(),
		Settings:  cfg.Particles,
		Scheduler: core.NewEmissionScheduler(cfg.Particles),
		Emitter:   core.NewEmitter(cfg.Particles),
		gpu:       gs,
		logger:    logger,
	}

	seed := cfg.System.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	s.Params = core.NewParameterBlock(cfg.Particles, seed)

	backend, err := newBackend(cfg, gs, logger)
	if err != nil {
		return nil, fmt.Errorf("particle system %s: %w", s.ID, err)
	}
	if cfg.System.Verify {
		backend = newVerifyingBackend(backend, cfg.Particles.Count, logger)
	}
	s.backend = backend

	if gs != nil && !gs.Headless() {
		s.pass, err = gpu.NewPointRenderPass(gs.Device(), gs.SurfaceFormat())
		if err != nil {
			s.backend.Release()
			return nil, fmt.Errorf("particle system %s: creating point pass: %w", s.ID, err)
		}
	}

	if limit := cfg.Particles.MaxLifeTime(); cfg.Particles.LifeTime > limit {
		logger.Warnf("particles.life_time %.3f clamped to %.3f", cfg.Particles.LifeTime, limit)
	}
	logger.Infof("Particle system %s: kernel=%s capacity=%d life=%.3f seed=%d",
		s.ID, s.backend.Name(), cfg.Particles.Count, s.Params.LifeTime, seed)
	return s, nil
}

func newBackend(cfg Config, gs *GpuState, logger Logger) (simulationBackend, error) {
	count := cfg.Particles.Count
	if cfg.System.UseCPU {
		return newHostBackend(core.NewSequentialKernel(cfg.System.Workers, nil), count, gs), nil
	}
	switch cfg.System.ParallelBackend {
	case BackendHost:
		return newHostBackend(core.NewStreamKernel(cfg.System.Workers, nil), count, gs), nil
	case BackendOpenCL:
		k, err := opencl.NewKernel(count)
		if err != nil {
			return nil, err
		}
		logger.Infof("OpenCL device: %s", k.DeviceName())
		return newHostBackend(k, count, gs), nil
	case BackendDevice, "":
		if gs == nil {
			return nil, fmt.Errorf("device backend needs a GPU")
		}
		k, err := gpu.NewDeviceKernel(gs.Device(), count)
		if err != nil {
			return nil, err
		}
		return &deviceBackend{kernel: k}, nil
	}
	return nil, fmt.Errorf("unknown parallel backend %q", cfg.System.ParallelBackend)
}

// Update advances one tick. A non positive dt changes nothing.
func (s *ParticleSystem) Update(dt float32, in core.MoveInput) error {
	if dt <= 0 {
		return nil
	}
	if wrapped, _ := s.Scheduler.Tick(dt); wrapped {
		s.logger.Debugf("Particle system %s: wave wrapped at tick %d", s.ID, s.tick)
	}
	s.Emitter.Update(dt, in)

	s.Params.DeltaTime = dt
	s.Params.EmitterPosition = s.Emitter.Position
	s.Params.EmitterRotation = s.Emitter.Rotation
	s.Params.ParticlesEmitted = s.Scheduler.Emitted
	s.Params.Tick = s.tick
	s.tick++

	return s.backend.Step(&s.Params)
}

// Draw records the particles into pass.
func (s *ParticleSystem) Draw(pass *wgpu.RenderPassEncoder, camera *core.CameraState, viewport [2]float32) error {
	if s.pass == nil {
		return nil
	}
	src, err := s.backend.RenderSource(s.pass)
	if err != nil {
		return err
	}
	aspect := float32(1)
	if viewport[1] > 0 {
		aspect = viewport[0] / viewport[1]
	}
	if err := s.pass.UpdateUniforms(s.gpu.Queue(), camera.ViewProjection(aspect), viewport, s.Settings.PointSize); err != nil {
		return err
	}
	s.pass.Draw(pass, src, s.Settings.Count)
	return nil
}

// Snapshot copies the current slots to the host.
func (s *ParticleSystem) Snapshot() ([]core.Particle, error) {
	return s.backend.Snapshot()
}

func (s *ParticleSystem) Stats() (core.Stats, error) {
	slots, err := s.backend.Snapshot()
	if err != nil {
		return core.Stats{}, err
	}
	return core.CollectStats(slots), nil
}

func (s *ParticleSystem) KernelName() string { return s.backend.Name() }

func (s *ParticleSystem) Ticks() uint32 { return s.tick }

func (s *ParticleSystem) Release() {
	if s.pass != nil {
		s.pass.Release()
		s.pass = nil
	}
	if s.backend != nil {
		s.backend.Release()
		s.backend = nil
	}
}

// hostBackend runs a core.Kernel over a host store and uploads the front
// buffer for drawing.
type hostBackend struct {
	kernel core.Kernel
	store  *core.Store
	gpu    *GpuState
}

func newHostBackend(k core.Kernel, count int, gs *GpuState) *hostBackend {
	return &hostBackend{kernel: k, store: core.NewStore(count, k.Buffering()), gpu: gs}
}

func (b *hostBackend) Name() string { return b.kernel.Name() }

func (b *hostBackend) Step(blk *core.ParameterBlock) error {
	return b.kernel.Advance(blk, b.store)
}

func (b *hostBackend) Snapshot() ([]core.Particle, error) {
	return append([]core.Particle(nil), b.store.Front()...), nil
}

func (b *hostBackend) RenderSource(pass *gpu.PointRenderPass) (*wgpu.Buffer, error) {
	return pass.Upload(b.gpu.Queue(), b.store.Front())
}

func (b *hostBackend) Release() {
	if r, ok := b.kernel.(interface{ Release() }); ok {
		r.Release()
	}
	b.store.Release()
}

// deviceBackend keeps the slots on the GPU; the renderer draws straight from
// the kernel's front buffer.
type deviceBackend struct {
	kernel *gpu.DeviceKernel
}

func (b *deviceBackend) Name() string { return "device" }

func (b *deviceBackend) Step(blk *core.ParameterBlock) error {
	return b.kernel.Advance(blk)
}

func (b *deviceBackend) Snapshot() ([]core.Particle, error) {
	return b.kernel.ReadFront()
}

func (b *deviceBackend) RenderSource(*gpu.PointRenderPass) (*wgpu.Buffer, error) {
	return b.kernel.FrontBuffer(), nil
}

func (b *deviceBackend) Release() {
	b.kernel.Release()
}

// verifyingBackend replays every tick on a host stream kernel fed with the
// inner backend's previous state and logs any slot that drifts apart. Each
// tick starts from the inner state, so differences never accumulate.
type verifyingBackend struct {
	inner  simulationBackend
	host   *core.StreamKernel
	store  *core.Store
	logger Logger
	// Mismatches counts ticks outside verifyTolerance.
	Mismatches int
}

func newVerifyingBackend(inner simulationBackend, count int, logger Logger) *verifyingBackend {
	return &verifyingBackend{
		inner:  inner,
		host:   core.NewStreamKernel(0, nil),
		store:  core.NewStore(count, core.DoubleBuffer),
		logger: logger,
	}
}

func (b *verifyingBackend) Name() string { return b.inner.Name() + "+verify" }

func (b *verifyingBackend) Step(blk *core.ParameterBlock) error {
	prev, err := b.inner.Snapshot()
	if err != nil {
		return fmt.Errorf("verify: reading state before tick %d: %w", blk.Tick, err)
	}
	b.store.Load(prev)
	if err := b.host.Advance(blk, b.store); err != nil {
		return err
	}
	if err := b.inner.Step(blk); err != nil {
		return err
	}
	got, err := b.inner.Snapshot()
	if err != nil {
		return fmt.Errorf("verify: reading state after tick %d: %w", blk.Tick, err)
	}

	d := core.CompareSlots(b.store.Front(), got)
	if d.Within(verifyTolerance) {
		return nil
	}
	b.Mismatches++
	if d.Slot >= 0 && d.Slot < len(got) {
		b.logger.Warnf("verify: tick %d slot %d off by %g: %s=%+v host=%+v",
			blk.Tick, d.Slot, d.Max, b.inner.Name(), got[d.Slot], b.store.Front()[d.Slot])
	} else {
		b.logger.Warnf("verify: tick %d slot count mismatch (%d vs %d)", blk.Tick, len(got), b.store.Len())
	}
	return nil
}

func (b *verifyingBackend) Snapshot() ([]core.Particle, error) { return b.inner.Snapshot() }

func (b *verifyingBackend) RenderSource(pass *gpu.PointRenderPass) (*wgpu.Buffer, error) {
	return b.inner.RenderSource(pass)
}

func (b *verifyingBackend) Release() {
	b.inner.Release()
	b.store.Release()
}
