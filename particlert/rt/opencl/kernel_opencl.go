//go:build opencl

package opencl

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/jgillich/go-opencl/cl"
)

// Kernel runs the update pass on an OpenCL device. Slot state stays
// resident in two device buffers that swap roles every pass; the result is
// read back into the store's back buffer so the host always has the latest
// state for rendering.
type Kernel struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	bufs       [2]*cl.MemObject
	front      int
	count      int
	deviceName string
	coldStart  bool
}

func NewKernel(count int) (*Kernel, error) {
	if count <= 0 {
		return nil, fmt.Errorf("opencl kernel needs at least one slot, got %d", count)
	}
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	k := &Kernel{count: count, deviceName: device.Name(), coldStart: true}
	k.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	k.queue, err = k.context.CreateCommandQueue(device, 0)
	if err != nil {
		k.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	k.program, err = k.context.CreateProgramWithSource([]string{updateSource})
	if err != nil {
		k.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := k.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		k.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	k.kernel, err = k.program.CreateKernel("update_particles")
	if err != nil {
		k.Release()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	byteSize := count * core.ParticleSize
	for i := range k.bufs {
		k.bufs[i], err = k.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
		if err != nil {
			k.Release()
			return nil, fmt.Errorf("allocating particle buffer %d: %w", i, err)
		}
	}
	return k, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (k *Kernel) Name() string { return "opencl" }

func (k *Kernel) Buffering() core.Buffering { return core.DoubleBuffer }

func (k *Kernel) DeviceName() string { return k.deviceName }

func (k *Kernel) Advance(blk *core.ParameterBlock, store *core.Store) error {
	if store.Buffering() != core.DoubleBuffer {
		return fmt.Errorf("opencl kernel needs a double buffered store, got %s", store.Buffering())
	}
	if store.Len() != k.count {
		return fmt.Errorf("store has %d slots, kernel was built for %d", store.Len(), k.count)
	}
	if blk.DeltaTime <= 0 {
		return nil
	}

	if k.coldStart {
		if _, err := k.queue.EnqueueWriteBufferFloat32(k.bufs[k.front], true, 0, floats(store.Front()), nil); err != nil {
			return fmt.Errorf("uploading particles: %w", err)
		}
		k.coldStart = false
	}

	if err := k.kernel.SetArgs(
		int32(k.count),
		int32(blk.ParticlesEmitted),
		blk.DeltaTime,
		blk.EmitterPosition[0],
		blk.EmitterPosition[1],
		blk.EmitterPosition[2],
		blk.EmitterRotation,
		blk.LifeTime,
		blk.Radius,
		blk.Spread,
		blk.ColorSaturation,
		blk.Speed,
		blk.Gravity,
		int32(blk.Tick),
		int32(blk.Seed),
		k.bufs[k.front],
		k.bufs[1-k.front],
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := k.queue.EnqueueNDRangeKernel(k.kernel, nil, []int{k.count}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing particle update: %w", err)
	}
	k.front = 1 - k.front

	if _, err := k.queue.EnqueueReadBufferFloat32(k.bufs[k.front], true, 0, floats(store.Back()), nil); err != nil {
		return fmt.Errorf("reading particles back: %w", err)
	}
	store.Swap()
	return nil
}

// floats views slots as the flat float layout the kernel expects.
func floats(slots []core.Particle) []float32 {
	if len(slots) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&slots[0])), len(slots)*core.ParticleFloats)
}

func (k *Kernel) Release() {
	for i := range k.bufs {
		if k.bufs[i] != nil {
			k.bufs[i].Release()
			k.bufs[i] = nil
		}
	}
	if k.kernel != nil {
		k.kernel.Release()
		k.kernel = nil
	}
	if k.program != nil {
		k.program.Release()
		k.program = nil
	}
	if k.queue != nil {
		k.queue.Release()
		k.queue = nil
	}
	if k.context != nil {
		k.context.Release()
		k.context = nil
	}
}
