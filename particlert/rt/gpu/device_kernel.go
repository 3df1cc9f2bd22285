package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/gekko3d/gpuparticles/particlert/rt/shaders"
)

// workgroupSize matches @workgroup_size in particles_update.wgsl.
const workgroupSize = 64

// DeviceKernel runs the update pass as a compute shader over two storage
// buffers. BindGroups[i] reads Particles[i] and writes Particles[1-i]; Front
// names the buffer holding the latest state, which is also what the point
// pass draws from.
type DeviceKernel struct {
	Device     *wgpu.Device
	Pipeline   *wgpu.ComputePipeline
	ParamsBuf  *wgpu.Buffer
	Particles  [2]*wgpu.Buffer
	BindGroups [2]*wgpu.BindGroup
	Readback   *wgpu.Buffer
	Front      int
	Count      int
}

func NewDeviceKernel(device *wgpu.Device, count int) (*DeviceKernel, error) {
	if count <= 0 {
		return nil, fmt.Errorf("device kernel needs at least one slot, got %d", count)
	}
	k := &DeviceKernel{Device: device, Count: count}

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticlesUpdateShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesUpdateWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create particle update shader module: %w", err)
	}
	defer shaderModule.Release()

	k.Pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "ParticlesUpdatePipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shaderModule,
			EntryPoint: "update_particles",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create particle update pipeline: %w", err)
	}

	k.ParamsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleParamsBuf",
		Size:  ParamsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		k.Release()
		return nil, err
	}

	size := k.bufferSize()
	zero := make([]byte, size)
	for i, label := range []string{"ParticlesBufA", "ParticlesBufB"} {
		k.Particles[i], err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label,
			Contents: zero,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageVertex |
				wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			k.Release()
			return nil, err
		}
	}

	k.Readback, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticlesReadbackBuf",
		Size:  size,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		k.Release()
		return nil, err
	}

	layout := k.Pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	for i := 0; i < 2; i++ {
		k.BindGroups[i], err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("ParticlesUpdateBG%d", i),
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: k.ParamsBuf, Size: ParamsSize},
				{Binding: 1, Buffer: k.Particles[i], Size: size},
				{Binding: 2, Buffer: k.Particles[1-i], Size: size},
			},
		})
		if err != nil {
			k.Release()
			return nil, err
		}
	}
	return k, nil
}

func (k *DeviceKernel) bufferSize() uint64 {
	return uint64(k.Count) * core.ParticleSize
}

// Workgroups is the dispatch width for n slots.
func Workgroups(n int) uint32 {
	return (uint32(n) + workgroupSize - 1) / workgroupSize
}

// Advance dispatches one pass and flips Front. A non positive delta time is
// a no-op.
func (k *DeviceKernel) Advance(blk *core.ParameterBlock) error {
	if blk.DeltaTime <= 0 {
		return nil
	}
	queue := k.Device.GetQueue()
	if err := queue.WriteBuffer(k.ParamsBuf, 0, EncodeParams(blk)); err != nil {
		return err
	}

	encoder, err := k.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(k.Pipeline)
	computePass.SetBindGroup(0, k.BindGroups[k.Front], nil)
	computePass.DispatchWorkgroups(Workgroups(k.Count), 1, 1)
	if err := computePass.End(); err != nil {
		return err
	}

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuf.Release()
	queue.Submit(cmdBuf)

	k.Front = 1 - k.Front
	return nil
}

// FrontBuffer is the buffer holding the latest state.
func (k *DeviceKernel) FrontBuffer() *wgpu.Buffer {
	return k.Particles[k.Front]
}

// Upload overwrites the front buffer.
func (k *DeviceKernel) Upload(slots []core.Particle) error {
	if len(slots) != k.Count {
		return fmt.Errorf("upload of %d slots into a %d slot kernel", len(slots), k.Count)
	}
	return k.Device.GetQueue().WriteBuffer(k.FrontBuffer(), 0, EncodeParticles(slots))
}

// ReadFront copies the front buffer back to the host. It blocks until the
// device is idle, so it is meant for verification and headless runs only.
func (k *DeviceKernel) ReadFront() ([]core.Particle, error) {
	size := k.bufferSize()

	encoder, err := k.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()
	if err := encoder.CopyBufferToBuffer(k.FrontBuffer(), 0, k.Readback, 0, size); err != nil {
		return nil, err
	}
	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	defer cmdBuf.Release()
	k.Device.GetQueue().Submit(cmdBuf)

	var status wgpu.BufferMapAsyncStatus
	mapped := false
	k.Readback.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		mapped = s == wgpu.BufferMapAsyncStatusSuccess
	})
	k.Device.Poll(true, nil)
	if !mapped {
		return nil, fmt.Errorf("particle readback failed: map status %v", status)
	}
	defer k.Readback.Unmap()

	slots := make([]core.Particle, k.Count)
	if err := DecodeParticles(slots, k.Readback.GetMappedRange(0, uint(size))); err != nil {
		return nil, err
	}
	return slots, nil
}

func (k *DeviceKernel) Release() {
	for i := range k.BindGroups {
		if k.BindGroups[i] != nil {
			k.BindGroups[i].Release()
			k.BindGroups[i] = nil
		}
	}
	for i := range k.Particles {
		if k.Particles[i] != nil {
			k.Particles[i].Release()
			k.Particles[i] = nil
		}
	}
	if k.Readback != nil {
		k.Readback.Release()
		k.Readback = nil
	}
	if k.ParamsBuf != nil {
		k.ParamsBuf.Release()
		k.ParamsBuf = nil
	}
	if k.Pipeline != nil {
		k.Pipeline.Release()
		k.Pipeline = nil
	}
}
