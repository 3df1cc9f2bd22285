package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/gekko3d/gpuparticles/particlert/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// quadVertices is the vertex count of one particle quad (two triangles).
const quadVertices = 6

// ParticleVertexLayout reads position and color straight out of the slot
// buffer; velocity and life are skipped by the stride.
func ParticleVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: core.ParticleSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         core.OffsetPosition * 4,
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         core.OffsetColor * 4,
				ShaderLocation: 1,
			},
		},
	}
}

// PointRenderPass draws one screen aligned quad per slot. It never writes
// particle state.
type PointRenderPass struct {
	Device     *wgpu.Device
	Pipeline   *wgpu.RenderPipeline
	UniformBuf *wgpu.Buffer
	BindGroup  *wgpu.BindGroup

	// HostBuf holds slots simulated on the host, uploaded once per frame.
	HostBuf *wgpu.Buffer
	HostCap int
}

func NewPointRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*PointRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticlesPointShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesPointWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticlesPointBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: RenderUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer bgl.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlesPointPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{ParticleVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &PointRenderPass{Device: device, Pipeline: pipeline}
	p.UniformBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticlesPointUniformBuf",
		Size:  RenderUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticlesPointBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuf, Size: RenderUniformsSize},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *PointRenderPass) UpdateUniforms(queue *wgpu.Queue, viewProj mgl32.Mat4, viewport [2]float32, pointSize float32) error {
	return queue.WriteBuffer(p.UniformBuf, 0, EncodeRenderUniforms(viewProj, viewport, pointSize))
}

// Upload copies host slots into HostBuf, growing it when needed.
func (p *PointRenderPass) Upload(queue *wgpu.Queue, slots []core.Particle) (*wgpu.Buffer, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	if p.HostBuf == nil || p.HostCap < len(slots) {
		if p.HostBuf != nil {
			p.HostBuf.Release()
		}
		var err error
		p.HostCap = len(slots)
		p.HostBuf, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ParticlesHostVertexBuf",
			Size:  uint64(p.HostCap) * core.ParticleSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.HostBuf = nil
			p.HostCap = 0
			return nil, err
		}
	}
	if err := queue.WriteBuffer(p.HostBuf, 0, EncodeParticles(slots)); err != nil {
		return nil, err
	}
	return p.HostBuf, nil
}

// Draw records count instances reading from particles.
func (p *PointRenderPass) Draw(pass *wgpu.RenderPassEncoder, particles *wgpu.Buffer, count int) {
	if particles == nil || count <= 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, particles, 0, uint64(count)*core.ParticleSize)
	pass.Draw(quadVertices, uint32(count), 0, 0)
}

func (p *PointRenderPass) Release() {
	if p.HostBuf != nil {
		p.HostBuf.Release()
		p.HostBuf = nil
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.UniformBuf != nil {
		p.UniformBuf.Release()
		p.UniformBuf = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
