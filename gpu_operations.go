package gpuparticles

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
)

// GpuState owns the device. surface is nil for headless devices, which can
// run compute passes but never present.
type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(s *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("requesting device: %w", err)
	}

	width, height := s.windowGlfw.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         device.GetQueue(),
		surfaceConfig: &surfaceConfig,
	}, nil
}

func createHeadlessGpuState() (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting headless adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Headless Device",
	})
	if err != nil {
		return nil, fmt.Errorf("requesting headless device: %w", err)
	}
	return &GpuState{
		adapter: adapter,
		device:  device,
		queue:   device.GetQueue(),
	}, nil
}

func (g *GpuState) Device() *wgpu.Device { return g.device }

func (g *GpuState) Queue() *wgpu.Queue { return g.queue }

func (g *GpuState) Headless() bool { return g.surface == nil }

// SurfaceFormat is the swapchain format render pipelines target.
func (g *GpuState) SurfaceFormat() wgpu.TextureFormat {
	if g.surfaceConfig == nil {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return g.surfaceConfig.Format
}

// Viewport is the swapchain size in pixels.
func (g *GpuState) Viewport() [2]float32 {
	if g.surfaceConfig == nil {
		return [2]float32{1, 1}
	}
	return [2]float32{float32(g.surfaceConfig.Width), float32(g.surfaceConfig.Height)}
}

// resize reconfigures the surface when the framebuffer size changed. A zero
// size (minimised window) is ignored.
func (g *GpuState) resize(width, height int) {
	if g.surface == nil || width <= 0 || height <= 0 {
		return
	}
	if uint32(width) == g.surfaceConfig.Width && uint32(height) == g.surfaceConfig.Height {
		return
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

// frame is one acquired swapchain image with an open render pass.
type frame struct {
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

func (g *GpuState) beginFrame(clear wgpu.Color) (*frame, error) {
	if g.surface == nil {
		return nil, fmt.Errorf("headless device has no surface to draw to")
	}
	nextTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquiring surface texture: %w", err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("creating surface view: %w", err)
	}
	encoder, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		return nil, err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	return &frame{view: view, encoder: encoder, pass: pass}, nil
}

func (g *GpuState) endFrame(f *frame) error {
	defer f.view.Release()
	defer f.encoder.Release()
	defer f.pass.Release()

	if err := f.pass.End(); err != nil {
		return err
	}
	cmdBuffer, err := f.encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	g.queue.Submit(cmdBuffer)
	g.surface.Present()
	return nil
}

func (g *GpuState) Release() {
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
}

// GpuModule creates the device. With Headless set no window is needed and
// failure to find an adapter only disables the device backends.
type GpuModule struct {
	Headless bool
}

func (m GpuModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	if m.Headless {
		gs, err := createHeadlessGpuState()
		if err != nil {
			logger.Warnf("No GPU device for headless run: %v", err)
			return
		}
		cmd.AddResources(gs)
		app.UseShutdownSystem(PostRender, releaseGpuSystem)
		return
	}

	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("GpuModule requires a WindowState; install PlatformWindowModule first")
	}
	gs, err := createGpuState(ws)
	if err != nil {
		logger.Errorf("GPU initialisation failed: %v", err)
		panic(err)
	}
	logger.Infof("GPU ready, surface format %v", gs.SurfaceFormat())
	cmd.AddResources(gs)
	app.UseShutdownSystem(PostRender, releaseGpuSystem)
	app.UseSystem(
		System(surfaceResizeSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

func surfaceResizeSystem(gs *GpuState, input *Input) {
	gs.resize(input.WindowWidth, input.WindowHeight)
}

func releaseGpuSystem(gs *GpuState) {
	gs.Release()
}
