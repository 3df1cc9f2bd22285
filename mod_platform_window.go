package gpuparticles

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string, fullscreen bool) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialising glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU drives the surface, not OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}, nil
}

func (s *WindowState) destroy() {
	if s.windowGlfw != nil {
		s.windowGlfw.Destroy()
		s.windowGlfw = nil
	}
	glfw.Terminate()
}

// PlatformWindowModule creates the single GLFW window shared by the GPU and
// input modules. Install is a no-op when a WindowState already exists.
type PlatformWindowModule struct {
	Width      int
	Height     int
	Title      string
	Fullscreen bool
}

func NewPlatformWindow(cfg WindowConfig) *PlatformWindowModule {
	m := &PlatformWindowModule{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Title:      cfg.Title,
		Fullscreen: cfg.Fullscreen,
	}
	if m.Width <= 0 {
		m.Width = defaultWindowWidth
	}
	if m.Height <= 0 {
		m.Height = defaultWindowHeight
	}
	if m.Title == "" {
		m.Title = defaultWindowTitle
	}
	return m
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title, m.Fullscreen)
	if err != nil {
		app.Logger().Errorf("Window creation failed: %v", err)
		panic(err)
	}
	app.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)
	cmd.AddResources(ws)
	app.UseShutdownSystem(Finale, func(ws *WindowState) {
		ws.destroy()
	})
}
