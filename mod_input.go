package gpuparticles

import (
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyY
	KeyH
	KeyG
	KeyJ
	KeyI
	KeyK
	KeySpace
	KeyEscape
	KeyTab
	KeyControl
	KeyShift
	KeyP
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

type InputModule struct{}

type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int
	CloseRequested            bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(stopOnCloseSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func stopOnCloseSystem(input *Input, cmd *Commands) {
	if input.CloseRequested || input.JustPressed[KeyEscape] {
		cmd.Stop()
	}
}

// EmitterInput maps the emitter keys: Y/H forward and back, G/J left and
// right, I/K up and down.
func EmitterInput(input *Input) core.MoveInput {
	return core.MoveInput{
		Forward:  input.Pressed[KeyY],
		Backward: input.Pressed[KeyH],
		Left:     input.Pressed[KeyG],
		Right:    input.Pressed[KeyJ],
		Up:       input.Pressed[KeyI],
		Down:     input.Pressed[KeyK],
	}
}

// setPressed updates the edge flags for one key or button.
func (input *Input) setPressed(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.setPressed(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.setPressed(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}

	mx, my := s.windowGlfw.GetCursorPos()
	if input.MouseCaptured {
		input.MouseDeltaX = mx - input.MouseX
		input.MouseDeltaY = my - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = mx
	input.MouseY = my

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetFramebufferSize()
	input.CloseRequested = s.windowGlfw.ShouldClose()

	if input.MouseCaptured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyW:       glfw.KeyW,
	KeyA:       glfw.KeyA,
	KeyS:       glfw.KeyS,
	KeyD:       glfw.KeyD,
	KeyY:       glfw.KeyY,
	KeyH:       glfw.KeyH,
	KeyG:       glfw.KeyG,
	KeyJ:       glfw.KeyJ,
	KeyI:       glfw.KeyI,
	KeyK:       glfw.KeyK,
	KeySpace:   glfw.KeySpace,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyControl: glfw.KeyLeftControl,
	KeyShift:   glfw.KeyLeftShift,
	KeyP:       glfw.KeyP,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}
