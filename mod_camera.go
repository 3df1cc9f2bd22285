package gpuparticles

import (
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraModule adds a *core.CameraState built from the Config resource (or
// defaults) and flies it with WASD, Space and Ctrl. Tab toggles mouse look.
type CameraModule struct{}

func (m CameraModule) Install(app *App, cmd *Commands) {
	cam := core.NewCameraState()
	if cfg, ok := Resource[Config](app); ok {
		cam = cfg.NewCamera()
	}
	cmd.AddResources(cam)
	app.UseSystem(
		System(flyingCameraSystem).
			InStage(Update).
			RunAlways(),
	)
}

// flyMove is the camera-local movement requested by input: x right, y up,
// z forward.
func flyMove(input *Input) mgl32.Vec3 {
	var move mgl32.Vec3
	if input.Pressed[KeyW] {
		move[2] += 1
	}
	if input.Pressed[KeyS] {
		move[2] -= 1
	}
	if input.Pressed[KeyA] {
		move[0] -= 1
	}
	if input.Pressed[KeyD] {
		move[0] += 1
	}
	if input.Pressed[KeySpace] {
		move[1] += 1
	}
	if input.Pressed[KeyControl] {
		move[1] -= 1
	}
	return move
}

func flyCamera(cam *core.CameraState, move mgl32.Vec3, lookX, lookY float32, dt float32) {
	cam.Look(lookX, lookY)

	dir := cam.Right().Mul(move[0]).
		Add(mgl32.Vec3{0, move[1], 0}).
		Add(cam.Forward().Mul(move[2]))
	if dir.Len() > 0 {
		cam.Position = cam.Position.Add(dir.Normalize().Mul(cam.Speed * dt))
	}
}

func flyingCameraSystem(input *Input, cam *core.CameraState, t *Time) {
	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}
	dt := t.DeltaSeconds()
	if dt <= 0 {
		return
	}
	flyCamera(cam, flyMove(input), float32(input.MouseDeltaX), float32(input.MouseDeltaY), dt)
}
