package core

import "github.com/go-gl/mathgl/mgl32"

// MoveInput is one tick of the six axis inputs driving the emitter.
type MoveInput struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

// Direction sums the held axes without normalising, so diagonals move faster.
// moving is true when any axis is held.
func (in MoveInput) Direction() (dir mgl32.Vec3, moving bool) {
	if in.Forward {
		dir[2] -= 1
		moving = true
	}
	if in.Backward {
		dir[2] += 1
		moving = true
	}
	if in.Left {
		dir[0] -= 1
		moving = true
	}
	if in.Right {
		dir[0] += 1
		moving = true
	}
	if in.Up {
		dir[1] += 1
		moving = true
	}
	if in.Down {
		dir[1] -= 1
		moving = true
	}
	return dir, moving
}

// Emitter is the spawn point. It always spins and only moves on input.
type Emitter struct {
	Position      mgl32.Vec3
	Rotation      float32
	MoveDir       mgl32.Vec3
	MoveSpeed     float32
	RotationSpeed float32
}

func NewEmitter(s Settings) *Emitter {
	return &Emitter{
		Position:      s.EmitterPosition,
		MoveSpeed:     s.EmitterSpeed,
		RotationSpeed: s.RotationSpeed,
	}
}

// Update reports whether the position changed.
func (e *Emitter) Update(dt float32, in MoveInput) bool {
	dir, moving := in.Direction()
	e.MoveDir = dir
	if moving {
		e.Position = e.Position.Add(dir.Mul(e.MoveSpeed * dt))
	}
	e.Rotation += e.RotationSpeed * dt
	return moving
}
