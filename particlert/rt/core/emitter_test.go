package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEmitterSpinsWithoutInput(t *testing.T) {
	e := &Emitter{Position: mgl32.Vec3{1, 2, 3}, MoveSpeed: 2, RotationSpeed: 4}
	moved := e.Update(0.5, MoveInput{})
	assert.False(t, moved)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, e.Position)
	assert.Equal(t, float32(2), e.Rotation)
}

func TestEmitterMovesAlongHeldAxes(t *testing.T) {
	e := &Emitter{MoveSpeed: 2, RotationSpeed: 1}
	moved := e.Update(0.5, MoveInput{Forward: true, Right: true, Up: true})
	assert.True(t, moved)
	assert.Equal(t, mgl32.Vec3{1, 1, -1}, e.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, -1}, e.MoveDir)
}

func TestMoveInputOpposingAxesCancel(t *testing.T) {
	dir, moving := MoveInput{Left: true, Right: true}.Direction()
	assert.True(t, moving)
	assert.Equal(t, mgl32.Vec3{}, dir)
}

func TestNewEmitterFromSettings(t *testing.T) {
	s := DefaultSettings()
	s.EmitterPosition = mgl32.Vec3{0, 5, 0}
	s.EmitterSpeed = 3
	e := NewEmitter(s)
	assert.Equal(t, s.EmitterPosition, e.Position)
	assert.Equal(t, float32(3), e.MoveSpeed)
	assert.Equal(t, s.RotationSpeed, e.RotationSpeed)
}
