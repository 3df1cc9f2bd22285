package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraDefaultLooksDownNegativeZ(t *testing.T) {
	c := NewCameraState()
	f := c.Forward()
	assert.InDelta(t, 0, f[0], 1e-6)
	assert.InDelta(t, 0, f[1], 1e-6)
	assert.InDelta(t, -1, f[2], 1e-6)
	assert.InDelta(t, 1, c.Right()[0], 1e-6)
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	c := NewCameraState()
	c.Position = mgl32.Vec3{0, 0, 5}
	clip := c.ViewProjection(1).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)
}

func TestCameraPitchClamp(t *testing.T) {
	c := NewCameraState()
	c.Look(0, -1e6)
	assert.Less(t, float64(c.Pitch), math.Pi/2)
	c.Look(0, 1e6)
	assert.Greater(t, float64(c.Pitch), -math.Pi/2)
}
