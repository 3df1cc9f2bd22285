//go:build !opencl

package opencl

import (
	"testing"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/stretchr/testify/assert"
)

var _ core.Kernel = (*Kernel)(nil)

func TestNewKernelWithoutOpenCL(t *testing.T) {
	k, err := NewKernel(16)
	assert.Nil(t, k)
	assert.ErrorContains(t, err, "-tags opencl")
}

func TestStubKernel(t *testing.T) {
	var k Kernel
	assert.Equal(t, "opencl", k.Name())
	assert.Equal(t, core.DoubleBuffer, k.Buffering())
	assert.Empty(t, k.DeviceName())

	blk := core.ParameterBlock{DeltaTime: 0.1}
	assert.Error(t, k.Advance(&blk, core.NewStore(4, core.DoubleBuffer)))
}
