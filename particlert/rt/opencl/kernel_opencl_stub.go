//go:build !opencl

package opencl

import (
	"errors"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
)

type Kernel struct{}

func NewKernel(count int) (*Kernel, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (k *Kernel) Name() string { return "opencl" }

func (k *Kernel) Buffering() core.Buffering { return core.DoubleBuffer }

func (k *Kernel) DeviceName() string { return "" }

func (k *Kernel) Advance(blk *core.ParameterBlock, store *core.Store) error {
	return errors.New("OpenCL kernel unavailable")
}

func (k *Kernel) Release() {}
