package core

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// StreamKernel is the host rendition of the device pass: every slot i of the
// back buffer is a function of slot i of the front buffer and the parameter
// block only. The buffers are swapped once the whole pass is done.
type StreamKernel struct {
	Workers int
	Random  RandomSource
}

func NewStreamKernel(workers int, rnd RandomSource) *StreamKernel {
	if rnd == nil {
		rnd = HashSource{}
	}
	return &StreamKernel{Workers: resolveWorkers(workers), Random: rnd}
}

func (k *StreamKernel) Name() string { return "stream" }

func (k *StreamKernel) Buffering() Buffering { return DoubleBuffer }

func (k *StreamKernel) Advance(blk *ParameterBlock, store *Store) error {
	if store.Buffering() != DoubleBuffer {
		return fmt.Errorf("stream kernel needs a double buffered store, got %s", store.Buffering())
	}
	if blk.DeltaTime <= 0 {
		return nil
	}
	src := store.Front()
	dst := store.Back()
	n := activeRange(blk, src)
	copy(dst[n:], src[n:])

	var g errgroup.Group
	for _, sp := range partition(n, k.Workers) {
		g.Go(func() error {
			for i := sp.start; i < sp.end; i++ {
				dst[i] = stepParticle(i, src[i], blk, k.Random)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	store.Swap()
	return nil
}
