package core

import "golang.org/x/sync/errgroup"

// SequentialKernel updates slots in place on the host. With more than one
// worker the slots are cut into contiguous spans, one goroutine per span;
// slots never read each other so the split does not change the result.
type SequentialKernel struct {
	Workers int
	Random  RandomSource
}

func NewSequentialKernel(workers int, rnd RandomSource) *SequentialKernel {
	if rnd == nil {
		rnd = HashSource{}
	}
	return &SequentialKernel{Workers: resolveWorkers(workers), Random: rnd}
}

func (k *SequentialKernel) Name() string { return "sequential" }

func (k *SequentialKernel) Buffering() Buffering { return SingleBuffer }

func (k *SequentialKernel) Advance(blk *ParameterBlock, store *Store) error {
	if blk.DeltaTime <= 0 {
		return nil
	}
	slots := store.Front()
	n := activeRange(blk, slots)

	if k.Workers <= 1 {
		for i := 0; i < n; i++ {
			slots[i] = stepParticle(i, slots[i], blk, k.Random)
		}
		return nil
	}

	var g errgroup.Group
	for _, sp := range partition(n, k.Workers) {
		g.Go(func() error {
			for i := sp.start; i < sp.end; i++ {
				slots[i] = stepParticle(i, slots[i], blk, k.Random)
			}
			return nil
		})
	}
	return g.Wait()
}
