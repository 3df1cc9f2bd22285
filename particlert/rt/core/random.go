package core

// Draw indices used when a slot spawns. The device kernels use the same
// numbering so that a slot draws the same values on every variant.
const (
	DrawSaturationR uint32 = iota
	DrawSaturationG
	DrawSaturationB
	DrawSpreadX
	DrawSpreadZ
	DrawLift

	drawsPerSlot = 8
)

// RandomSource returns a uniform value in [0, 1) for one draw of one slot.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	Uniform(seed, tick, slot, draw uint32) float32
}

// HashSource is a stateless counter based generator. Each draw hashes its key
// with PCG, so results do not depend on evaluation order or partitioning.
//
// The same function lives in particles_update.wgsl and the OpenCL kernel;
// keep them in sync.
type HashSource struct{}

func (HashSource) Uniform(seed, tick, slot, draw uint32) float32 {
	h := pcgHash(seed ^ pcgHash(tick^pcgHash(slot*drawsPerSlot+draw)))
	// 24 high bits map exactly onto the float32 mantissa.
	return float32(h>>8) * (1.0 / 16777216.0)
}

func pcgHash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}
