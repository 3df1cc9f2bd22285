package core

import "github.com/go-gl/mathgl/mgl32"

// ParameterBlock is the per-tick snapshot every kernel reads. It is written by
// the scheduler and emitter before dispatch and is read-only during a pass.
type ParameterBlock struct {
	DeltaTime        float32
	EmitterPosition  mgl32.Vec3
	EmitterRotation  float32
	ParticlesEmitted int
	ParticlesCount   int
	LifeTime         float32
	Radius           float32
	Spread           float32
	ColorSaturation  float32
	Speed            float32
	Gravity          float32

	// Tick and Seed key the random draws so that every kernel variant draws
	// the same numbers for the same slot.
	Tick uint32
	Seed uint32
}

// NewParameterBlock fills the static part of the block from settings. The
// lifetime is clamped with Settings.EffectiveLifeTime.
func NewParameterBlock(s Settings, seed uint32) ParameterBlock {
	return ParameterBlock{
		EmitterPosition: s.EmitterPosition,
		ParticlesCount:  s.Count,
		LifeTime:        s.EffectiveLifeTime(),
		Radius:          s.Radius,
		Spread:          s.Spread,
		ColorSaturation: s.Saturation,
		Speed:           s.Speed,
		Gravity:         s.Gravity,
		Seed:            seed,
	}
}
