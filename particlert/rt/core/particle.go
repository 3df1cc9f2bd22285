package core

import "github.com/go-gl/mathgl/mgl32"

// Particle matches the slot layout shared by particles_update.wgsl,
// particles_point.wgsl and the OpenCL kernel:
//
//	struct Particle { vec3 position; vec4 color; vec3 velocity; float life; float emitted; }
//
// 12 floats, tightly packed, no padding.
type Particle struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	Velocity mgl32.Vec3
	Life     float32 // seconds left; <= 0 means inactive
	Emitted  float32 // 1 once spawned in the current wave, 0 when available
}

const (
	ParticleFloats = 12
	ParticleSize   = ParticleFloats * 4

	// Float offsets inside one slot.
	OffsetPosition = 0
	OffsetColor    = 3
	OffsetVelocity = 7
	OffsetOthers   = 10
)

// SlotState classifies a slot. Exactly one state holds at any instant.
type SlotState int

const (
	SlotAvailable SlotState = iota // inactive, may be spawned by the current wave
	SlotConsumed                   // inactive, already used by the current wave
	SlotActive
)

func (s SlotState) String() string {
	switch s {
	case SlotAvailable:
		return "available"
	case SlotConsumed:
		return "consumed"
	case SlotActive:
		return "active"
	}
	return "unknown"
}

func (p *Particle) State() SlotState {
	if p.Life > 0 {
		return SlotActive
	}
	if p.Emitted == 0 {
		return SlotAvailable
	}
	return SlotConsumed
}

func (p *Particle) Alive() bool { return p.Life > 0 }
