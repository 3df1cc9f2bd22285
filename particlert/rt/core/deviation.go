package core

import "math"

// Deviation is the largest absolute per-field difference between two slot
// sets and the slot it was found in.
type Deviation struct {
	Max  float32
	Slot int
}

// CompareSlots measures how far b is from a. Slot is -1 when they match
// exactly or have different lengths; a length mismatch reports +Inf.
func CompareSlots(a, b []Particle) Deviation {
	if len(a) != len(b) {
		return Deviation{Max: float32(math.Inf(1)), Slot: -1}
	}
	d := Deviation{Slot: -1}
	for i := range a {
		fa := a[i].fields()
		fb := b[i].fields()
		for j := range fa {
			diff := float32(math.Abs(float64(fa[j] - fb[j])))
			if diff > d.Max || math.IsNaN(float64(diff)) {
				d.Max = diff
				d.Slot = i
			}
		}
	}
	return d
}

// Within reports whether every field is within tol.
func (d Deviation) Within(tol float32) bool {
	return d.Max <= tol
}

func (p *Particle) fields() [ParticleFloats]float32 {
	return [ParticleFloats]float32{
		p.Position[0], p.Position[1], p.Position[2],
		p.Color[0], p.Color[1], p.Color[2], p.Color[3],
		p.Velocity[0], p.Velocity[1], p.Velocity[2],
		p.Life, p.Emitted,
	}
}
