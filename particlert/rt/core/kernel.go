package core

import (
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
)

// Kernel advances the particle store by one tick. Variants are chosen once at
// construction; Buffering tells which store layout a variant needs.
type Kernel interface {
	Name() string
	Buffering() Buffering
	Advance(blk *ParameterBlock, store *Store) error
}

// deg120 is 120 degrees in radians, the angle between the three outer streams.
const deg120 = 2.09439510

// stepParticle is the per-slot state machine. It reads nothing but its own
// slot and the parameter block, which is what makes every kernel variant
// free to evaluate slots in any order.
func stepParticle(id int, p Particle, blk *ParameterBlock, rnd RandomSource) Particle {
	if !p.Alive() {
		p.Color = mgl32.Vec4{}
		if id < blk.ParticlesEmitted {
			if p.Emitted == 0 {
				spawnParticle(id, &p, blk, rnd)
			}
		} else {
			p.Emitted = 0
		}
		return p
	}

	// Explicit float32 conversions keep the compiler from fusing into FMA,
	// so every platform rounds the same way.
	dt := blk.DeltaTime
	for i := 0; i < 3; i++ {
		p.Position[i] += float32(p.Velocity[i] * dt)
	}
	dv := float32(blk.Gravity * dt)
	for i := 0; i < 3; i++ {
		p.Velocity[i] -= dv
	}
	p.Life -= dt
	if p.Life < 1 {
		p.Color[3] -= dt
	}
	return p
}

func spawnParticle(id int, p *Particle, blk *ParameterBlock, rnd RandomSource) {
	slot := uint32(id)
	draw := func(d uint32) float32 {
		return rnd.Uniform(blk.Seed, blk.Tick, slot, d)
	}

	p.Life = blk.LifeTime
	p.Emitted = 1
	p.Position = blk.EmitterPosition

	sat := blk.ColorSaturation
	p.Color = mgl32.Vec4{
		float32(draw(DrawSaturationR) * sat),
		float32(draw(DrawSaturationG) * sat),
		float32(draw(DrawSaturationB) * sat),
		1,
	}

	if quadrant := id % 4; quadrant > 0 {
		angle := float64(float32(float32(quadrant)*deg120) + blk.EmitterRotation)
		p.Position[0] += float32(blk.Radius * float32(math.Sin(angle)))
		p.Position[2] -= float32(blk.Radius * float32(math.Cos(angle)))
		p.Color[quadrant-1] = 1
	}

	var vx, vz float32
	if spread := blk.Spread; spread != 0 {
		vx = float32(draw(DrawSpreadX)*spread) - spread*0.5
		vz = float32(draw(DrawSpreadZ)*spread) - spread*0.5
	}
	p.Velocity = mgl32.Vec3{vx, blk.Speed + float32(draw(DrawLift)*0.5), vz}
}

// span is a half-open slot index range owned by one worker.
type span struct{ start, end int }

// partition splits [0, n) into at most workers contiguous spans.
func partition(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers
	spans := make([]span, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

// resolveWorkers maps a configured worker count to a concrete one; values
// below 1 mean one worker per available CPU.
func resolveWorkers(workers int) int {
	if workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// activeRange is the number of slots a pass touches.
func activeRange(blk *ParameterBlock, slots []Particle) int {
	n := blk.ParticlesCount
	if n > len(slots) || n < 0 {
		n = len(slots)
	}
	return n
}
