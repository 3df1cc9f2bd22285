package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ParamsSize is sizeof(Params) in particles_update.wgsl.
	ParamsSize = 64
	// RenderUniformsSize is sizeof(RenderUniforms) in particles_point.wgsl.
	RenderUniformsSize = 80
)

// EncodeParams packs the block into the uniform layout of the update shader.
func EncodeParams(blk *core.ParameterBlock) []byte {
	buf := make([]byte, ParamsSize)
	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	putF32(0, blk.EmitterPosition[0])
	putF32(4, blk.EmitterPosition[1])
	putF32(8, blk.EmitterPosition[2])
	putF32(12, blk.EmitterRotation)
	putF32(16, blk.DeltaTime)
	binary.LittleEndian.PutUint32(buf[20:], uint32(blk.ParticlesEmitted))
	putF32(24, blk.LifeTime)
	putF32(28, blk.Radius)
	putF32(32, blk.Spread)
	putF32(36, blk.ColorSaturation)
	putF32(40, blk.Speed)
	putF32(44, blk.Gravity)
	binary.LittleEndian.PutUint32(buf[48:], uint32(blk.ParticlesCount))
	binary.LittleEndian.PutUint32(buf[52:], blk.Tick)
	binary.LittleEndian.PutUint32(buf[56:], blk.Seed)
	return buf
}

// EncodeRenderUniforms packs the point pass uniforms. viewProj is column
// major, which is what WGSL expects.
func EncodeRenderUniforms(viewProj mgl32.Mat4, viewport [2]float32, pointSize float32) []byte {
	buf := make([]byte, RenderUniformsSize)
	for i, v := range viewProj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(viewport[0]))
	binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(viewport[1]))
	binary.LittleEndian.PutUint32(buf[72:], math.Float32bits(pointSize))
	return buf
}

// EncodeParticles writes slots in their device layout.
func EncodeParticles(slots []core.Particle) []byte {
	buf := make([]byte, len(slots)*core.ParticleSize)
	for i := range slots {
		p := &slots[i]
		off := i * core.ParticleSize
		fields := [core.ParticleFloats]float32{
			p.Position[0], p.Position[1], p.Position[2],
			p.Color[0], p.Color[1], p.Color[2], p.Color[3],
			p.Velocity[0], p.Velocity[1], p.Velocity[2],
			p.Life, p.Emitted,
		}
		for j, v := range fields {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(v))
		}
	}
	return buf
}

// DecodeParticles fills dst from device bytes.
func DecodeParticles(dst []core.Particle, data []byte) error {
	if len(data) < len(dst)*core.ParticleSize {
		return fmt.Errorf("particle data too short: %d bytes for %d slots", len(data), len(dst))
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := range dst {
		off := i * core.ParticleSize
		dst[i] = core.Particle{
			Position: mgl32.Vec3{f(off), f(off + 4), f(off + 8)},
			Color:    mgl32.Vec4{f(off + 12), f(off + 16), f(off + 20), f(off + 24)},
			Velocity: mgl32.Vec3{f(off + 28), f(off + 32), f(off + 36)},
			Life:     f(off + 40),
			Emitted:  f(off + 44),
		}
	}
	return nil
}
