package core

import "github.com/go-gl/mathgl/mgl32"

// Settings holds the static particle effect configuration.
type Settings struct {
	Count           int        `yaml:"count"`
	EmitAtOnce      int        `yaml:"emit_at_once"`
	PointSize       float32    `yaml:"point_size"`
	LifeTime        float32    `yaml:"life_time"`
	Speed           float32    `yaml:"speed"`
	Saturation      float32    `yaml:"saturation"`
	Period          float32    `yaml:"period"`
	EmitterSpeed    float32    `yaml:"emitter_speed"`
	RotationSpeed   float32    `yaml:"rotation_speed"`
	Gravity         float32    `yaml:"gravity"`
	EmitterPosition mgl32.Vec3 `yaml:"emitter_position,flow"`
	Radius          float32    `yaml:"radius"`
	Spread          float32    `yaml:"spread"`
}

func DefaultSettings() Settings {
	return Settings{
		Count:         100,
		EmitAtOnce:    100,
		PointSize:     1,
		LifeTime:      1,
		Speed:         1,
		Saturation:    0.1,
		Period:        0.1,
		EmitterSpeed:  1,
		RotationSpeed: 1,
		Gravity:       0,
		Radius:        1,
		Spread:        1,
	}
}

// MaxLifeTime is the longest life a particle may have before a full emission
// cycle wraps around onto slots that are still alive.
func (s Settings) MaxLifeTime() float32 {
	return float32(s.Count) * s.Period / float32(s.EmitAtOnce)
}

// EffectiveLifeTime clamps LifeTime down to MaxLifeTime.
func (s Settings) EffectiveLifeTime() float32 {
	if limit := s.MaxLifeTime(); limit < s.LifeTime {
		return limit
	}
	return s.LifeTime
}
