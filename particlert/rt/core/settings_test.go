package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveLifeTimeClamp(t *testing.T) {
	s := DefaultSettings()
	s.Count = 100
	s.Period = 0.1
	s.EmitAtOnce = 100
	s.LifeTime = 1.0
	assert.InDelta(t, 0.1, s.EffectiveLifeTime(), 1e-6)
}

func TestEffectiveLifeTimeKeepsShorterLife(t *testing.T) {
	s := DefaultSettings()
	s.Count = 1000
	s.Period = 0.5
	s.EmitAtOnce = 10
	s.LifeTime = 3
	assert.InDelta(t, 50.0, s.MaxLifeTime(), 1e-4)
	assert.Equal(t, float32(3), s.EffectiveLifeTime())
}

func TestNewParameterBlockUsesClampedLife(t *testing.T) {
	s := DefaultSettings()
	blk := NewParameterBlock(s, 7)
	assert.InDelta(t, 0.1, blk.LifeTime, 1e-6)
	assert.Equal(t, s.Count, blk.ParticlesCount)
	assert.Equal(t, uint32(7), blk.Seed)
	assert.Equal(t, 0, blk.ParticlesEmitted)
}
