package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmissionSchedulerWave(t *testing.T) {
	s := &EmissionScheduler{Count: 10, EmitAtOnce: 4, Period: 0.5}

	steps := []struct {
		emitted int
		wrapped bool
		fired   bool
	}{
		{4, false, true},
		{4, false, false},
		{8, false, true},
		{8, false, false},
		{10, false, true}, // clamped to Count
		{0, true, false},
		{4, false, true},
	}
	for i, want := range steps {
		wrapped, fired := s.Tick(0.25)
		assert.Equal(t, want.emitted, s.Emitted, "tick %d", i)
		assert.Equal(t, want.wrapped, wrapped, "tick %d", i)
		assert.Equal(t, want.fired, fired, "tick %d", i)
	}
}

func TestEmissionSchedulerStaysInBounds(t *testing.T) {
	s := &EmissionScheduler{Count: 7, EmitAtOnce: 3, Period: 0.01}
	for i := 0; i < 500; i++ {
		s.Tick(0.013)
		if s.Emitted < 0 || s.Emitted > s.Count {
			t.Fatalf("tick %d: emitted %d out of [0, %d]", i, s.Emitted, s.Count)
		}
	}
}

func TestEmissionSchedulerZeroDelta(t *testing.T) {
	s := &EmissionScheduler{Count: 10, EmitAtOnce: 5, Period: 1, TimeToNextEmission: 0.5}
	s.Emitted = 5
	wrapped, fired := s.Tick(0)
	assert.False(t, wrapped)
	assert.False(t, fired)
	assert.Equal(t, 5, s.Emitted)
	assert.Equal(t, float32(0.5), s.TimeToNextEmission)
}

func TestEmissionSchedulerZeroDeltaAtWaveBoundary(t *testing.T) {
	s := &EmissionScheduler{Count: 4, EmitAtOnce: 4, Period: 0.5}
	_, fired := s.Tick(0.1)
	require.True(t, fired)
	require.Equal(t, 4, s.Emitted)

	for _, dt := range []float32{0, -0.2} {
		wrapped, fired := s.Tick(dt)
		assert.False(t, wrapped)
		assert.False(t, fired)
		assert.Equal(t, 4, s.Emitted, "full wave kept for dt %v", dt)
		assert.Equal(t, float32(0.5), s.TimeToNextEmission)
	}

	// An elapsed countdown does not fire without time passing either.
	s = &EmissionScheduler{Count: 10, EmitAtOnce: 5, Period: 1, TimeToNextEmission: -0.1}
	_, fired = s.Tick(0)
	assert.False(t, fired)
	assert.Equal(t, 0, s.Emitted)
}
