package core

// EmissionScheduler releases particles in periodic portions. Emitted is the
// number of slots the current wave has reached.
type EmissionScheduler struct {
	Count              int
	EmitAtOnce         int
	Period             float32
	Emitted            int
	TimeToNextEmission float32
}

func NewEmissionScheduler(s Settings) *EmissionScheduler {
	return &EmissionScheduler{
		Count:      s.Count,
		EmitAtOnce: s.EmitAtOnce,
		Period:     s.Period,
	}
}

// Tick advances the countdown. wrapped reports that a full wave was reset to
// zero at tick start, emitted that a portion was released this tick. A non
// positive dt changes nothing.
func (s *EmissionScheduler) Tick(dt float32) (wrapped, emitted bool) {
	if dt <= 0 {
		return false, false
	}
	if s.Emitted == s.Count {
		s.Emitted = 0
		wrapped = true
	}

	s.TimeToNextEmission -= dt
	if s.TimeToNextEmission <= 0 {
		s.Emitted += s.EmitAtOnce
		if s.Emitted > s.Count {
			s.Emitted = s.Count
		}
		s.TimeToNextEmission = s.Period
		emitted = true
	}
	return wrapped, emitted
}
