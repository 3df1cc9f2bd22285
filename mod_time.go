package gpuparticles

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// DeltaSeconds is Dt as float seconds, the unit the simulation works in.
func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

// TimeModule advances Time once per frame. A non zero FixedDt replaces the
// wall clock delta, which keeps headless runs reproducible.
type TimeModule struct {
	FixedDt time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	if mod.FixedDt > 0 {
		fixed := mod.FixedDt
		cmd.UseSystem(System(func(t *Time) {
			t.Dt = fixed
			t.Time = t.Time.Add(fixed)
			t.Frame++
		}).InStage(Prelude))
		return
	}
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}
