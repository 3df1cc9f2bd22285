package gpuparticles

import (
	"fmt"
	"time"
)

// Profiler accumulates time spent in the particle update and draw systems
// since the last Reset.
type Profiler struct {
	UpdateTime time.Duration
	DrawTime   time.Duration
	Updates    int
	Draws      int
}

func (p *Profiler) AddUpdate(d time.Duration) {
	p.UpdateTime += d
	p.Updates++
}

func (p *Profiler) AddDraw(d time.Duration) {
	p.DrawTime += d
	p.Draws++
}

func (p *Profiler) MeanUpdate() time.Duration {
	if p.Updates == 0 {
		return 0
	}
	return p.UpdateTime / time.Duration(p.Updates)
}

func (p *Profiler) MeanDraw() time.Duration {
	if p.Draws == 0 {
		return 0
	}
	return p.DrawTime / time.Duration(p.Draws)
}

func (p *Profiler) Reset() {
	p.UpdateTime = 0
	p.DrawTime = 0
	p.Updates = 0
	p.Draws = 0
}

func (p *Profiler) String() string {
	return fmt.Sprintf("update=%v/tick draw=%v/frame", p.MeanUpdate(), p.MeanDraw())
}
