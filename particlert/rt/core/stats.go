package core

import "fmt"

// Stats counts slots per state.
type Stats struct {
	Active    int
	Consumed  int
	Available int
}

func CollectStats(slots []Particle) Stats {
	var st Stats
	for i := range slots {
		switch slots[i].State() {
		case SlotActive:
			st.Active++
		case SlotConsumed:
			st.Consumed++
		default:
			st.Available++
		}
	}
	return st
}

func (s Stats) Total() int { return s.Active + s.Consumed + s.Available }

func (s Stats) String() string {
	return fmt.Sprintf("active=%d consumed=%d available=%d", s.Active, s.Consumed, s.Available)
}
