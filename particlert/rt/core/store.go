package core

import "fmt"

// Buffering tells how many host buffers a kernel variant needs.
type Buffering int

const (
	SingleBuffer Buffering = 1
	DoubleBuffer Buffering = 2
)

func (b Buffering) String() string {
	switch b {
	case SingleBuffer:
		return "single"
	case DoubleBuffer:
		return "double"
	}
	return fmt.Sprintf("Buffering(%d)", int(b))
}

// Store owns the particle slots. A double buffered store keeps two equally
// sized buffers and a front index toggled by Swap; the back buffer is only
// ever written by a kernel pass reading the front one.
type Store struct {
	buffers   [2][]Particle
	front     int
	buffering Buffering
}

func NewStore(count int, buffering Buffering) *Store {
	if count < 0 {
		count = 0
	}
	s := &Store{buffering: buffering}
	s.buffers[0] = make([]Particle, count)
	if buffering == DoubleBuffer {
		s.buffers[1] = make([]Particle, count)
	}
	return s
}

func (s *Store) Len() int { return len(s.buffers[s.front]) }

func (s *Store) Buffering() Buffering { return s.buffering }

// Front returns the buffer render reads from.
func (s *Store) Front() []Particle { return s.buffers[s.front] }

// Back returns the buffer the next parallel pass writes to, nil when single buffered.
func (s *Store) Back() []Particle {
	if s.buffering != DoubleBuffer {
		return nil
	}
	return s.buffers[1-s.front]
}

// Swap flips front and back after a completed parallel pass.
func (s *Store) Swap() {
	if s.buffering != DoubleBuffer {
		panic("Store.Swap called on a single buffered store")
	}
	s.front = 1 - s.front
}

// Load copies src into the front buffer.
func (s *Store) Load(src []Particle) {
	copy(s.Front(), src)
}

func (s *Store) Release() {
	s.buffers[0] = nil
	s.buffers[1] = nil
	s.front = 0
}
