package clock

import (
	"sync"
	"time"
)

// ManualScheduler fires registered callbacks only when Advance is called.
// It is the virtual-time counterpart of TickerScheduler.
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]func()
	order   []int
	// Leaky keeps firing cancelled callbacks, which emulates a ticker
	// goroutine that was already past its cancel check.
	Leaky bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{entries: map[int]func(){}}
}

func (s *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.entries[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.Leaky {
			delete(s.entries, id)
		}
	}
}

// Active reports how many callbacks are still registered.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Advance fires every registered callback n times, in registration order.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range s.snapshot() {
			fn()
		}
	}
}

func (s *ManualScheduler) snapshot() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fns := make([]func(), 0, len(s.entries))
	for _, id := range s.order {
		if fn, ok := s.entries[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// StepClock is a Clock that moves forward only when told to.
type StepClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStepClock(start time.Time) *StepClock {
	return &StepClock{now: start}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *StepClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
