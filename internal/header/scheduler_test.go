package header

import (
	"sort"
	"sync"
	"time"
)

// manualScheduler fires its timers when the clock is advanced.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	scheduler *manualScheduler
	deadline  time.Duration
	fn        func()
	stopped   bool
	fired     bool
}

func (t *manualTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true

	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := &manualTimer{
		scheduler: s,
		deadline:  s.now + d,
		fn:        fn,
	}

	s.timers = append(s.timers, timer)

	return timer
}

// Advance moves the clock forward and runs the due timers in order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()

	s.now += d

	due := make([]*manualTimer, 0)
	pending := make([]*manualTimer, 0, len(s.timers))

	for _, t := range s.timers {
		switch {
		case t.stopped:
		case t.deadline <= s.now:
			t.fired = true
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}

	s.timers = pending

	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline < due[j].deadline
	})

	for _, t := range due {
		t.fn()
	}
}

// FireStale runs a stopped timer anyway, like a runtime timer whose
// function was already started when Stop was called.
func (s *manualScheduler) FireStale() int {
	s.mu.Lock()

	stale := make([]*manualTimer, 0)
	for _, t := range s.timers {
		if t.stopped {
			stale = append(stale, t)
		}
	}

	s.mu.Unlock()

	for _, t := range stale {
		t.fn()
	}

	return len(stale)
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}

	return count
}

var _ Scheduler = &manualScheduler{}
