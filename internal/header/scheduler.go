package header

import "time"

// Timer is a cancellable pending call.
type Timer interface {
	// Stop prevents the call from firing. It returns false if the
	// call already fired or was already stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

// AfterFunc implements Scheduler.
func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// DefaultScheduler uses the runtime timers.
var DefaultScheduler Scheduler = clockScheduler{}
