package clock

import "time"

// Clock abstracts wall time so deadline logic can be driven manually in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending wake-up. Stop reports whether the call prevented the
// timer from firing.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// New returns a Clock backed by the system wall clock.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (rt realTimer) Stop() bool {
	return rt.t.Stop()
}
