package engine

import "time"

// RealClock provides the system time and runtime timers
type RealClock struct{}

// NewRealClock creates a Clock backed by the time package
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current time with monotonic clock reading
func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}

func (RealClock) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stopFunc: t.Stop}
}
