package engine

import "time"

// Clock abstracts time so timer-driven behaviour can be tested deterministically
// Production code uses RealClock; tests use MockClock and advance it explicitly
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// AfterFunc calls f on its own goroutine (real) or inline during Advance (mock) after d
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a ticker delivering on its channel every d
	NewTicker(d time.Duration) *Ticker
}

// Timer is a cancellable single-shot timer created by Clock.AfterFunc
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the timer from firing; returns false if it already fired or was stopped
func (t *Timer) Stop() bool { return t.stopFunc() }

// Ticker delivers ticks on C until stopped
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop turns off the ticker; no further ticks are sent
func (t *Ticker) Stop() { t.stopFunc() }
