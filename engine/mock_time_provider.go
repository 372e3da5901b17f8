package engine

import (
	"sort"
	"sync"
	"time"
)

// MockClock provides a controllable time source for testing
// Timers fire only when Advance moves time past their deadline; callbacks run inline on the caller
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*mockWaiter
}

type mockWaiter struct {
	deadline time.Time
	callback func()
	channel  chan time.Time
	interval time.Duration // > 0 for tickers
	stopped  bool
	fired    bool
}

// NewMockClock creates a new mock clock with the given start time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{current: startTime}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// AfterFunc registers f to run once Advance reaches now+d
// Non-positive durations run f immediately
func (m *MockClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w := &mockWaiter{deadline: m.current.Add(d), callback: f}
	m.waiters = append(m.waiters, w)

	return &Timer{stopFunc: func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if w.stopped || w.fired {
			return false
		}
		w.stopped = true
		return true
	}}
}

// NewTicker creates a ticker that sends on its channel every d of mocked time
// Ticks are dropped when the channel buffer is full, like time.Ticker
func (m *MockClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("engine: non-positive interval for NewTicker")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	w := &mockWaiter{deadline: m.current.Add(d), channel: ch, interval: d}
	m.waiters = append(m.waiters, w)

	return &Ticker{C: ch, stopFunc: func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		w.stopped = true
	}}
}

// SetTime jumps to t without firing timers
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves time forward by d and fires every expired timer in deadline order
// Timers registered by callbacks are considered in the same call
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	target := m.current
	m.mu.Unlock()

	for {
		toFire := m.collectExpired(target)
		if len(toFire) == 0 {
			return
		}

		sort.SliceStable(toFire, func(i, j int) bool {
			return toFire[i].deadline.Before(toFire[j].deadline)
		})

		for _, w := range toFire {
			// A callback earlier in this batch may have stopped w
			m.mu.Lock()
			live := !w.stopped
			if live && w.interval == 0 {
				w.fired = true
			}
			m.mu.Unlock()
			if !live {
				continue
			}

			if w.callback != nil {
				w.callback()
			} else if w.channel != nil {
				select {
				case w.channel <- target:
				default:
				}
			}
		}
	}
}

func (m *MockClock) collectExpired(target time.Time) []*mockWaiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	var toFire, remaining []*mockWaiter
	for _, w := range m.waiters {
		if w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			toFire = append(toFire, w)
		} else {
			remaining = append(remaining, w)
		}
	}

	for _, w := range toFire {
		if w.interval > 0 {
			// Catch-up ticks collapse into one delivery per Advance
			for !w.deadline.After(target) {
				w.deadline = w.deadline.Add(w.interval)
			}
			remaining = append(remaining, w)
		}
	}

	m.waiters = remaining
	return toFire
}

// PendingCount returns the number of live timers and tickers
func (m *MockClock) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, w := range m.waiters {
		if !w.stopped {
			count++
		}
	}
	return count
}
