package engine

import (
	"context"
	"sync"
	"time"

	"github.com/lixenwraith/ducky/parameter"
)

// Handle cancels a scheduled callback
// Cancel returns true if the callback had not yet run and now never will
type Handle interface {
	Cancel() bool
}

// Scheduler is the cooperative timing surface used by the agent components
// All callbacks run on the loop goroutine, one at a time, to completion
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Handle
	RequestFrame(f func(now time.Time)) Handle
}

// Loop serializes host input, timer expiry and frame ticks onto a single goroutine
//
// Architecture:
//   - Clock timers fire on arbitrary goroutines and only Post a closure
//   - The posted closure checks the handle's cancelled flag on the loop goroutine,
//     so a timer cancelled after expiry but before execution never runs
//   - Frame requests are one-shot and collected until the next frame tick
type Loop struct {
	clock         Clock
	frameInterval time.Duration

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Loop goroutine only
	frames  []*frameRequest
	onFrame func(now time.Time)
}

// NewLoop creates a loop on the given clock; frameInterval <= 0 selects the default cadence
func NewLoop(clock Clock, frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = parameter.FrameUpdateInterval
	}
	return &Loop{
		clock:         clock,
		frameInterval: frameInterval,
		tasks:         make(chan func(), parameter.LoopQueueSize),
		done:          make(chan struct{}),
	}
}

// Now returns the clock time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// SetFrameHook installs a callback run after all frame requests of a tick, used for drawing
func (l *Loop) SetFrameHook(fn func(now time.Time)) {
	l.onFrame = fn
}

// Post queues fn for execution on the loop goroutine, safe from any goroutine
// Returns false once the loop has been stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

type timerHandle struct {
	timer     *Timer
	cancelled bool
	fired     bool
}

func (h *timerHandle) Cancel() bool {
	pending := !h.cancelled && !h.fired
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	return pending
}

// AfterFunc runs f on the loop goroutine after d unless cancelled first
func (l *Loop) AfterFunc(d time.Duration, f func()) Handle {
	h := &timerHandle{}
	h.timer = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if h.cancelled || h.fired {
				return
			}
			h.fired = true
			f()
		})
	})
	return h
}

type frameRequest struct {
	fn        func(now time.Time)
	cancelled bool
	done      bool
}

func (r *frameRequest) Cancel() bool {
	pending := !r.cancelled && !r.done
	r.cancelled = true
	return pending
}

// RequestFrame runs f once on the next frame tick, the cooperative animation-frame cadence
func (l *Loop) RequestFrame(f func(now time.Time)) Handle {
	r := &frameRequest{fn: f}
	l.frames = append(l.frames, r)
	return r
}

// PendingFrames returns the number of live frame requests
func (l *Loop) PendingFrames() int {
	n := 0
	for _, r := range l.frames {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// RunFrame executes the frame requests collected so far, then the frame hook
// Requests made during the frame are deferred to the next one
func (l *Loop) RunFrame(now time.Time) {
	pending := l.frames
	l.frames = nil
	for _, r := range pending {
		if r.cancelled {
			continue
		}
		r.done = true
		r.fn(now)
	}
	if l.onFrame != nil {
		l.onFrame(now)
	}
}

// Drain runs every queued task without blocking and returns how many ran
// Used by tests and by hosts that drive the loop manually
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run processes tasks and frame ticks until ctx is cancelled or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clock.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		case now := <-ticker.C:
			l.RunFrame(now)
		}
	}
}

// Stop terminates Run and rejects further Posts; idempotent
func (l *Loop) Stop() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Stopped reports whether Stop has been called
func (l *Loop) Stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
