package event

import (
	"log/slog"

	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/status"
)

// Handler receives events broadcast to a subscribed type
type Handler func(ev Event)

// Subscription identifies a registered handler for Unsubscribe
type Subscription uint64

// Resolver gets first refusal on every event
// Returns true when the event matched a transition and must not be broadcast
type Resolver interface {
	Resolve(ev Event) bool
}

type subscriber struct {
	id      Subscription
	fn      Handler
	removed bool
}

// Bus delivers events in emission order with run-to-completion semantics
//
// Architecture:
//   - Single-threaded: all calls happen on the owning loop goroutine
//   - Resolver (state machine) is offered each event first
//   - Unresolved events are broadcast to subscribers in subscription order
//   - Events emitted while an event is being handled are queued, never nested
type Bus struct {
	resolver Resolver
	handlers map[EventType][]*subscriber
	nextID   Subscription

	pending     []Event
	dispatching bool
	closed      bool
	seq         uint64

	logger *slog.Logger

	statEmitted   status.Counter
	statBroadcast status.Counter
	statDropped   status.Counter
}

// NewBus creates a bus; logger and registry may be nil
func NewBus(logger *slog.Logger, reg *status.Registry) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		handlers:      make(map[EventType][]*subscriber),
		pending:       make([]Event, 0, parameter.EventQueueSize),
		logger:        logger,
		statEmitted:   status.NewCounter(reg, "bus.emitted"),
		statBroadcast: status.NewCounter(reg, "bus.broadcast"),
		statDropped:   status.NewCounter(reg, "bus.dropped"),
	}
}

// SetResolver installs the first-refusal consumer, must be called before the first Emit
func (b *Bus) SetResolver(r Resolver) {
	b.resolver = r
}

// Subscribe registers a handler for events of type et not resolved by the state machine
func (b *Bus) Subscribe(et EventType, fn Handler) Subscription {
	b.nextID++
	b.handlers[et] = append(b.handlers[et], &subscriber{id: b.nextID, fn: fn})
	return b.nextID
}

// Unsubscribe removes a handler; returns false if it was not registered for et
func (b *Bus) Unsubscribe(et EventType, sub Subscription) bool {
	list := b.handlers[et]
	for i, s := range list {
		if s.id != sub {
			continue
		}
		s.removed = true
		b.handlers[et] = append(list[:i:i], list[i+1:]...)
		if len(b.handlers[et]) == 0 {
			delete(b.handlers, et)
		}
		return true
	}
	return false
}

// HandlerCount returns the number of handlers registered for the given type
func (b *Bus) HandlerCount(et EventType) int {
	return len(b.handlers[et])
}

// Emit queues an event and, unless already inside a dispatch turn, processes the queue
// A nil payload is replaced by the zero payload of et; a payload of another kind is dropped
func (b *Bus) Emit(et EventType, payload Payload) {
	if b.closed {
		return
	}
	if payload == nil {
		payload = NewPayload(et)
	}
	if payload.EventType() != et {
		b.logger.Warn("payload kind mismatch, event dropped",
			"event", et.String(), "payload_event", payload.EventType().String())
		b.statDropped.Inc()
		return
	}

	b.seq++
	b.pending = append(b.pending, Event{Type: et, Payload: payload, Seq: b.seq})
	b.statEmitted.Inc()

	b.Exclusive(nil)
}

// Exclusive runs fn as a dispatch turn and then drains queued events
// Events emitted by fn are processed only after fn returns
// When called from inside a dispatch turn fn runs inline and draining is left to the outer turn
func (b *Bus) Exclusive(fn func()) {
	if b.dispatching {
		if fn != nil {
			fn()
		}
		return
	}

	b.dispatching = true
	defer func() { b.dispatching = false }()

	if fn != nil {
		fn()
	}
	for len(b.pending) > 0 && !b.closed {
		ev := b.pending[0]
		b.pending[0] = Event{}
		b.pending = b.pending[1:]
		b.dispatch(ev)
	}
}

// dispatch offers the event to the resolver, then falls back to listeners
func (b *Bus) dispatch(ev Event) {
	if b.resolver != nil && b.resolver.Resolve(ev) {
		return
	}

	list := b.handlers[ev.Type]
	if len(list) == 0 {
		b.logger.Debug("unhandled event dropped", "event", ev.Type.String(), "seq", ev.Seq)
		b.statDropped.Inc()
		return
	}

	b.statBroadcast.Inc()
	snapshot := append([]*subscriber(nil), list...)
	for _, s := range snapshot {
		if s.removed || b.closed {
			continue
		}
		s.fn(ev)
	}
}

// Pending returns the number of queued, not yet dispatched events
func (b *Bus) Pending() int {
	return len(b.pending)
}

// RemoveAll clears every subscription and the pending queue
func (b *Bus) RemoveAll() {
	for _, list := range b.handlers {
		for _, s := range list {
			s.removed = true
		}
	}
	b.handlers = make(map[EventType][]*subscriber)
	b.pending = b.pending[:0]
}

// Close removes all subscriptions and turns every later Emit into a no-op
func (b *Bus) Close() {
	b.RemoveAll()
	b.closed = true
}

// Closed reports whether Close has been called
func (b *Bus) Closed() bool {
	return b.closed
}
