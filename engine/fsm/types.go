package fsm

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/ducky/event"
)

// State identifies a node of the machine
// The set of states is configuration; the zero value means no state has been entered yet
type State string

const (
	StateNone State = ""
	StateAny  State = "ANY" // Wildcard source in the transition table
)

// Params carries transition parameters from the triggering event to entry actions
type Params map[string]any

// String returns the string parameter stored under key
func (p Params) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	s, ok := p[key].(string)
	return s, ok && s != ""
}

// Node is a configured state
type Node[T any] struct {
	Name     State
	Priority int
	Timeout  TimeoutPolicy
	OnEnter  []Action[T]
}

// TimeoutPolicy describes the timer armed on every entry into a state
// Min == Max selects a fixed duration; Min < Max draws uniformly from [Min, Max)
type TimeoutPolicy struct {
	Min   time.Duration
	Max   time.Duration
	Event event.EventType // Emitted on expiry, EventTimeout when unset
}

// Enabled reports whether the state arms a timer at all
func (p TimeoutPolicy) Enabled() bool {
	return p.Max > 0
}

// Draw returns the duration for one entry
func (p TimeoutPolicy) Draw(r *rand.Rand) time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(r.Int64N(int64(p.Max-p.Min)))
}

// ExpiryEvent returns the event type emitted when the timer fires
func (p TimeoutPolicy) ExpiryEvent() event.EventType {
	if p.Event == event.EventNone {
		return event.EventTimeout
	}
	return p.Event
}

// Entry describes the transition being applied, passed to every on-enter action
type Entry struct {
	State    State
	Previous State
	Trigger  event.EventType // EventNone for direct TransitionTo calls
	Params   Params
}

// Action represents a side-effect run on state entry
type Action[T any] struct {
	Name string
	Func ActionFunc[T]
	Args any // Pre-compiled from ActionConfig
}

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, entry Entry, args any)

// ActionArgs is the compiled argument set for every action other than EmitEvent
type ActionArgs struct {
	Text string
	Cue  string
}

// EmitEventArgs is the compiled argument set for the EmitEvent action
type EmitEventArgs struct {
	Type event.EventType
	Data map[string]any
}

// StateRenderer receives the visual update for every accepted transition
type StateRenderer interface {
	UpdateForState(state State)
}

// Emitter feeds timer expiries and EmitEvent actions back into the event bus
type Emitter interface {
	Emit(et event.EventType, payload event.Payload)
}

// HandoffFunc is invoked once per entry into the redirect state
type HandoffFunc func(state State, params Params)

type transitionKey struct {
	from  State
	event event.EventType
}

// Table maps (state or ANY, event) to exactly one target state
type Table struct {
	entries map[transitionKey]State
}

// NewTable creates an empty transition table
func NewTable() *Table {
	return &Table{entries: make(map[transitionKey]State)}
}

// Add registers a transition; returns false if the pair is already mapped
func (t *Table) Add(from State, et event.EventType, to State) bool {
	key := transitionKey{from: from, event: et}
	if _, exists := t.entries[key]; exists {
		return false
	}
	t.entries[key] = to
	return true
}

// Lookup checks the state-specific entry before the wildcard entry
func (t *Table) Lookup(from State, et event.EventType) (State, bool) {
	if to, ok := t.entries[transitionKey{from: from, event: et}]; ok {
		return to, true
	}
	to, ok := t.entries[transitionKey{from: StateAny, event: et}]
	return to, ok
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}
