package fsm

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/event"
	"github.com/lixenwraith/ducky/status"
)

// ActionEmitEvent is the built-in action that emits a configured event into the bus
const ActionEmitEvent = "EmitEvent"

// Options wires a machine to its collaborators
// Context is handed to every action; Renderer, Handoff, Logger and Status may be nil
type Options[T any] struct {
	Context   T
	Scheduler engine.Scheduler
	Emitter   Emitter
	Renderer  StateRenderer
	Handoff   HandoffFunc
	Rand      *rand.Rand
	Logger    *slog.Logger
	Status    *status.Registry
}

// Machine is the prioritized finite state machine runtime
// T is the context type passed to actions (e.g., *agent.Agent)
//
// Architecture:
//   - A transition is accepted iff priority(target) >= priority(current)
//   - The record (current, previous, entered-at, timeout) changes only on acceptance
//   - At most one timeout is pending; each one is tagged with the generation it was armed in
//   - All methods run on the loop goroutine
type Machine[T any] struct {
	ctx T

	// Graph Data (Immutable after load)
	nodes        map[State]*Node[T]
	table        *Table
	initialEvent event.EventType
	redirect     State

	// Machine record
	current    State
	previous   State
	enteredAt  time.Time
	timeout    engine.Handle
	generation uint64
	stopped    bool

	// Dependency Injection
	sched     engine.Scheduler
	emitter   Emitter
	renderer  StateRenderer
	handoff   HandoffFunc
	rng       *rand.Rand
	logger    *slog.Logger
	actionReg map[string]ActionFunc[T]

	statTransitions status.Counter
	statRejected    status.Counter
	statTimeouts    status.Counter
	statState       status.Label
}

// NewMachine creates a machine with no states; Load must be called before use
func NewMachine[T any](opts Options[T]) *Machine[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := &Machine[T]{
		ctx:             opts.Context,
		nodes:           make(map[State]*Node[T]),
		table:           NewTable(),
		initialEvent:    event.EventInit,
		sched:           opts.Scheduler,
		emitter:         opts.Emitter,
		renderer:        opts.Renderer,
		handoff:         opts.Handoff,
		rng:             rng,
		logger:          logger.With("component", "fsm"),
		actionReg:       make(map[string]ActionFunc[T]),
		statTransitions: status.NewCounter(opts.Status, "fsm.transitions"),
		statRejected:    status.NewCounter(opts.Status, "fsm.rejected"),
		statTimeouts:    status.NewCounter(opts.Status, "fsm.timeouts"),
		statState:       status.NewLabel(opts.Status, "fsm.state"),
	}
	m.RegisterAction(ActionEmitEvent, m.emitEventAction)
	return m
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// SetHandoff replaces the redirect callback
func (m *Machine[T]) SetHandoff(fn HandoffFunc) {
	m.handoff = fn
}

// Priority returns the configured priority, 0 for unknown states
func (m *Machine[T]) Priority(s State) int {
	if n, ok := m.nodes[s]; ok {
		return n.Priority
	}
	return 0
}

// Lookup resolves (state, event) with the wildcard fallback
func (m *Machine[T]) Lookup(s State, et event.EventType) (State, bool) {
	return m.table.Lookup(s, et)
}

// CurrentState returns the active state, StateNone before the first transition
func (m *Machine[T]) CurrentState() State { return m.current }

// PreviousState returns the state active before the last accepted transition
func (m *Machine[T]) PreviousState() State { return m.previous }

// EnteredAt returns the scheduler time of the last accepted transition
func (m *Machine[T]) EnteredAt() time.Time { return m.enteredAt }

// InitialEvent returns the event emitted on agent construction
func (m *Machine[T]) InitialEvent() event.EventType { return m.initialEvent }

// RedirectState returns the hand-off state, StateNone when not configured
func (m *Machine[T]) RedirectState() State { return m.redirect }

// HasPendingTimeout reports whether a state timeout is armed
func (m *Machine[T]) HasPendingTimeout() bool { return m.timeout != nil }

// Stopped reports whether Stop has been called
func (m *Machine[T]) Stopped() bool { return m.stopped }

// TransitionTo applies the priority rule and, on acceptance, runs the entry sequence
func (m *Machine[T]) TransitionTo(target State, params Params) bool {
	return m.transition(target, params, event.EventNone)
}

// Resolve implements event.Resolver
// Returns true when the table maps the event for the current state, whether or not the priority rule then accepts it
func (m *Machine[T]) Resolve(ev event.Event) bool {
	if m.stopped {
		return false
	}
	target, ok := m.table.Lookup(m.current, ev.Type)
	if !ok {
		return false
	}
	m.transition(target, Params(event.ParamsOf(ev.Payload)), ev.Type)
	return true
}

func (m *Machine[T]) transition(target State, params Params, trigger event.EventType) bool {
	if m.stopped {
		return false
	}
	if m.current != StateNone && m.Priority(target) < m.Priority(m.current) {
		m.statRejected.Inc()
		m.logger.Debug("transition rejected",
			"from", string(m.current), "to", string(target),
			"from_priority", m.Priority(m.current), "to_priority", m.Priority(target))
		return false
	}

	m.cancelTimeout()
	gen := m.generation

	m.previous = m.current
	m.current = target
	m.enteredAt = m.sched.Now()
	m.statTransitions.Inc()
	m.statState.Store(string(target))
	m.logger.Debug("transition",
		"from", string(m.previous), "to", string(target), "trigger", trigger.String())

	if m.renderer != nil {
		m.renderer.UpdateForState(target)
	}

	node := m.nodes[target]
	entry := Entry{State: target, Previous: m.previous, Trigger: trigger, Params: params}
	if node != nil {
		for _, action := range node.OnEnter {
			action.Func(m.ctx, entry, action.Args)
			// Actions may stop the machine or re-enter it
			if m.stopped || m.generation != gen {
				return true
			}
		}
	}

	if target == m.redirect && m.redirect != StateNone && m.handoff != nil {
		m.handoff(target, params)
		if m.stopped || m.generation != gen {
			return true
		}
	}

	if node != nil {
		m.scheduleTimeout(node)
	}
	return true
}

func (m *Machine[T]) scheduleTimeout(node *Node[T]) {
	if !node.Timeout.Enabled() {
		return
	}
	d := node.Timeout.Draw(m.rng)
	et := node.Timeout.ExpiryEvent()
	gen := m.generation
	state := node.Name

	m.timeout = m.sched.AfterFunc(d, func() {
		if m.stopped || gen != m.generation {
			return
		}
		m.timeout = nil
		m.statTimeouts.Inc()
		m.logger.Debug("timeout", "state", string(state), "after", d, "event", et.String())
		if m.emitter != nil {
			m.emitter.Emit(et, &event.TimeoutPayload{Type: et, State: string(state), After: d})
		}
	})
}

// cancelTimeout invalidates the pending timeout, if any, and starts a new generation
func (m *Machine[T]) cancelTimeout() {
	m.generation++
	if m.timeout != nil {
		m.timeout.Cancel()
		m.timeout = nil
	}
}

// Stop cancels the pending timeout and rejects every later transition
func (m *Machine[T]) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	m.cancelTimeout()
}

func (m *Machine[T]) emitEventAction(_ T, _ Entry, args any) {
	a, ok := args.(*EmitEventArgs)
	if !ok || m.emitter == nil {
		return
	}
	payload := event.NewPayload(a.Type)
	if custom, ok := payload.(*event.CustomPayload); ok {
		custom.Data = a.Data
	}
	m.emitter.Emit(a.Type, payload)
}
