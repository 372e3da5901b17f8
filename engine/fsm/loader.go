package fsm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/ducky/event"
)

// ErrMachineRunning is returned by Load once a transition has been accepted
var ErrMachineRunning = errors.New("fsm: cannot load a running machine")

// LoadConfig parses a YAML byte slice and populates the Machine
func (m *Machine[T]) LoadConfig(data []byte) error {
	cfg, err := ParseConfig(data)
	if err != nil {
		return err
	}
	return m.Load(cfg)
}

// Load validates all references (states, events, actions) and replaces the graph
// The machine is left untouched when validation fails
func (m *Machine[T]) Load(cfg *RootConfig) error {
	if m.current != StateNone || m.stopped {
		return ErrMachineRunning
	}
	if cfg == nil || len(cfg.States) == 0 {
		return fmt.Errorf("FSM config defines no states")
	}

	// Sort keys for deterministic validation order
	stateNames := make([]string, 0, len(cfg.States))
	for name := range cfg.States {
		stateNames = append(stateNames, name)
	}
	sort.Strings(stateNames)

	nodes := make(map[State]*Node[T], len(stateNames))
	for _, name := range stateNames {
		if name == string(StateAny) || name == string(StateNone) {
			return fmt.Errorf("state name '%s' is reserved", name)
		}
		sc := cfg.States[name]
		if sc == nil {
			sc = &StateConfig{}
		}

		node := &Node[T]{Name: State(name), Priority: sc.Priority}

		timeout, err := compileTimeout(sc.Timeout)
		if err != nil {
			return fmt.Errorf("state '%s' timeout: %w", name, err)
		}
		node.Timeout = timeout

		if node.OnEnter, err = m.compileActions(sc.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		nodes[node.Name] = node
	}

	table, err := compileTransitions(cfg.Transitions, nodes)
	if err != nil {
		return err
	}

	initial := event.EventInit
	if cfg.InitialEvent != "" {
		et, ok := event.GetEventType(cfg.InitialEvent)
		if !ok {
			return fmt.Errorf("unknown initial event '%s'", cfg.InitialEvent)
		}
		initial = et
	}

	redirect := State(cfg.RedirectState)
	if redirect != StateNone {
		node, ok := nodes[redirect]
		if !ok {
			return fmt.Errorf("redirect state '%s' not found", redirect)
		}
		if node.Timeout.Enabled() {
			return fmt.Errorf("redirect state '%s' must not declare a timeout", redirect)
		}
	}

	m.nodes = nodes
	m.table = table
	m.initialEvent = initial
	m.redirect = redirect
	return nil
}

// States returns the configured state names in ascending priority, ties by name
func (m *Machine[T]) States() []State {
	states := make([]State, 0, len(m.nodes))
	for s := range m.nodes {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		pi, pj := m.nodes[states[i]].Priority, m.nodes[states[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return states[i] < states[j]
	})
	return states
}

func compileTimeout(cfg *TimeoutConfig) (TimeoutPolicy, error) {
	if cfg == nil {
		return TimeoutPolicy{}, nil
	}

	var policy TimeoutPolicy
	switch {
	case cfg.After < 0:
		return policy, fmt.Errorf("negative after %v", cfg.After.D())
	case cfg.After > 0:
		if cfg.Min != 0 || cfg.Max != 0 {
			return policy, fmt.Errorf("'after' cannot be combined with 'min'/'max'")
		}
		policy.Min, policy.Max = cfg.After.D(), cfg.After.D()
	case cfg.Max > 0:
		if cfg.Min < 0 {
			return policy, fmt.Errorf("negative min %v", cfg.Min.D())
		}
		if cfg.Min > cfg.Max {
			return policy, fmt.Errorf("min %v exceeds max %v", cfg.Min.D(), cfg.Max.D())
		}
		policy.Min, policy.Max = cfg.Min.D(), cfg.Max.D()
	default:
		return policy, fmt.Errorf("requires a positive 'after' or 'max'")
	}

	if cfg.Event != "" {
		et, ok := event.GetEventType(cfg.Event)
		if !ok {
			return policy, fmt.Errorf("unknown event type '%s'", cfg.Event)
		}
		policy.Event = et
	}
	return policy, nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", cfg.Action)
		}

		var args any
		switch cfg.Action {
		case ActionEmitEvent:
			if cfg.Event == "" {
				return nil, fmt.Errorf("EmitEvent action requires 'event' field")
			}
			et, ok := event.GetEventType(cfg.Event)
			if !ok {
				return nil, fmt.Errorf("unknown event type '%s'", cfg.Event)
			}
			args = &EmitEventArgs{Type: et, Data: cfg.Payload}
		default:
			args = &ActionArgs{Text: cfg.Text, Cue: cfg.Cue}
		}

		actions = append(actions, Action[T]{
			Name: cfg.Action,
			Func: fn,
			Args: args,
		})
	}
	return actions, nil
}

func compileTransitions[T any](configs map[string]map[string]string, nodes map[State]*Node[T]) (*Table, error) {
	table := NewTable()

	sources := make([]string, 0, len(configs))
	for from := range configs {
		sources = append(sources, from)
	}
	sort.Strings(sources)

	for _, from := range sources {
		if State(from) != StateAny {
			if _, ok := nodes[State(from)]; !ok {
				return nil, fmt.Errorf("transitions reference unknown source state '%s'", from)
			}
		}
		triggers := make([]string, 0, len(configs[from]))
		for trigger := range configs[from] {
			triggers = append(triggers, trigger)
		}
		sort.Strings(triggers)

		for _, trigger := range triggers {
			target := configs[from][trigger]
			et, ok := event.GetEventType(trigger)
			if !ok {
				return nil, fmt.Errorf("state '%s': unknown event type '%s'", from, trigger)
			}
			if _, ok := nodes[State(target)]; !ok {
				return nil, fmt.Errorf("state '%s' on %s: unknown target '%s'", from, trigger, target)
			}
			table.Add(State(from), et, State(target))
		}
	}
	return table, nil
}
