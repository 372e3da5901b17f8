package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/event"
)

func newTestMachine() *Machine[struct{}] {
	m := NewMachine(Options[struct{}]{Scheduler: engine.NewLoop(engine.NewMockClock(epoch), 0)})
	m.RegisterAction("ShowSpeech", func(struct{}, Entry, any) {})
	return m
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "no states",
			config:  `states: {}`,
			wantErr: "no states",
		},
		{
			name:    "reserved name",
			config:  `states: {ANY: {priority: 1}}`,
			wantErr: "reserved",
		},
		{
			name: "unknown target",
			config: `
states: {IDLE: {priority: 1}}
transitions: {IDLE: {TIMEOUT: WALK}}`,
			wantErr: "unknown target 'WALK'",
		},
		{
			name: "unknown source",
			config: `
states: {IDLE: {priority: 1}}
transitions: {WALK: {TIMEOUT: IDLE}}`,
			wantErr: "unknown source state 'WALK'",
		},
		{
			name: "unknown trigger",
			config: `
states: {IDLE: {priority: 1}}
transitions: {ANY: {POKE: IDLE}}`,
			wantErr: "unknown event type 'POKE'",
		},
		{
			name: "unknown action",
			config: `
states:
  IDLE: {priority: 1, on_enter: [{action: Dance}]}`,
			wantErr: "unknown action function 'Dance'",
		},
		{
			name: "emit without event",
			config: `
states:
  IDLE: {priority: 1, on_enter: [{action: EmitEvent}]}`,
			wantErr: "requires 'event'",
		},
		{
			name: "min exceeds max",
			config: `
states:
  IDLE: {priority: 1, timeout: {min: 5s, max: 2s}}`,
			wantErr: "exceeds max",
		},
		{
			name: "after with range",
			config: `
states:
  IDLE: {priority: 1, timeout: {after: 1s, max: 2s}}`,
			wantErr: "cannot be combined",
		},
		{
			name: "negative after with max",
			config: `
states:
  IDLE: {priority: 1, timeout: {after: -1s, max: 2s}}`,
			wantErr: "negative after",
		},
		{
			name: "empty timeout",
			config: `
states:
  IDLE: {priority: 1, timeout: {}}`,
			wantErr: "positive",
		},
		{
			name: "bad duration",
			config: `
states:
  IDLE: {priority: 1, timeout: {after: soon}}`,
			wantErr: "invalid duration",
		},
		{
			name: "unknown expiry event",
			config: `
states:
  IDLE: {priority: 1, timeout: {after: 1s, event: NOPE}}`,
			wantErr: "unknown event type 'NOPE'",
		},
		{
			name: "redirect with timeout",
			config: `
redirect_state: REDIRECT
states:
  REDIRECT: {priority: 7, timeout: {after: 1s}}`,
			wantErr: "must not declare a timeout",
		},
		{
			name: "unknown redirect",
			config: `
redirect_state: CHAT
states:
  IDLE: {priority: 1}`,
			wantErr: "redirect state 'CHAT' not found",
		},
		{
			name: "unknown initial event",
			config: `
initial_event: WAKE
states:
  IDLE: {priority: 1}`,
			wantErr: "unknown initial event 'WAKE'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestMachine().LoadConfig([]byte(tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigErrorIsDeterministic(t *testing.T) {
	config := []byte(`
states: {IDLE: {priority: 1}}
transitions: {IDLE: {ZZZ: IDLE, YYY: IDLE, AAA: IDLE}}`)

	for i := 0; i < 20; i++ {
		err := newTestMachine().LoadConfig(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown event type 'AAA'")
	}
}

func TestLoadConfigCompiles(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.LoadConfig([]byte(`
initial_event: API_START
redirect_state: REDIRECT
states:
  IDLE:
    priority: 1
    timeout: {min: 2000, max: 5000}
  WAITING:
    priority: 6
    timeout: {after: 1.5s, event: REDIRECT_TIMER_EXPIRED}
    on_enter:
      - {action: ShowSpeech, text: "hold on"}
  REDIRECT:
    priority: 7
transitions:
  ANY: {API_START: IDLE}
  WAITING: {REDIRECT_TIMER_EXPIRED: REDIRECT}
`)))

	assert.Equal(t, event.EventAPIStart, m.InitialEvent())
	assert.Equal(t, State("REDIRECT"), m.RedirectState())
	assert.Equal(t, []State{"IDLE", "WAITING", "REDIRECT"}, m.States())

	idle := m.nodes["IDLE"]
	assert.Equal(t, 2*time.Second, idle.Timeout.Min, "integers are milliseconds")
	assert.Equal(t, 5*time.Second, idle.Timeout.Max)
	assert.Equal(t, event.EventTimeout, idle.Timeout.ExpiryEvent())

	waiting := m.nodes["WAITING"]
	assert.Equal(t, 1500*time.Millisecond, waiting.Timeout.Min)
	assert.Equal(t, waiting.Timeout.Min, waiting.Timeout.Max)
	assert.Equal(t, event.EventRedirectTimerExpired, waiting.Timeout.ExpiryEvent())
	require.Len(t, waiting.OnEnter, 1)
	assert.Equal(t, &ActionArgs{Text: "hold on"}, waiting.OnEnter[0].Args)

	target, ok := m.Lookup("WAITING", event.EventAPIStart)
	assert.True(t, ok, "wildcard applies to every state")
	assert.Equal(t, State("IDLE"), target)

	_, ok = m.Lookup("IDLE", event.EventRedirectTimerExpired)
	assert.False(t, ok)
}

func TestLoadDefaultsInitialEvent(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.LoadConfig([]byte(`states: {IDLE: {priority: 1}}`)))
	assert.Equal(t, event.EventInit, m.InitialEvent())
	assert.Equal(t, StateNone, m.RedirectState())
}

func TestLoadRejectsRunningMachine(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.LoadConfig([]byte(`states: {IDLE: {priority: 1}}`)))
	require.True(t, m.TransitionTo("IDLE", nil))

	err := m.LoadConfig([]byte(`states: {WALK: {priority: 1}}`))
	assert.ErrorIs(t, err, ErrMachineRunning)
	assert.Equal(t, State("IDLE"), m.CurrentState())
}

func TestLoadFailureKeepsGraph(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.LoadConfig([]byte(`states: {IDLE: {priority: 3}}`)))
	require.Error(t, m.LoadConfig([]byte(`states: {IDLE: {priority: 1, on_enter: [{action: Dance}]}}`)))
	assert.Equal(t, 3, m.Priority("IDLE"))
}

func TestTableExactBeforeWildcard(t *testing.T) {
	table := NewTable()
	require.True(t, table.Add(StateAny, event.EventTimeout, "IDLE"))
	require.True(t, table.Add("WALK", event.EventTimeout, "WALK"))
	assert.False(t, table.Add("WALK", event.EventTimeout, "IDLE"), "one entry, one target")

	to, ok := table.Lookup("WALK", event.EventTimeout)
	assert.True(t, ok)
	assert.Equal(t, State("WALK"), to)

	to, ok = table.Lookup("THINKING", event.EventTimeout)
	assert.True(t, ok)
	assert.Equal(t, State("IDLE"), to)

	_, ok = table.Lookup("WALK", event.EventAPIEnd)
	assert.False(t, ok)
	assert.Equal(t, 2, table.Len())
}
