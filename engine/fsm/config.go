package fsm

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RootConfig represents the top-level machine config structure
type RootConfig struct {
	InitialEvent  string                       `yaml:"initial_event,omitempty"`  // Emitted on agent construction, INIT when empty
	RedirectState string                       `yaml:"redirect_state,omitempty"` // Entering it fires the hand-off
	States        map[string]*StateConfig      `yaml:"states"`
	Transitions   map[string]map[string]string `yaml:"transitions"` // from (state or ANY) -> trigger -> target
}

// StateConfig represents a single state definition
type StateConfig struct {
	Priority int            `yaml:"priority"`
	Timeout  *TimeoutConfig `yaml:"timeout,omitempty"`
	OnEnter  []ActionConfig `yaml:"on_enter,omitempty"`
}

// TimeoutConfig sets either a fixed duration (After) or a random range (Min, Max)
type TimeoutConfig struct {
	After Duration `yaml:"after,omitempty"`
	Min   Duration `yaml:"min,omitempty"`
	Max   Duration `yaml:"max,omitempty"`
	Event string   `yaml:"event,omitempty"` // Expiry event name, TIMEOUT when empty
}

// ActionConfig represents an action definition
type ActionConfig struct {
	Action  string         `yaml:"action"`            // Action function name (e.g. "EmitEvent")
	Event   string         `yaml:"event,omitempty"`   // For EmitEvent: Event Name
	Payload map[string]any `yaml:"payload,omitempty"` // For EmitEvent: custom event data
	Text    string         `yaml:"text,omitempty"`    // For speech actions
	Cue     string         `yaml:"cue,omitempty"`     // For PlayCue
}

// Duration is a time.Duration decoded from a Go duration string ("1.5s") or integer milliseconds
type Duration time.Duration

// D returns the value as time.Duration
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	if value.Tag == "!!int" {
		ms, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// ParseConfig decodes a standalone machine configuration
func ParseConfig(data []byte) (*RootConfig, error) {
	var cfg RootConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	return &cfg, nil
}
