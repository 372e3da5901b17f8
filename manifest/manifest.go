package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/ducky/audio"
	"github.com/lixenwraith/ducky/engine/fsm"
	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/render"
)

// Motion modes of a state
const (
	MotionStill = "still"
	MotionWalk  = "walk"
)

// Manifest is a complete agent deployment: machine graph, presentation, motion, speech, audio and sprites
type Manifest struct {
	InitialEvent  string                       `yaml:"initial_event,omitempty"`
	RedirectState string                       `yaml:"redirect_state,omitempty"`
	States        map[string]*StateConfig      `yaml:"states"`
	Transitions   map[string]map[string]string `yaml:"transitions"`
	Motion        MotionConfig                 `yaml:"motion,omitempty"`
	Speech        SpeechConfig                 `yaml:"speech,omitempty"`
	Audio         AudioConfig                  `yaml:"audio,omitempty"`
	Sprites       map[string][]string          `yaml:"sprites,omitempty"`
}

// StateConfig extends the machine state with its presentation
type StateConfig struct {
	fsm.StateConfig `yaml:",inline"`

	Asset  string `yaml:"asset,omitempty"`
	Alt    string `yaml:"alt,omitempty"`
	Motion string `yaml:"motion,omitempty"` // "walk" or "still" (default)
}

// MotionConfig overrides the motion defaults; unset fields keep them
type MotionConfig struct {
	SpeedMin    float64      `yaml:"speed_min,omitempty"`
	SpeedMax    float64      `yaml:"speed_max,omitempty"`
	PauseChance *float64     `yaml:"pause_chance,omitempty"`
	PauseMin    fsm.Duration `yaml:"pause_min,omitempty"`
	PauseMax    fsm.Duration `yaml:"pause_max,omitempty"`
}

// SpeechConfig sets bubble layout
type SpeechConfig struct {
	Gap      float64 `yaml:"gap,omitempty"`
	MaxWidth int     `yaml:"max_width,omitempty"`
}

// AudioConfig toggles and scales the cues
type AudioConfig struct {
	Enabled *bool    `yaml:"enabled,omitempty"`
	Volume  *float64 `yaml:"volume,omitempty"`
}

// Parse decodes and validates a manifest; unknown keys are errors
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the presentation and tuning sections
// Machine references (targets, events, actions) are validated when the machine loads
func (m *Manifest) Validate() error {
	if len(m.States) == 0 {
		return fmt.Errorf("manifest defines no states")
	}

	for _, name := range m.stateNames() {
		sc := m.States[name]
		if sc == nil {
			continue
		}
		switch sc.Motion {
		case "", MotionStill, MotionWalk:
		default:
			return fmt.Errorf("state '%s': unknown motion '%s'", name, sc.Motion)
		}
		if sc.Asset != "" && len(m.Sprites) > 0 {
			if _, ok := m.Sprites[sc.Asset]; !ok {
				return fmt.Errorf("state '%s': asset '%s' has no sprite", name, sc.Asset)
			}
		}
	}

	mc := m.MotionConfig()
	if mc.SpeedMin < 0 || mc.SpeedMax < mc.SpeedMin {
		return fmt.Errorf("motion: invalid speed range [%v, %v)", mc.SpeedMin, mc.SpeedMax)
	}
	if mc.PauseChance < 0 || mc.PauseChance > 1 {
		return fmt.Errorf("motion: pause_chance %v outside [0, 1]", mc.PauseChance)
	}
	if mc.PauseMin < 0 || mc.PauseMax < mc.PauseMin {
		return fmt.Errorf("motion: invalid pause range [%v, %v)", mc.PauseMin, mc.PauseMax)
	}

	if m.Audio.Volume != nil && *m.Audio.Volume < 0 {
		return fmt.Errorf("audio: negative volume")
	}

	for asset, lines := range m.Sprites {
		if len(lines) == 0 {
			return fmt.Errorf("sprite '%s' is empty", asset)
		}
	}
	return nil
}

// FSMConfig returns the machine part of the manifest
func (m *Manifest) FSMConfig() *fsm.RootConfig {
	cfg := &fsm.RootConfig{
		InitialEvent:  m.InitialEvent,
		RedirectState: m.RedirectState,
		States:        make(map[string]*fsm.StateConfig, len(m.States)),
		Transitions:   m.Transitions,
	}
	for name, sc := range m.States {
		if sc == nil {
			cfg.States[name] = nil
			continue
		}
		state := sc.StateConfig
		cfg.States[name] = &state
	}
	return cfg
}

// Presentations returns the state to asset, alt and motion lookup
func (m *Manifest) Presentations() map[fsm.State]render.Presentation {
	table := make(map[fsm.State]render.Presentation, len(m.States))
	for name, sc := range m.States {
		if sc == nil {
			continue
		}
		table[fsm.State(name)] = render.Presentation{
			Asset: sc.Asset,
			Alt:   sc.Alt,
			Walk:  sc.Motion == MotionWalk,
		}
	}
	return table
}

// MotionConfig merges overrides onto the defaults
func (m *Manifest) MotionConfig() render.MotionConfig {
	cfg := render.DefaultMotionConfig()
	if m.Motion.SpeedMin != 0 {
		cfg.SpeedMin = m.Motion.SpeedMin
	}
	if m.Motion.SpeedMax != 0 {
		cfg.SpeedMax = m.Motion.SpeedMax
	}
	if m.Motion.PauseChance != nil {
		cfg.PauseChance = *m.Motion.PauseChance
	}
	if m.Motion.PauseMin != 0 {
		cfg.PauseMin = m.Motion.PauseMin.D()
	}
	if m.Motion.PauseMax != 0 {
		cfg.PauseMax = m.Motion.PauseMax.D()
	}
	return cfg
}

// AudioConfig merges overrides onto the defaults
func (m *Manifest) AudioConfig() audio.Config {
	cfg := audio.DefaultConfig()
	if m.Audio.Enabled != nil {
		cfg.Enabled = *m.Audio.Enabled
	}
	if m.Audio.Volume != nil {
		cfg.Volume = *m.Audio.Volume
	}
	return cfg
}

// SpeechGap returns the bubble gap in host units
func (m *Manifest) SpeechGap() float64 {
	if m.Speech.Gap > 0 {
		return m.Speech.Gap
	}
	return parameter.SpeechGap
}

// SpeechMaxWidth returns the widest bubble in cells
func (m *Manifest) SpeechMaxWidth() int {
	if m.Speech.MaxWidth > 0 {
		return m.Speech.MaxWidth
	}
	return parameter.SpeechMaxWidth
}

// Sprite returns the rows of an asset
func (m *Manifest) Sprite(asset string) ([]string, bool) {
	lines, ok := m.Sprites[asset]
	return lines, ok
}

// SpriteSize returns the bounding box of all sprites, so the element never changes size between states
func (m *Manifest) SpriteSize() (width, height int) {
	for _, lines := range m.Sprites {
		if len(lines) > height {
			height = len(lines)
		}
		for _, l := range lines {
			if w := ansi.StringWidth(strings.TrimRight(l, " ")); w > width {
				width = w
			}
		}
	}
	return width, height
}

func (m *Manifest) stateNames() []string {
	names := make([]string, 0, len(m.States))
	for name := range m.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
