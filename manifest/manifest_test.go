package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/engine/fsm"
	"github.com/lixenwraith/ducky/parameter"
)

const minimal = `
states:
  IDLE: {priority: 1, asset: idle}
  WALK: {priority: 1, asset: walk, motion: walk}
transitions:
  ANY: {INIT: WALK}
sprites:
  idle: ['(-)']
  walk: ['(o)', '/ \']
`

func TestEmbeddedManifestLoadsIntoMachine(t *testing.T) {
	m, err := LoadEmbedded()
	require.NoError(t, err)

	machine := fsm.NewMachine(fsm.Options[struct{}]{
		Scheduler: engine.NewLoop(engine.NewMockClock(time.Unix(0, 0)), 0),
	})
	for _, name := range []string{"ShowSpeech", "UpdateSpeech", "HideSpeech", "PlayCue"} {
		machine.RegisterAction(name, func(struct{}, fsm.Entry, any) {})
	}
	require.NoError(t, machine.Load(m.FSMConfig()))

	assert.Equal(t, fsm.State("REDIRECT"), machine.RedirectState())
	assert.Equal(t, 1, machine.Priority("IDLE"))
	assert.Equal(t, 1, machine.Priority("WALK"))
	assert.Equal(t, 5, machine.Priority("INTERACTED"))
	assert.Equal(t, 6, machine.Priority("WAITING_TO_REDIRECT"))

	target, ok := machine.Lookup(fsm.StateNone, machine.InitialEvent())
	require.True(t, ok)
	assert.Equal(t, fsm.State("WALK"), target)
}

func TestEmbeddedPresentation(t *testing.T) {
	m, err := LoadEmbedded()
	require.NoError(t, err)

	table := m.Presentations()
	assert.True(t, table["WALK"].Walk)
	assert.False(t, table["IDLE"].Walk)
	assert.Equal(t, "interacted", table["WAITING_TO_REDIRECT"].Asset)

	for state, p := range table {
		_, ok := m.Sprite(p.Asset)
		assert.True(t, ok, "state %s asset %q has a sprite", state, p.Asset)
	}

	w, h := m.SpriteSize()
	assert.Equal(t, 9, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, parameter.MotionPauseChance, m.MotionConfig().PauseChance)
	assert.Equal(t, 36, m.SpeechMaxWidth())
}

func TestMotionOverrides(t *testing.T) {
	m, err := Parse([]byte(minimal + `
motion:
  speed_max: 2
  pause_chance: 0
  pause_max: 3s
`))
	require.NoError(t, err)

	cfg := m.MotionConfig()
	assert.Equal(t, parameter.MotionSpeedMin, cfg.SpeedMin)
	assert.Equal(t, 2.0, cfg.SpeedMax)
	assert.Zero(t, cfg.PauseChance, "explicit zero disables pauses")
	assert.Equal(t, parameter.MotionPauseMin, cfg.PauseMin)
	assert.Equal(t, 3*time.Second, cfg.PauseMax)
}

func TestAudioOverrides(t *testing.T) {
	m, err := Parse([]byte(minimal + `
audio: {enabled: false, volume: 0.1}
`))
	require.NoError(t, err)
	cfg := m.AudioConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0.1, cfg.Volume)

	m, err = Parse([]byte(minimal))
	require.NoError(t, err)
	assert.True(t, m.AudioConfig().Enabled)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", ``, "empty"},
		{"no states", `transitions: {}`, "no states"},
		{"unknown key", minimal + "colour: yellow\n", "colour"},
		{"unknown state key", `states: {IDLE: {priority: 1, speed: 3}}`, "speed"},
		{"bad motion", `states: {IDLE: {priority: 1, motion: fly}}`, "unknown motion 'fly'"},
		{"missing sprite", `
states: {IDLE: {priority: 1, asset: sleeping}}
sprites: {idle: ['(-)']}`, "asset 'sleeping' has no sprite"},
		{"speed range", minimal + "motion: {speed_min: 3, speed_max: 1}\n", "invalid speed range"},
		{"pause chance", minimal + "motion: {pause_chance: 2}\n", "pause_chance"},
		{"pause range", minimal + "motion: {pause_min: 2s, pause_max: 1s}\n", "invalid pause range"},
		{"empty sprite", `
states: {IDLE: {priority: 1}}
sprites: {idle: []}`, "sprite 'idle' is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFSMConfigCarriesMachineFields(t *testing.T) {
	m, err := Parse([]byte(`
initial_event: API_START
redirect_state: DONE
states:
  DONE: {priority: 9, on_enter: [{action: HideSpeech}]}
  IDLE: {priority: 1, timeout: {after: 2s}}
transitions:
  ANY: {API_START: IDLE}
`))
	require.NoError(t, err)

	cfg := m.FSMConfig()
	assert.Equal(t, "API_START", cfg.InitialEvent)
	assert.Equal(t, "DONE", cfg.RedirectState)
	assert.Equal(t, 9, cfg.States["DONE"].Priority)
	assert.Equal(t, "HideSpeech", cfg.States["DONE"].OnEnter[0].Action)
	assert.Equal(t, 2*time.Second, cfg.States["IDLE"].Timeout.After.D())
	assert.Equal(t, "IDLE", cfg.Transitions["ANY"]["API_START"])
}

func TestLoadAuto(t *testing.T) {
	_, _, err := LoadAuto(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))
	m, source, err := LoadAuto(path)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Len(t, m.States, 2)

	// No config/ducky.yaml next to the package tests
	m, source, err = LoadAuto("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, source)
	assert.Contains(t, m.States, "REDIRECT")
}

func TestLoadFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("states: {IDLE: {motion: fly}}"), 0o644))
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ducky.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte(minimal), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(minimal+"\n"), 0o644))

	want, err := filepath.Abs(path)
	require.NoError(t, err)
	select {
	case got := <-w.Events:
		assert.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no watch event for manifest write")
	}
}

func TestWatcherReportsFinishedSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ducky.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	full, err := os.ReadFile(path)
	require.NoError(t, err)
	full = append(full, "# edited\n"...)
	cut := len(full) / 3

	// Truncate and write a partial file, then the rest shortly after
	require.NoError(t, os.WriteFile(path, full[:cut], 0o644))
	time.Sleep(20 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write(full[cut:])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case got := <-w.Events:
		m, err := LoadFile(got)
		require.NoError(t, err, "event must describe the finished file")
		assert.Len(t, m.States, 2)
	case <-time.After(3 * time.Second):
		t.Fatal("no watch event for manifest save")
	}

	select {
	case got := <-w.Events:
		t.Fatalf("unexpected second event for %s", got)
	case <-time.After(5 * parameter.WatchDebounce):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ducky.yaml")
	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Events
	assert.False(t, open)
}

func TestSpriteSizeUsesDisplayWidth(t *testing.T) {
	m := &Manifest{Sprites: map[string][]string{
		"a": {"ab", "鸭鸭  "},
	}}
	w, h := m.SpriteSize()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
}
