package audio

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/status"
)

// Cue names usable from the PlayCue state action
const (
	CueQuack = "quack"
	CueChirp = "chirp"
	CueBuzz  = "buzz"
	CuePop   = "pop"
)

// Config holds audio settings
type Config struct {
	Enabled    bool
	SampleRate int
	Volume     float64 // Linear gain, 0 mutes
}

// DefaultConfig returns the compile-time defaults
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		SampleRate: parameter.AudioSampleRate,
		Volume:     parameter.AudioVolume,
	}
}

// cueBuilders maps cue names to their synthesis
var cueBuilders = map[string]func(rate beep.SampleRate) beep.Streamer{
	CueQuack: quack,
	CueChirp: chirp,
	CueBuzz:  buzz,
	CuePop:   pop,
}

// Cues returns the known cue names, sorted
func Cues() []string {
	names := make([]string, 0, len(cueBuilders))
	for name := range cueBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a cue
func Known(name string) bool {
	_, ok := cueBuilders[name]
	return ok
}

// Cue returns a fresh finite streamer for the named cue at the given volume, nil if unknown
func Cue(name string, rate beep.SampleRate, volume float64) beep.Streamer {
	build, ok := cueBuilders[name]
	if !ok {
		return nil
	}
	return newVolume(build(rate), volume)
}

// quack is a falling nasal saw pair
func quack(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		note(620, 480, 70*time.Millisecond, WaveSaw, rate),
		note(520, 360, 110*time.Millisecond, WaveSaw, rate),
	)
}

// chirp is a rising two-tone sine
func chirp(rate beep.SampleRate) beep.Streamer {
	low, err := generators.SineTone(rate, 880)
	if err != nil {
		return note(880, 1320, 100*time.Millisecond, WaveSine, rate)
	}
	d1 := 40 * time.Millisecond
	return beep.Seq(
		NewEnvelope(beep.Take(rate.N(d1), low), d1, 5*time.Millisecond, 15*time.Millisecond, rate),
		note(1320, 1760, 60*time.Millisecond, WaveSine, rate),
	)
}

// buzz is a short low square for errors
func buzz(rate beep.SampleRate) beep.Streamer {
	return note(120, 110, 150*time.Millisecond, WaveSquare, rate)
}

// pop is a noise burst played on hand-off
func pop(rate beep.SampleRate) beep.Streamer {
	return note(0, 0, 60*time.Millisecond, WaveNoise, rate)
}

// CueBank plays short synthesized cues through the speaker
// All operations are safe without Initialize, they simply do nothing
type CueBank struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
	logger      *slog.Logger

	statPlayed status.Counter
}

// NewCueBank creates a cue bank; logger and registry may be nil
func NewCueBank(cfg Config, logger *slog.Logger, reg *status.Registry) *CueBank {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	return &CueBank{
		cfg:        cfg,
		mixer:      &beep.Mixer{},
		logger:     logger.With("component", "audio"),
		statPlayed: status.NewCounter(reg, "audio.played"),
	}
}

// Initialize sets up the speaker; a disabled config is a no-op
func (b *CueBank) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized || !b.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(b.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Initialized reports whether the speaker is running
func (b *CueBank) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Play mixes the named cue in; returns false when not initialized or the cue is unknown
func (b *CueBank) Play(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return false
	}
	s := Cue(name, beep.SampleRate(b.cfg.SampleRate), b.cfg.Volume)
	if s == nil {
		b.logger.Warn("unknown cue", "cue", name)
		return false
	}

	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
	b.statPlayed.Inc()
	return true
}

// Close stops all cues and releases the speaker
func (b *CueBank) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	b.initialized = false
}
