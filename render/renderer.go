package render

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/engine/fsm"
	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/status"
)

// Surface is the visual element the renderer drives
// Positions are container-relative host units
type Surface interface {
	SetAsset(asset, alt string)
	SetPosition(x, y float64)
	SetMirrored(mirrored bool)
}

// Presentation is the per-state lookup entry
type Presentation struct {
	Asset string
	Alt   string
	Walk  bool // Entering the state starts the motion loop
}

// Options configures a Renderer; Logger and Status may be nil
type Options struct {
	Surface       Surface
	Scheduler     engine.Scheduler
	Presentations map[fsm.State]Presentation
	Motion        MotionConfig
	Rand          *rand.Rand
	Logger        *slog.Logger
	Status        *status.Registry
}

// Renderer maps states to assets and runs the 1-D bounce loop
//
// Architecture:
//   - One frame request and one pause timer at most; both are handles cancelled by StopMotion
//   - Position is clamped to [0, track width - element width] on every write
//   - Orientation mirrors while velocity is negative
//   - Runs on the loop goroutine only
type Renderer struct {
	surface Surface
	sched   engine.Scheduler
	table   map[fsm.State]Presentation
	cfg     MotionConfig
	rng     *rand.Rand
	logger  *slog.Logger

	container core.Rect
	element   core.Size

	motion   Motion
	frame    engine.Handle
	pause    engine.Handle
	reduced  bool
	state    fsm.State
	asset    string
	alt      string
	mirrored bool

	statFrames  status.Counter
	statPauses  status.Counter
	statWalking status.Flag
	statReduced status.Flag
}

// NewRenderer creates a renderer; the presentation table is copied
func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	surface := opts.Surface
	if surface == nil {
		surface = nopSurface{}
	}

	table := make(map[fsm.State]Presentation, len(opts.Presentations))
	for s, p := range opts.Presentations {
		table[s] = p
	}

	return &Renderer{
		surface:     surface,
		sched:       opts.Scheduler,
		table:       table,
		cfg:         opts.Motion,
		rng:         rng,
		logger:      logger.With("component", "render"),
		statFrames:  status.NewCounter(opts.Status, "render.frames"),
		statPauses:  status.NewCounter(opts.Status, "render.pauses"),
		statWalking: status.NewFlag(opts.Status, "render.walking"),
		statReduced: status.NewFlag(opts.Status, "render.reduced"),
	}
}

// InitializePosition centres the element on the track and rests it on the container floor
func (r *Renderer) InitializePosition(container core.Rect, element core.Size) {
	r.container = container
	r.element = element
	r.motion.X = core.Clamp((container.Width-element.Width)/2, 0, r.maxX())
	r.motion.Y = core.Clamp(container.Height-element.Height, 0, container.Height)
	r.surface.SetPosition(r.motion.X, r.motion.Y)
}

// Resize updates the track after a container change and clamps the position into it
func (r *Renderer) Resize(container core.Rect) {
	r.container = container
	r.motion.X = core.Clamp(r.motion.X, 0, r.maxX())
	r.motion.Y = core.Clamp(container.Height-r.element.Height, 0, container.Height)
	r.surface.SetPosition(r.motion.X, r.motion.Y)
}

// UpdateForState implements fsm.StateRenderer
// An unmapped state keeps the current asset; only walk states keep the motion loop running
func (r *Renderer) UpdateForState(state fsm.State) {
	r.state = state
	p, ok := r.table[state]
	if ok && p.Asset != "" {
		alt := p.Alt
		if alt == "" {
			alt = parameter.ElementAlt
		}
		r.asset, r.alt = p.Asset, alt
		r.surface.SetAsset(p.Asset, alt)
	} else if !ok {
		r.logger.Debug("no presentation for state", "state", string(state))
	}

	if ok && p.Walk {
		r.StartMotion()
	} else {
		r.StopMotion()
	}
}

// StartMotion begins walking with a fresh random velocity; no-op while walking or under reduced motion
func (r *Renderer) StartMotion() {
	if r.motion.Walking || r.reduced {
		return
	}
	r.motion.Walking = true
	r.motion.Paused = false
	r.statWalking.Store(true)
	r.motion.Velocity = r.cfg.drawVelocity(r.rng)
	r.syncOrientation()
	r.frame = r.sched.RequestFrame(r.tick)
}

// StopMotion cancels the pending frame and pause timer immediately
func (r *Renderer) StopMotion() {
	if r.frame != nil {
		r.frame.Cancel()
		r.frame = nil
	}
	if r.pause != nil {
		r.pause.Cancel()
		r.pause = nil
	}
	r.motion.Walking = false
	r.motion.Paused = false
	r.statWalking.Store(false)
}

// SetReducedMotion suppresses walking; clearing it resumes walking if the current state walks
func (r *Renderer) SetReducedMotion(reduced bool) {
	if r.reduced == reduced {
		return
	}
	r.reduced = reduced
	r.statReduced.Store(reduced)
	if reduced {
		r.StopMotion()
		return
	}
	if p, ok := r.table[r.state]; ok && p.Walk {
		r.StartMotion()
	}
}

// ReducedMotion reports the preference
func (r *Renderer) ReducedMotion() bool { return r.reduced }

// Motion returns a copy of the kinematic state
func (r *Renderer) Motion() Motion { return r.motion }

// Asset returns the asset and alt text currently shown
func (r *Renderer) Asset() (asset, alt string) { return r.asset, r.alt }

// Mirrored reports the current orientation
func (r *Renderer) Mirrored() bool { return r.mirrored }

// ContainerRect returns the container bounds
func (r *Renderer) ContainerRect() core.Rect { return r.container }

// ElementRect returns the element bounds in container coordinates
func (r *Renderer) ElementRect() core.Rect {
	return core.Rect{X: r.motion.X, Y: r.motion.Y, Width: r.element.Width, Height: r.element.Height}
}

func (r *Renderer) maxX() float64 {
	return r.container.Width - r.element.Width
}

func (r *Renderer) tick(_ time.Time) {
	r.frame = nil
	if !r.motion.Walking || r.motion.Paused {
		return
	}
	r.statFrames.Inc()

	if r.cfg.PauseChance > 0 && r.rng.Float64() < r.cfg.PauseChance {
		r.pauseWalk()
		return
	}

	var flipped bool
	r.motion.X, r.motion.Velocity, flipped = step(r.motion.X, r.motion.Velocity, r.maxX())
	if flipped {
		r.syncOrientation()
	}
	r.surface.SetPosition(r.motion.X, r.motion.Y)
	r.frame = r.sched.RequestFrame(r.tick)
}

// pauseWalk holds position for a random interval, then re-randomizes and resumes
func (r *Renderer) pauseWalk() {
	r.motion.Paused = true
	r.statPauses.Inc()
	d := r.cfg.drawPause(r.rng)
	r.pause = r.sched.AfterFunc(d, func() {
		r.pause = nil
		if !r.motion.Walking {
			return
		}
		r.motion.Paused = false
		r.motion.Velocity = r.cfg.drawVelocity(r.rng)
		r.syncOrientation()
		r.frame = r.sched.RequestFrame(r.tick)
	})
}

func (r *Renderer) syncOrientation() {
	m := r.motion.Mirrored()
	if m == r.mirrored {
		return
	}
	r.mirrored = m
	r.surface.SetMirrored(m)
}

type nopSurface struct{}

func (nopSurface) SetAsset(string, string)      {}
func (nopSurface) SetPosition(float64, float64) {}
func (nopSurface) SetMirrored(bool)             {}
