package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/engine/fsm"
	"github.com/lixenwraith/ducky/event"
	"github.com/lixenwraith/ducky/manifest"
	"github.com/lixenwraith/ducky/render"
	"github.com/lixenwraith/ducky/speech"
	"github.com/lixenwraith/ducky/status"
)

// CuePlayer plays a named sound cue, returning false when it was not played
type CuePlayer interface {
	Play(name string) bool
}

// Options configures an Agent
// Manifest and Scheduler are required; everything else may be left zero
type Options struct {
	Manifest  *manifest.Manifest
	Scheduler engine.Scheduler

	Container   core.Rect
	ElementSize core.Size

	Measurer      speech.Measurer
	Cues          CuePlayer
	Handoff       fsm.HandoffFunc
	ReducedMotion bool

	Rand   *rand.Rand
	Logger *slog.Logger
	Status *status.Registry
}

// Snapshot is a read-only view of the agent for hosts and diagnostics
type Snapshot struct {
	ID        string
	State     fsm.State
	Previous  fsm.State
	EnteredAt time.Time
	Asset     string
	Alt       string
	Rect      core.Rect
	Mirrored  bool
	Motion    render.Motion
	Reduced   bool
	Speech    speech.View
	Destroyed bool
}

// Agent is the public facade wiring bus, machine, renderer and speech overlay
// All methods must be called on the loop goroutine
type Agent struct {
	id       string
	element  *Element
	bus      *event.Bus
	machine  *fsm.Machine[*Agent]
	renderer *render.Renderer
	overlay  *speech.Overlay
	cues     CuePlayer
	handoff  fsm.HandoffFunc
	logger   *slog.Logger

	destroyed bool

	statHandoffs status.Counter
}

// New builds and mounts an agent, then emits the initial event
func New(opts Options) (*Agent, error) {
	if opts.Manifest == nil {
		return nil, errors.New("agent: manifest is required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("agent: scheduler is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := opts.Manifest
	id := uuid.NewString()
	logger = logger.With("agent", id)
	a := &Agent{
		id:           id,
		element:      newElement(),
		bus:          event.NewBus(logger, opts.Status),
		cues:         opts.Cues,
		handoff:      opts.Handoff,
		logger:       logger.With("component", "agent"),
		statHandoffs: status.NewCounter(opts.Status, "agent.handoffs"),
	}

	a.renderer = render.NewRenderer(render.Options{
		Surface:       a.element,
		Scheduler:     opts.Scheduler,
		Presentations: m.Presentations(),
		Motion:        m.MotionConfig(),
		Rand:          rng,
		Logger:        logger,
		Status:        opts.Status,
	})

	measurer := opts.Measurer
	if measurer == nil {
		measurer = speech.NewBubble(m.SpeechMaxWidth())
	}
	a.overlay = speech.NewOverlay(speech.Options{
		Anchor:   a.renderer,
		Measurer: measurer,
		Sink:     a.element,
		Gap:      m.SpeechGap(),
		Logger:   logger,
		Status:   opts.Status,
	})

	a.machine = fsm.NewMachine(fsm.Options[*Agent]{
		Context:   a,
		Scheduler: opts.Scheduler,
		Emitter:   a.bus,
		Renderer:  a.renderer,
		Handoff:   a.onHandoff,
		Rand:      rng,
		Logger:    logger,
		Status:    opts.Status,
	})
	registerActions(a.machine)
	if err := a.machine.Load(m.FSMConfig()); err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	a.bus.SetResolver(a.machine)

	a.renderer.SetReducedMotion(opts.ReducedMotion)
	a.element.attach(opts.ElementSize)
	a.renderer.InitializePosition(opts.Container, opts.ElementSize)

	a.logger.Info("agent mounted",
		"states", len(a.machine.States()),
		"container_w", opts.Container.Width,
		"container_h", opts.Container.Height)

	a.bus.Emit(a.machine.InitialEvent(), nil)
	return a, nil
}

func (a *Agent) onHandoff(state fsm.State, params fsm.Params) {
	a.statHandoffs.Inc()
	a.logger.Info("handoff", "state", string(state))
	if a.handoff != nil {
		a.handoff(state, params)
	}
}

// Click reports a user click at container coordinates
func (a *Agent) Click(x, y float64) {
	a.bus.Emit(event.EventDuckyClicked, &event.ClickPayload{X: x, Y: y})
}

// APIStart reports that a remote operation started
func (a *Agent) APIStart(operation string) {
	a.bus.Emit(event.EventAPIStart, &event.APIStartPayload{Operation: operation})
}

// APIEnd reports that a remote operation completed
func (a *Agent) APIEnd(operation string) {
	a.bus.Emit(event.EventAPIEnd, &event.APIEndPayload{Operation: operation})
}

// APIError reports that a remote operation failed
// A non-empty message replaces the speech text of the entered state
func (a *Agent) APIError(operation, message string) {
	a.bus.Emit(event.EventAPIError, &event.APIErrorPayload{Operation: operation, Message: message})
}

// Emit forwards an arbitrary event to the bus
func (a *Agent) Emit(et event.EventType, payload event.Payload) {
	a.bus.Emit(et, payload)
}

// Subscribe registers a listener for events the state machine does not consume
func (a *Agent) Subscribe(et event.EventType, fn event.Handler) event.Subscription {
	if a.destroyed {
		return 0
	}
	return a.bus.Subscribe(et, fn)
}

// Unsubscribe removes a listener registered with Subscribe
func (a *Agent) Unsubscribe(et event.EventType, sub event.Subscription) bool {
	return a.bus.Unsubscribe(et, sub)
}

// UpdateState requests a direct transition, subject to the priority rule
// Runs as a bus turn so events emitted on entry are processed after it
func (a *Agent) UpdateState(state fsm.State, params fsm.Params) bool {
	if a.destroyed {
		return false
	}
	var accepted bool
	a.bus.Exclusive(func() {
		accepted = a.machine.TransitionTo(state, params)
	})
	return accepted
}

// Resize updates the container bounds and notifies listeners
func (a *Agent) Resize(container core.Rect) {
	if a.destroyed {
		return
	}
	a.renderer.Resize(container)
	a.bus.Emit(event.EventResize, &event.ResizePayload{Width: container.Width, Height: container.Height})
}

// SetReducedMotion toggles the reduced motion preference
func (a *Agent) SetReducedMotion(reduced bool) {
	if a.destroyed {
		return
	}
	a.renderer.SetReducedMotion(reduced)
}

// HitTest reports whether a container point lies on the agent
func (a *Agent) HitTest(x, y float64) bool {
	if a.destroyed || !a.element.Attached() {
		return false
	}
	return a.renderer.ElementRect().Contains(x, y)
}

// ID returns the instance identifier, unique per mount
func (a *Agent) ID() string { return a.id }

// CurrentState returns the active state
func (a *Agent) CurrentState() fsm.State { return a.machine.CurrentState() }

// PreviousState returns the state active before the last accepted transition
func (a *Agent) PreviousState() fsm.State { return a.machine.PreviousState() }

// Element returns the mounted visual handle
func (a *Agent) Element() *Element { return a.element }

// States returns the configured states ordered by priority
func (a *Agent) States() []fsm.State { return a.machine.States() }

// Priority returns the configured priority of a state
func (a *Agent) Priority(s fsm.State) int { return a.machine.Priority(s) }

// Snapshot captures the current observable state
func (a *Agent) Snapshot() Snapshot {
	asset, alt := a.element.Asset()
	return Snapshot{
		ID:        a.id,
		State:     a.machine.CurrentState(),
		Previous:  a.machine.PreviousState(),
		EnteredAt: a.machine.EnteredAt(),
		Asset:     asset,
		Alt:       alt,
		Rect:      a.element.Rect(),
		Mirrored:  a.element.Mirrored(),
		Motion:    a.renderer.Motion(),
		Reduced:   a.renderer.ReducedMotion(),
		Speech:    a.element.Speech(),
		Destroyed: a.destroyed,
	}
}

// Destroyed reports whether Destroy has been called
func (a *Agent) Destroyed() bool { return a.destroyed }

// Destroy stops timers and motion, hides speech, unmounts the element and closes the bus
// Safe to call more than once, including from inside an action or handoff
func (a *Agent) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true

	a.machine.Stop()
	a.renderer.StopMotion()
	a.overlay.Hide()
	a.element.detach()
	a.bus.Close()

	a.logger.Info("agent destroyed", "state", string(a.machine.CurrentState()))
}
