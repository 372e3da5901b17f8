package speech

import (
	"log/slog"
	"strconv"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/status"
)

// Anchor supplies the geometry the bubble is placed against, in container coordinates
type Anchor interface {
	ElementRect() core.Rect
	ContainerRect() core.Rect
}

// Measurer reports the outer size of the bubble for a text
type Measurer interface {
	Measure(text string) core.Size
}

// Sink receives every view change
type Sink interface {
	SetSpeech(v View)
}

// LiveRegion mirrors the assistive-technology attributes of the bubble
type LiveRegion struct {
	Role   string
	Live   string
	Atomic bool
	Hidden bool
}

// Attributes returns the live region as element attributes
func (l LiveRegion) Attributes() map[string]string {
	return map[string]string{
		"role":        l.Role,
		"aria-live":   l.Live,
		"aria-atomic": strconv.FormatBool(l.Atomic),
		"aria-hidden": strconv.FormatBool(l.Hidden),
	}
}

// View is the overlay-owned speech content
type View struct {
	Text       string
	Visible    bool
	Rect       core.Rect // Bubble bounds in container coordinates
	TailOffset float64   // Shift of the anchor centre from the bubble centre caused by clamping
	Live       LiveRegion
}

// TailX returns the column the tail points at, the element centre at the last reposition
func (v View) TailX() float64 {
	return v.Rect.CenterX() + v.TailOffset
}

// Options configures an Overlay; Measurer, Sink, Logger and Status may be nil
type Options struct {
	Anchor   Anchor
	Measurer Measurer
	Sink     Sink
	Gap      float64
	Logger   *slog.Logger
	Status   *status.Registry
}

// Overlay is a transient text callout anchored above the agent
// Position is computed on Show and UpdateText only and is not tracked while the agent moves
type Overlay struct {
	anchor   Anchor
	measurer Measurer
	sink     Sink
	gap      float64
	logger   *slog.Logger

	view View

	statShown   status.Counter
	statVisible status.Flag
}

// NewOverlay creates a hidden overlay
func NewOverlay(opts Options) *Overlay {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gap := opts.Gap
	if gap <= 0 {
		gap = parameter.SpeechGap
	}
	return &Overlay{
		anchor:   opts.Anchor,
		measurer: opts.Measurer,
		sink:     opts.Sink,
		gap:      gap,
		logger:   logger.With("component", "speech"),
		view: View{Live: LiveRegion{
			Role:   "alert",
			Live:   "polite",
			Atomic: true,
			Hidden: true,
		}},
		statShown:   status.NewCounter(opts.Status, "speech.shown"),
		statVisible: status.NewFlag(opts.Status, "speech.visible"),
	}
}

// Show sets the text, makes the bubble visible and positions it
func (o *Overlay) Show(text string) {
	o.view.Text = text
	o.view.Visible = true
	o.view.Live.Hidden = false
	o.reposition()
	o.statShown.Inc()
	o.statVisible.Store(true)
	o.logger.Debug("speech shown", "text", text)
	o.publish()
}

// Hide makes the bubble invisible; the text is kept
func (o *Overlay) Hide() {
	if !o.view.Visible && o.view.Live.Hidden {
		return
	}
	o.view.Visible = false
	o.view.Live.Hidden = true
	o.statVisible.Store(false)
	o.publish()
}

// UpdateText replaces the text without changing visibility and repositions the bubble
func (o *Overlay) UpdateText(text string) {
	o.view.Text = text
	o.reposition()
	o.logger.Debug("speech updated", "text", text, "visible", o.view.Visible)
	o.publish()
}

// View returns the current speech content
func (o *Overlay) View() View {
	return o.view
}

// reposition places the bubble above the element, centred, clamped to the container width
func (o *Overlay) reposition() {
	size := core.Size{Width: parameter.SpeechDefaultWidth, Height: parameter.SpeechDefaultHeight}
	if o.measurer != nil {
		if s := o.measurer.Measure(o.view.Text); s.Width > 0 && s.Height > 0 {
			size = s
		}
	}
	if o.anchor == nil {
		o.view.Rect = core.Rect{Width: size.Width, Height: size.Height}
		o.view.TailOffset = 0
		return
	}

	el := o.anchor.ElementRect()
	container := o.anchor.ContainerRect()

	top := el.Y - size.Height - o.gap
	left := el.CenterX() - size.Width/2
	bounded := core.Clamp(left, 0, container.Width-size.Width)

	o.view.Rect = core.Rect{X: bounded, Y: top, Width: size.Width, Height: size.Height}
	o.view.TailOffset = left - bounded
}

func (o *Overlay) publish() {
	if o.sink != nil {
		o.sink.SetSpeech(o.view)
	}
}
