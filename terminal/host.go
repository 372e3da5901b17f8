package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ducky/agent"
	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/engine/fsm"
	"github.com/lixenwraith/ducky/manifest"
	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/speech"
	"github.com/lixenwraith/ducky/status"
)

// Options configures a Host; Cues, Rand, Logger and Status may be nil
type Options struct {
	Screen        tcell.Screen
	Loop          *engine.Loop
	Manifest      *manifest.Manifest
	Cues          agent.CuePlayer
	ReducedMotion bool
	Debug         bool
	Rand          *rand.Rand
	Logger        *slog.Logger
	Status        *status.Registry
}

// Host owns the screen layout and drives one agent from terminal input
//
// Architecture:
//   - PollEvent runs on its own goroutine and posts every event to the loop
//   - Drawing happens in the loop frame hook after the agent's frame requests
//   - The agent is rebuilt, not patched, when the manifest is reloaded
type Host struct {
	screen tcell.Screen
	loop   *engine.Loop
	cues   agent.CuePlayer
	rng    *rand.Rand
	logger *slog.Logger
	reg    *status.Registry
	styles Styles

	manifest *manifest.Manifest
	agent    *agent.Agent
	bubble   *speech.Bubble

	reduced    bool
	debug      bool
	buttonDown bool
	handedOff  bool
	notice     string
	noticeEnd  time.Time

	statReloads status.Counter
	statClicks  status.Counter
}

// New lays out the screen and mounts the agent
func New(opts Options) (*Host, error) {
	if opts.Screen == nil || opts.Loop == nil || opts.Manifest == nil {
		return nil, errors.New("terminal: screen, loop and manifest are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	h := &Host{
		screen:      opts.Screen,
		loop:        opts.Loop,
		cues:        opts.Cues,
		rng:         rng,
		logger:      logger.With("component", "terminal"),
		reg:         opts.Status,
		styles:      DefaultStyles(),
		reduced:     opts.ReducedMotion,
		debug:       opts.Debug,
		statReloads: status.NewCounter(opts.Status, "host.reloads"),
		statClicks:  status.NewCounter(opts.Status, "host.clicks"),
	}

	a, bubble, err := h.mount(opts.Manifest)
	if err != nil {
		return nil, err
	}
	h.manifest, h.agent, h.bubble = opts.Manifest, a, bubble
	return h, nil
}

// mount builds an agent for the current screen size
func (h *Host) mount(m *manifest.Manifest) (*agent.Agent, *speech.Bubble, error) {
	bubble := speech.NewBubble(m.SpeechMaxWidth())
	w, hgt := m.SpriteSize()
	a, err := agent.New(agent.Options{
		Manifest:      m,
		Scheduler:     h.loop,
		Container:     h.container(),
		ElementSize:   core.Size{Width: float64(w), Height: float64(hgt)},
		Measurer:      bubble,
		Cues:          h.cues,
		Handoff:       h.onHandoff,
		ReducedMotion: h.reduced,
		Rand:          h.rng,
		Logger:        h.logger,
		Status:        h.reg,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("terminal: mount agent: %w", err)
	}
	return a, bubble, nil
}

// container returns the agent's track: the full screen minus the status line
func (h *Host) container() core.Rect {
	w, hgt := h.screen.Size()
	return core.Rect{
		Width:  float64(max(w, parameter.MinContainerWidth)),
		Height: float64(max(hgt-parameter.BottomMargin, parameter.MinContainerHeight)),
	}
}

func (h *Host) onHandoff(state fsm.State, _ fsm.Params) {
	if h.handedOff {
		return
	}
	h.handedOff = true
	h.logger.Info("handing off", "state", string(state))
	h.loop.AfterFunc(parameter.HandoffDelay, h.loop.Stop)
}

// Agent returns the mounted agent
func (h *Host) Agent() *agent.Agent { return h.agent }

// HandedOff reports whether the redirect state was reached
func (h *Host) HandedOff() bool { return h.handedOff }

// Run polls screen events and runs the loop until quit, hand-off or ctx cancellation
func (h *Host) Run(ctx context.Context) error {
	h.loop.SetFrameHook(h.Draw)
	core.Go(h.pollEvents)
	return h.loop.Run(ctx)
}

// pollEvents forwards screen events to the loop until the screen is finalized
func (h *Host) pollEvents() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		posted := h.loop.Post(func() {
			if !h.HandleEvent(ev) {
				h.loop.Stop()
			}
		})
		if !posted {
			return
		}
	}
}

// HandleEvent applies one screen event; returns false when the user asked to quit
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev)

	case *tcell.EventMouse:
		h.handleMouse(ev)

	case *tcell.EventResize:
		h.screen.Sync()
		h.agent.Resize(h.container())
	}
	return true
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		h.clickCenter()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'c', ' ':
		h.clickCenter()
	case 's':
		h.agent.APIStart(parameter.DemoOperation)
	case 'e':
		h.agent.APIEnd(parameter.DemoOperation)
	case 'x':
		h.agent.APIError(parameter.DemoOperation, parameter.DemoErrorMessage)
	case 'r':
		h.reduced = !h.reduced
		h.agent.SetReducedMotion(h.reduced)
	case 'd':
		h.debug = !h.debug
	}
	return true
}

// handleMouse clicks on the press edge of the primary button only
func (h *Host) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if !pressed {
		h.buttonDown = false
		return
	}
	if h.buttonDown {
		return
	}
	h.buttonDown = true

	x, y := ev.Position()
	cx, cy := float64(x)+0.5, float64(y)+0.5
	if h.agent.HitTest(cx, cy) {
		h.statClicks.Inc()
		h.agent.Click(cx, cy)
	}
}

func (h *Host) clickCenter() {
	r := h.agent.Element().Rect()
	h.statClicks.Inc()
	h.agent.Click(r.CenterX(), r.Y+r.Height/2)
}

// Reload swaps in an agent built from m; the old agent keeps running if m cannot be mounted
func (h *Host) Reload(m *manifest.Manifest) error {
	a, bubble, err := h.mount(m)
	if err != nil {
		h.setNotice("reload failed: " + err.Error())
		return err
	}
	h.agent.Destroy()
	h.manifest, h.agent, h.bubble = m, a, bubble
	h.statReloads.Inc()
	h.setNotice("manifest reloaded")
	h.logger.Info("manifest reloaded", "states", len(a.States()))
	return nil
}

// Watch reloads the manifest from every change reported by w
func (h *Host) Watch(w *manifest.Watcher) {
	core.Go(func() {
		for {
			select {
			case path, ok := <-w.Events:
				if !ok {
					return
				}
				m, err := manifest.LoadFile(path)
				if err != nil {
					h.loop.Post(func() {
						h.logger.Warn("manifest reload rejected", "error", err)
						h.setNotice("reload rejected: " + err.Error())
					})
					continue
				}
				h.loop.Post(func() { _ = h.Reload(m) })

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				h.loop.Post(func() { h.logger.Warn("watcher error", "error", err) })
			}
		}
	})
}

func (h *Host) setNotice(msg string) {
	h.notice = msg
	h.noticeEnd = h.loop.Now().Add(parameter.NoticeDuration)
}

// Close destroys the agent; the caller owns the screen
func (h *Host) Close() {
	h.agent.Destroy()
}

// Draw paints the agent, its speech bubble and the status line
func (h *Host) Draw(now time.Time) {
	h.screen.Clear()
	h.drawSprite()
	h.drawSpeech()
	h.drawStatus(now)
	h.screen.Show()
}

func (h *Host) drawSprite() {
	el := h.agent.Element()
	if !el.Attached() {
		return
	}
	asset, _ := el.Asset()
	lines, ok := h.manifest.Sprite(asset)
	if !ok {
		return
	}
	if el.Mirrored() {
		lines = mirrorSprite(lines)
	}

	r := el.Rect()
	x0, y0 := cell(r.X), cell(r.Y)
	style := h.styles.spriteStyle(asset)
	for row, line := range lines {
		h.drawCells(x0, y0+row, line, style, true)
	}
}

func (h *Host) drawSpeech() {
	view := h.agent.Element().Speech()
	if !view.Visible {
		return
	}

	x0, y0 := cell(view.Rect.X), cell(view.Rect.Y)
	for row, line := range h.bubble.Lines(view.Text) {
		h.drawCells(x0, y0+row, line, h.styles.Bubble, false)
	}

	tailY := cell(view.Rect.Bottom())
	if tailY < cell(h.agent.Element().Rect().Y) {
		h.screen.SetContent(int(math.Floor(view.TailX())), tailY, parameter.TailChar, nil, h.styles.Tail)
	}
}

func (h *Host) drawStatus(now time.Time) {
	_, hgt := h.screen.Size()
	y := hgt - 1
	if y < 0 {
		return
	}

	style := h.styles.Status
	var text string
	switch {
	case h.notice != "" && now.Before(h.noticeEnd):
		text, style = " "+h.notice, h.styles.Notice
	case h.debug && h.reg != nil:
		text = " " + h.reg.Line()
	default:
		text = parameter.HintText
	}
	if h.reduced {
		h.drawText(0, y, parameter.StatusPrefixReduced, h.styles.Reduced)
		h.drawText(len(parameter.StatusPrefixReduced), y, text, style)
		return
	}
	h.drawText(0, y, text, style)
}

func (h *Host) drawText(x, y int, text string, style tcell.Style) {
	w, _ := h.screen.Size()
	for _, ch := range text {
		cw := ansi.StringWidth(string(ch))
		if cw == 0 {
			continue
		}
		if x+cw > w {
			return
		}
		h.screen.SetContent(x, y, ch, nil, style)
		x += cw
	}
}

// drawCells draws a row advancing by display width, matching speech.Bubble measurement
// Spaces are left untouched when transparent is set
func (h *Host) drawCells(x, y int, line string, style tcell.Style, transparent bool) {
	for _, ch := range line {
		cw := ansi.StringWidth(string(ch))
		if cw == 0 {
			continue
		}
		if !transparent || ch != ' ' {
			h.screen.SetContent(x, y, ch, nil, style)
		}
		x += cw
	}
}

// cell converts a host coordinate to a screen cell
func cell(v float64) int {
	return int(math.Round(v))
}
