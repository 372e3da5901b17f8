package agent

import (
	"maps"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/parameter"
	"github.com/lixenwraith/ducky/speech"
)

// Element is the visual handle of the agent, mounted into the host container
// It records what the renderer and overlay asked for; hosts read it when drawing
type Element struct {
	asset    string
	alt      string
	x, y     float64
	size     core.Size
	mirrored bool
	speech   speech.View
	attached bool
	attrs    map[string]string
	version  uint64
}

func newElement() *Element {
	return &Element{
		alt: parameter.ElementAlt,
		attrs: map[string]string{
			"role":       parameter.ElementRole,
			"aria-label": parameter.ElementLabel,
			"title":      parameter.ElementTitle,
			"alt":        parameter.ElementAlt,
		},
	}
}

// SetAsset implements render.Surface
func (e *Element) SetAsset(asset, alt string) {
	e.asset, e.alt = asset, alt
	e.attrs["alt"] = alt
	e.version++
}

// SetPosition implements render.Surface
func (e *Element) SetPosition(x, y float64) {
	e.x, e.y = x, y
	e.version++
}

// SetMirrored implements render.Surface
func (e *Element) SetMirrored(mirrored bool) {
	e.mirrored = mirrored
	e.version++
}

// SetSpeech implements speech.Sink
func (e *Element) SetSpeech(v speech.View) {
	e.speech = v
	e.version++
}

func (e *Element) attach(size core.Size) {
	e.size = size
	e.attached = true
	e.version++
}

func (e *Element) detach() {
	e.attached = false
	e.speech.Visible = false
	e.speech.Live.Hidden = true
	e.version++
}

// Asset returns the current asset name and alt text
func (e *Element) Asset() (asset, alt string) { return e.asset, e.alt }

// Rect returns the element bounds in container coordinates
func (e *Element) Rect() core.Rect {
	return core.Rect{X: e.x, Y: e.y, Width: e.size.Width, Height: e.size.Height}
}

// Mirrored reports whether the asset is drawn flipped horizontally
func (e *Element) Mirrored() bool { return e.mirrored }

// Speech returns the last published speech view
func (e *Element) Speech() speech.View { return e.speech }

// Attached reports whether the element is mounted
func (e *Element) Attached() bool { return e.attached }

// Attributes returns a copy of the accessibility attributes
func (e *Element) Attributes() map[string]string {
	return maps.Clone(e.attrs)
}

// Version increases on every change, letting hosts skip redraws
func (e *Element) Version() uint64 { return e.version }
