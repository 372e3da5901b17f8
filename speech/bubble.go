package speech

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/parameter"
)

// Bubble renders speech text as a bordered box and measures it
// The same style is used for layout and for drawing so both agree on size
type Bubble struct {
	style    lipgloss.Style
	maxInner int
}

// NewBubble creates the default rounded bubble; maxWidth bounds the outer width in cells
func NewBubble(maxWidth int) *Bubble {
	if maxWidth < parameter.SpeechMinWidth {
		maxWidth = parameter.SpeechMinWidth
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	return &Bubble{
		style:    style,
		maxInner: maxWidth - style.GetHorizontalFrameSize(),
	}
}

// Render returns the styled bubble, one line per row
func (b *Bubble) Render(text string) string {
	return b.style.Render(b.fit(text))
}

// Lines returns the bubble rows with escape sequences removed, for cell-based hosts
func (b *Bubble) Lines(text string) []string {
	return strings.Split(ansi.Strip(b.Render(text)), "\n")
}

// Measure implements Measurer
func (b *Bubble) Measure(text string) core.Size {
	rendered := b.Render(text)
	return core.Size{
		Width:  float64(lipgloss.Width(rendered)),
		Height: float64(lipgloss.Height(rendered)),
	}
}

// fit truncates every line to the inner width
func (b *Bubble) fit(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > b.maxInner {
			lines[i] = ansi.Truncate(line, b.maxInner, "…")
		}
	}
	return strings.Join(lines, "\n")
}
