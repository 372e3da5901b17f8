package terminal

import "github.com/gdamore/tcell/v2"

// Styles groups the tcell styles used by the host
type Styles struct {
	Sprite  tcell.Style
	Alert   tcell.Style
	Bubble  tcell.Style
	Tail    tcell.Style
	Status  tcell.Style
	Notice  tcell.Style
	Reduced tcell.Style
}

// DefaultStyles returns the built-in palette
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Sprite:  base.Foreground(tcell.ColorYellow),
		Alert:   base.Foreground(tcell.ColorRed),
		Bubble:  base.Foreground(tcell.ColorWhite),
		Tail:    base.Foreground(tcell.ColorWhite),
		Status:  base.Foreground(tcell.ColorGray),
		Notice:  base.Foreground(tcell.ColorGreen),
		Reduced: base.Foreground(tcell.ColorBlue),
	}
}

// spriteStyle picks the sprite color for an asset
func (s Styles) spriteStyle(asset string) tcell.Style {
	if asset == "error" {
		return s.Alert
	}
	return s.Sprite
}
