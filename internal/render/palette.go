package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/runlog/internal/logparse"
)

// Palette maps the named log colors onto terminal colors. Index with
// logparse.NamedColor; Gray sits after the eight ANSI classes.
type Palette struct {
	Normal [9]lipgloss.TerminalColor
	Bright [9]lipgloss.TerminalColor
}

// ANSIPalette defers to the terminal's own 16-color table.
func ANSIPalette() Palette {
	var p Palette
	for i := 0; i < 8; i++ {
		p.Normal[i] = lipgloss.ANSIColor(uint(i))
		p.Bright[i] = lipgloss.ANSIColor(uint(i + 8))
	}
	p.Normal[logparse.Gray] = lipgloss.ANSIColor(8)
	p.Bright[logparse.Gray] = lipgloss.ANSIColor(7)
	return p
}

// HexPalette builds a palette from sixteen #rrggbb values in ANSI order
// (black..white, then bright black..bright white).
func HexPalette(colors [16]string) Palette {
	var p Palette
	for i := 0; i < 8; i++ {
		p.Normal[i] = lipgloss.Color(colors[i])
		p.Bright[i] = lipgloss.Color(colors[i+8])
	}
	p.Normal[logparse.Gray] = lipgloss.Color(colors[8])
	p.Bright[logparse.Gray] = lipgloss.Color(colors[7])
	return p
}

// Color resolves a log color reference.
func (p Palette) Color(c logparse.ColorRef) lipgloss.TerminalColor {
	switch c.Kind {
	case logparse.ColorNamed:
		if int(c.Name) >= len(p.Normal) {
			return lipgloss.NoColor{}
		}
		if c.Bright {
			return p.Bright[c.Name]
		}
		return p.Normal[c.Name]
	case logparse.ColorRGB:
		return lipgloss.Color(c.Hex())
	default:
		return lipgloss.NoColor{}
	}
}
