package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/five82/runlog/internal/logparse"
)

// ColorMode selects whether printed output carries escape sequences.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// NewRenderer returns a lipgloss renderer for w honoring mode.
func NewRenderer(w io.Writer, mode ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.TrueColor)
		}
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// PrintOptions control Print.
type PrintOptions struct {
	Timestamps  bool
	LineNumbers bool
	Step        int // 1-based step to print; zero prints everything
	Tail        int // print only the last N selected lines
}

// Print writes doc to w one line per log line. Group terminators are
// skipped.
func Print(w io.Writer, p *Painter, doc *logparse.Document, o PrintOptions) error {
	start, end := 0, doc.LineCount()-1
	if o.Step > 0 {
		var ok bool
		if start, end, ok = StepRange(doc, o.Step); !ok {
			return fmt.Errorf("step %d out of range (document has %d steps)", o.Step, len(doc.Structure.Groups()))
		}
	}

	var lines []int
	for i := start; i <= end; i++ {
		if View(doc, i).Hidden() {
			continue
		}
		lines = append(lines, i)
	}
	if o.Tail > 0 && len(lines) > o.Tail {
		lines = lines[len(lines)-o.Tail:]
	}

	gutter := len(itoa(doc.LineCount()))
	for _, i := range lines {
		opts := LineOptions{Timestamps: o.Timestamps}
		if o.LineNumbers {
			opts.LineNumber = i + 1
			opts.Gutter = gutter
		}
		if _, err := io.WriteString(w, p.Line(View(doc, i), opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// StepRange returns the inclusive line range of step n (1-based): from the
// line of the nth Group node up to the line before the next step or section
// boundary, whichever comes first.
func StepRange(doc *logparse.Document, n int) (start, end int, ok bool) {
	start, ok = doc.Structure.StepLine(n)
	if !ok {
		return 0, 0, false
	}
	end = doc.LineCount() - 1
	for _, s := range doc.Sections {
		if s.Start > start {
			end = s.Start - 1
			break
		}
	}
	if next, ok := doc.Structure.StepLine(n + 1); ok && next-1 < end {
		end = next - 1
	}
	return start, end, true
}
