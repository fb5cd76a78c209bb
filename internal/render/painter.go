package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/runlog/internal/logparse"
)

// KindStyles are the decorations for command lines.
type KindStyles struct {
	Timestamp lipgloss.Style
	LineNo    lipgloss.Style
	Command   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Notice    lipgloss.Style
	Debug     lipgloss.Style
	Group     lipgloss.Style
	Section   lipgloss.Style
	Icon      lipgloss.Style
}

// DefaultKindStyles uses ANSI colors so output follows the terminal theme.
func DefaultKindStyles(r *lipgloss.Renderer) KindStyles {
	return KindStyles{
		Timestamp: r.NewStyle().Faint(true),
		LineNo:    r.NewStyle().Faint(true),
		Command:   r.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		Error:     r.NewStyle().Foreground(lipgloss.ANSIColor(1)).Bold(true),
		Warning:   r.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true),
		Notice:    r.NewStyle().Foreground(lipgloss.ANSIColor(6)).Bold(true),
		Debug:     r.NewStyle().Foreground(lipgloss.ANSIColor(5)),
		Group:     r.NewStyle().Bold(true),
		Section:   r.NewStyle().Bold(true),
		Icon:      r.NewStyle().Foreground(lipgloss.ANSIColor(2)),
	}
}

// LineOptions tune a single rendered line.
type LineOptions struct {
	Timestamps bool
	LineNumber int // 1-based; zero hides the gutter
	Gutter     int // gutter width
	Folded     bool
}

// Painter turns LineViews into styled strings.
type Painter struct {
	r       *lipgloss.Renderer
	palette Palette
	kinds   KindStyles
}

// NewPainter creates a painter. A nil renderer uses lipgloss's default.
func NewPainter(r *lipgloss.Renderer, palette Palette, kinds KindStyles) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{r: r, palette: palette, kinds: kinds}
}

// Style converts a log style into a lipgloss style.
func (p *Painter) Style(s logparse.Style) lipgloss.Style {
	st := p.r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if s.Foreground.IsSet() {
		st = st.Foreground(p.palette.Color(s.Foreground))
	}
	if s.Background.IsSet() {
		st = st.Background(p.palette.Color(s.Background))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	return st
}

// Runs renders styled runs. Escape sequences the parser did not interpret
// are stripped so they cannot reach the terminal.
func (p *Painter) Runs(runs []logparse.StyledRun) string {
	var b strings.Builder
	for _, r := range runs {
		text := ansi.Strip(r.Text)
		if text == "" {
			continue
		}
		if r.Style.IsZero() {
			b.WriteString(text)
			continue
		}
		b.WriteString(p.Style(r.Style).Render(text))
	}
	return b.String()
}

// Line renders v with its decorations.
func (p *Painter) Line(v LineView, o LineOptions) string {
	var b strings.Builder
	if o.LineNumber > 0 {
		b.WriteString(p.kinds.LineNo.Render(padLeft(o.LineNumber, o.Gutter)))
		b.WriteString(" ")
	}
	if o.Timestamps && v.Timestamp != "" {
		b.WriteString(p.kinds.Timestamp.Render(v.Timestamp))
		b.WriteString(" ")
	}
	if v.Icon != "" {
		b.WriteString(p.kinds.Icon.Render(IconGlyph(v.Icon)))
		b.WriteString(" ")
	}

	content := p.Runs(v.Runs)
	switch v.Kind {
	case logparse.NodeGroup:
		marker := "▾"
		if o.Folded {
			marker = "▸"
		}
		b.WriteString(p.kinds.Group.Render(marker + " " + v.Text()))
		return b.String()
	case logparse.NodeError:
		b.WriteString(p.kinds.Error.Render("Error:"))
		b.WriteString(" ")
	case logparse.NodeWarning:
		b.WriteString(p.kinds.Warning.Render("Warning:"))
		b.WriteString(" ")
	case logparse.NodeNotice:
		b.WriteString(p.kinds.Notice.Render("Notice:"))
		b.WriteString(" ")
	case logparse.NodeCommand:
		content = p.kinds.Command.Render(v.Text())
	case logparse.NodeDebug, logparse.NodeVerbose:
		content = p.kinds.Debug.Render(v.Text())
	case logparse.NodeSection, logparse.NodeInfo:
		content = p.kinds.Section.Render(v.Text())
	}
	b.WriteString(content)
	return b.String()
}

func padLeft(n, width int) string {
	s := itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
