package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/runlog/internal/logparse"
	"github.com/five82/runlog/internal/render"
)

// logState holds the log pane. Rows are the visible document lines after
// folding; cursor is a row index.
type logState struct {
	viewport       viewport.Model
	folded         map[int]bool // section index -> folded
	rows           []int        // document line per row
	rendered       []string     // cached row bodies without the gutter
	cursor         int
	showTimestamps bool
	follow         bool
}

// setDocument switches the pane to doc. Reloads of the same document keep
// folds and the cursor line.
func (m *Model) setDocument(doc *logparse.Document) {
	same := m.doc != nil && doc != nil && m.doc.ID == doc.ID
	line := m.cursorLine()
	m.doc = doc

	if !same {
		m.log.folded = make(map[int]bool)
		m.log.cursor = 0
		m.log.viewport.SetYOffset(0)
		m.outline.cursor = 0
		m.clearSearchState()
	} else if m.search.re != nil {
		m.findMatches()
	}

	m.rebuildRows()
	switch {
	case m.log.follow:
		m.log.cursor = max(len(m.log.rows)-1, 0)
	case same:
		m.log.cursor = m.rowForLine(line)
	}

	if m.pendStep > 0 && doc != nil {
		m.openStep(m.pendStep)
		m.pendStep = 0
	}
	m.refreshViewport()
}

// relayout resizes panes after a window or outline change.
func (m *Model) relayout() {
	m.log.viewport.Width = m.logWidth()
	m.log.viewport.Height = m.bodyHeight()
	m.invalidate()
}

func (m Model) bodyHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m Model) outlineVisible() bool {
	return m.outline.show && m.width >= LayoutCompactWidth
}

func (m Model) logWidth() int {
	if m.outlineVisible() {
		return max(m.width-OutlineWidth, 1)
	}
	return max(m.width, 1)
}

// invalidate drops cached rows and redraws.
func (m *Model) invalidate() {
	m.log.rendered = nil
	m.refreshViewport()
}

// rebuildRows recomputes the visible rows from the fold state.
func (m *Model) rebuildRows() {
	m.log.rows = m.log.rows[:0]
	m.log.rendered = nil
	if m.doc == nil {
		return
	}
	for si, sec := range m.doc.Sections {
		if sec.Empty() {
			continue
		}
		if sec.Kind == logparse.SectionStep && m.log.folded[si] {
			m.log.rows = append(m.log.rows, sec.Start)
			continue
		}
		for i := sec.Start; i <= sec.End; i++ {
			if i != sec.Start && render.View(m.doc, i).Hidden() {
				continue
			}
			m.log.rows = append(m.log.rows, i)
		}
	}
	if m.log.cursor >= len(m.log.rows) {
		m.log.cursor = max(len(m.log.rows)-1, 0)
	}
}

// cursorLine is the document line under the cursor, or -1.
func (m Model) cursorLine() int {
	if m.log.cursor < len(m.log.rows) {
		return m.log.rows[m.log.cursor]
	}
	return -1
}

// rowForLine returns the row showing line, or the nearest row before it.
func (m Model) rowForLine(line int) int {
	best := 0
	for r, l := range m.log.rows {
		if l > line {
			break
		}
		best = r
	}
	return best
}

// currentSection is the index of the section holding the cursor.
func (m Model) currentSection() int {
	if m.doc == nil {
		return 0
	}
	return max(logparse.SectionAt(m.doc.Sections, m.cursorLine()), 0)
}

// refreshViewport composes rows with their gutter into the viewport.
func (m *Model) refreshViewport() {
	vp := &m.log.viewport
	if m.doc == nil || len(m.log.rows) == 0 {
		vp.SetContent("")
		return
	}

	if m.log.rendered == nil {
		m.log.rendered = make([]string, len(m.log.rows))
		width := vp.Width - m.gutterWidth()
		for r, line := range m.log.rows {
			m.log.rendered[r] = m.renderRow(line, width)
		}
	}

	styles := m.theme.Styles()
	digits := len(fmt.Sprint(m.doc.LineCount()))
	active := m.activeMatchLine()
	var b strings.Builder
	for r, line := range m.log.rows {
		gutter := fmt.Sprintf("%*d │ ", digits, line+1)
		switch {
		case r == m.log.cursor:
			gutter = styles.Selected.Render(gutter)
		case line == active:
			gutter = styles.WarningText.Render(gutter)
		case m.search.isMatch(line):
			gutter = styles.AccentText.Render(gutter)
		default:
			gutter = styles.FaintText.Render(gutter)
		}
		b.WriteString(gutter)
		b.WriteString(m.log.rendered[r])
		if r < len(m.log.rows)-1 {
			b.WriteString("\n")
		}
	}
	vp.SetContent(b.String())
	m.ensureCursorVisible()
}

func (m Model) gutterWidth() int {
	if m.doc == nil {
		return 0
	}
	return len(fmt.Sprint(m.doc.LineCount())) + 3
}

// renderRow draws a single document line clipped to width.
func (m Model) renderRow(line, width int) string {
	folded := false
	if si := logparse.SectionAt(m.doc.Sections, line); si >= 0 {
		folded = m.log.folded[si] && m.doc.Sections[si].Start == line
	}
	text := m.painter.Line(render.View(m.doc, line), render.LineOptions{
		Timestamps: m.log.showTimestamps,
		Folded:     folded,
	})
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "…")
}

// ensureCursorVisible scrolls just enough to keep the cursor on screen.
func (m *Model) ensureCursorVisible() {
	vp := &m.log.viewport
	if vp.Height <= 0 {
		return
	}
	switch {
	case m.log.cursor < vp.YOffset:
		vp.SetYOffset(m.log.cursor)
	case m.log.cursor >= vp.YOffset+vp.Height:
		vp.SetYOffset(m.log.cursor - vp.Height + 1)
	}
}

// moveCursor moves by delta rows and stops following.
func (m *Model) moveCursor(delta int) {
	if len(m.log.rows) == 0 {
		return
	}
	m.log.cursor = min(max(m.log.cursor+delta, 0), len(m.log.rows)-1)
	m.log.follow = m.log.cursor == len(m.log.rows)-1 && m.log.follow
	m.refreshViewport()
}

// gotoLine puts the cursor on line, unfolding its section when needed, and
// centers it.
func (m *Model) gotoLine(line int) {
	if m.doc == nil {
		return
	}
	if si := logparse.SectionAt(m.doc.Sections, line); si >= 0 && m.log.folded[si] && m.doc.Sections[si].Start != line {
		delete(m.log.folded, si)
		m.rebuildRows()
	}
	m.log.cursor = m.rowForLine(line)
	m.log.follow = false
	m.refreshViewport()
	m.log.viewport.SetYOffset(max(m.log.cursor-m.log.viewport.Height/2, 0))
}

// toggleFold folds or unfolds the step under the cursor.
func (m *Model) toggleFold() {
	if m.doc == nil {
		return
	}
	si := logparse.SectionAt(m.doc.Sections, m.cursorLine())
	if si < 0 || m.doc.Sections[si].Kind != logparse.SectionStep {
		return
	}
	m.log.folded[si] = !m.log.folded[si]
	if !m.log.folded[si] {
		delete(m.log.folded, si)
	}
	start := m.doc.Sections[si].Start
	m.rebuildRows()
	m.log.cursor = m.rowForLine(start)
	m.refreshViewport()
}

// toggleAllFolds folds every step, or unfolds all when all are folded.
func (m *Model) toggleAllFolds() {
	if m.doc == nil {
		return
	}
	line := m.cursorLine()
	allFolded := true
	for si, sec := range m.doc.Sections {
		if sec.Kind == logparse.SectionStep && !m.log.folded[si] {
			allFolded = false
			break
		}
	}
	m.log.folded = make(map[int]bool)
	if !allFolded {
		for si, sec := range m.doc.Sections {
			if sec.Kind == logparse.SectionStep {
				m.log.folded[si] = true
			}
		}
		if si := logparse.SectionAt(m.doc.Sections, line); si >= 0 {
			line = m.doc.Sections[si].Start
		}
	}
	m.rebuildRows()
	m.log.cursor = m.rowForLine(line)
	m.refreshViewport()
}

// jumpStep moves to the next (dir > 0) or previous step header.
func (m *Model) jumpStep(dir int) {
	if m.doc == nil {
		return
	}
	line := m.cursorLine()
	steps := m.doc.Steps()
	if dir > 0 {
		for _, s := range steps {
			if s.Start > line {
				m.gotoLine(s.Start)
				return
			}
		}
		return
	}
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Start < line {
			m.gotoLine(steps[i].Start)
			return
		}
	}
}

// openStep moves to the header of the nth step (1-based).
func (m *Model) openStep(n int) {
	if m.doc == nil {
		return
	}
	line, ok := m.doc.Structure.StepLine(n)
	if !ok {
		m.setMessage(fmt.Sprintf("No step %d (%d steps)", n, len(m.doc.Structure.Groups())))
		return
	}
	m.gotoLine(line)
}

// handleLogKey processes keys for the focused log pane.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := max(m.log.viewport.Height/2, 1)
	page := max(m.log.viewport.Height, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveCursor(half)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveCursor(-half)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keys.Top):
		m.log.follow = false
		m.moveCursor(-len(m.log.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.log.rows))
	case key.Matches(msg, m.keys.NextStep):
		m.jumpStep(1)
	case key.Matches(msg, m.keys.PrevStep):
		m.jumpStep(-1)
	case key.Matches(msg, m.keys.ToggleFold):
		m.toggleFold()
	case key.Matches(msg, m.keys.ToggleAllFolds):
		m.toggleAllFolds()
	case key.Matches(msg, m.keys.ToggleFollow):
		m.log.follow = !m.log.follow
		if m.log.follow {
			m.moveCursor(len(m.log.rows))
			m.log.follow = true
		}
	case key.Matches(msg, m.keys.NextMatch):
		m.stepMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.stepMatch(-1)
	}
	return m, nil
}
