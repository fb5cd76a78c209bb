package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// outlineState is the section list beside the log.
type outlineState struct {
	show   bool
	cursor int // section index
}

// handleOutlineKey processes keys while the outline has focus.
func (m Model) handleOutlineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.doc == nil {
		return m, nil
	}
	n := len(m.doc.Sections)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.outline.cursor = min(m.outline.cursor+1, n-1)
	case key.Matches(msg, m.keys.Up):
		m.outline.cursor = max(m.outline.cursor-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.outline.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.outline.cursor = n - 1
	case key.Matches(msg, m.keys.ToggleFold):
		m.gotoSection(m.outline.cursor)
		m.toggleFold()
	case key.Matches(msg, m.keys.Confirm):
		m.gotoSection(m.outline.cursor)
		m.focus = focusLog
	}
	return m, nil
}

// gotoSection moves the log cursor to the first line of section si.
func (m *Model) gotoSection(si int) {
	if m.doc == nil || si < 0 || si >= len(m.doc.Sections) {
		return
	}
	sec := m.doc.Sections[si]
	if sec.Empty() {
		return
	}
	m.gotoLine(sec.Start)
}

// renderOutline draws the section list at exactly height rows.
func (m Model) renderOutline(height int) string {
	styles := m.theme.Styles()
	width := OutlineWidth - 2
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border)).Render("│ ")
	cell := lipgloss.NewStyle().Width(width)

	var rows []string
	if m.doc != nil {
		current := m.currentSection()
		for si, sec := range m.doc.Sections {
			span := "empty"
			if !sec.Empty() {
				span = fmt.Sprintf("%d-%d", sec.Start+1, sec.End+1)
			}
			marker := "  "
			if si == current {
				marker = "› "
			}
			if m.log.folded[si] {
				marker = marker[:len(marker)-1] + "▸"
			}
			title := ansi.Truncate(sec.Title(), width-len(span)-4, "…")
			gap := max(width-2-ansi.StringWidth(title)-len(span), 1)
			text := marker + title + strings.Repeat(" ", gap) + span

			style := styles.Text
			switch {
			case si == m.outline.cursor && m.focus == focusOutline:
				style = styles.Selected
			case si == current:
				style = styles.AccentText
			}
			rows = append(rows, style.Render(text))
		}
	}

	// Keep the outline cursor in view.
	start := 0
	if m.outline.cursor >= height {
		start = m.outline.cursor - height + 1
	}
	var b strings.Builder
	for r := 0; r < height; r++ {
		line := ""
		if i := start + r; i < len(rows) {
			line = rows[i]
		}
		b.WriteString(cell.Render(line))
		b.WriteString(sep)
		if r < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
