package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderMain renders header, body and status bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderHeader shows the app name, document tabs and follow state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("runlog", styles.Title)}
	entry, ok := m.currentEntry()
	if ok {
		name := entry.Name
		if n := len(m.snapshot.Entries); n > 1 {
			name = fmt.Sprintf("%s [%d/%d]", name, m.docIndex+1, n)
		}
		parts = append(parts, bg.Render(name, styles.Text))
		switch {
		case entry.IsOffline():
			parts = append(parts, bg.Render("offline", styles.DangerText))
		case entry.LastError != nil:
			parts = append(parts, bg.Render("fetch failed", styles.WarningText))
		}
	}
	if m.log.follow {
		parts = append(parts, bg.Render("follow", styles.SuccessText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "•", styles.FaintText), m.width)
}

// renderBody draws the outline and log panes, or a placeholder.
func (m Model) renderBody() string {
	height := m.bodyHeight()
	styles := m.theme.Styles()

	var logPane string
	switch entry, ok := m.currentEntry(); {
	case !ok:
		logPane = styles.MutedText.Render("No log sources")
	case !entry.Ready() && entry.LastError != nil:
		logPane = styles.DangerText.Render("Failed to load " + entry.Name + ": " + entry.LastError.Error())
	case !entry.Ready():
		logPane = styles.MutedText.Render("Loading " + entry.Name + "...")
	case len(m.log.rows) == 0:
		logPane = styles.MutedText.Render("Empty log")
	default:
		logPane = m.log.viewport.View()
	}
	logPane = lipgloss.NewStyle().Width(m.logWidth()).Height(height).MaxHeight(height).Render(logPane)

	if !m.outlineVisible() {
		return logPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderOutline(height), logPane)
}

// renderStatus shows input prompts, messages or document statistics.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var left string
	switch {
	case m.search.active:
		left = m.search.input.View()
	case m.stepInput != "":
		left = bg.Render("step "+m.stepInput, styles.AccentText) + bg.Render("  enter to open", styles.FaintText)
	case m.message != "":
		left = bg.Render(m.message, styles.WarningText)
	case m.search.re != nil && len(m.search.matches) > 0:
		left = bg.Render("/"+m.search.query, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", m.search.idx+1, len(m.search.matches)), styles.WarningText) +
			bg.Render(" - n/N to move, esc to clear", styles.FaintText)
	default:
		left = bg.Join(m.statusParts(), "•", styles.FaintText)
	}

	right := bg.Render("? help", styles.FaintText)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return bg.FillLine(bg.Space()+left+bg.Render(strings.Repeat(" ", gap), styles.Text)+right, m.width)
}

func (m Model) statusParts() []string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	if m.doc == nil {
		return nil
	}
	entry, _ := m.currentEntry()

	parts := []string{
		bg.Render(humanize.IBytes(uint64(m.doc.Size)), styles.MutedText),
		bg.Render(humanize.Comma(int64(m.doc.LineCount()))+" lines", styles.MutedText),
		bg.Render(fmt.Sprintf("%d steps", len(m.doc.Steps())), styles.MutedText),
	}
	if line := m.cursorLine(); line >= 0 {
		pos := fmt.Sprintf("line %d", line+1)
		if si := m.currentSection(); si < len(m.doc.Sections) {
			pos += " in " + m.doc.Sections[si].Title()
		}
		parts = append(parts, bg.Render(pos, styles.Text))
	}
	if !entry.FetchedAt.IsZero() {
		parts = append(parts, bg.Render("fetched "+humanize.RelTime(entry.FetchedAt, m.now(), "ago", "from now"), styles.FaintText))
	}
	return parts
}
