package ui

import (
	"regexp"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/runlog/internal/render"
)

// searchState holds the regex search over visible log text.
type searchState struct {
	active  bool // input has focus
	input   textinput.Model
	query   string
	re      *regexp.Regexp
	matches []int // document lines, ascending
	idx     int
	matched map[int]bool
}

func (s searchState) isMatch(line int) bool {
	return s.matched[line]
}

// handleSearchInput handles keyboard input while typing a query.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		m.search.active = false
		m.search.input.Blur()
		if query == "" {
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			m.setMessage("Invalid pattern: " + err.Error())
			return m, nil
		}
		m.search.re = re
		m.search.query = query
		m.findMatches()
		if len(m.search.matches) == 0 {
			m.setMessage("Pattern not found: " + query)
			m.invalidate()
			return m, nil
		}
		// Start from the first match at or after the cursor.
		cur := m.cursorLine()
		m.search.idx = sort.SearchInts(m.search.matches, cur) % len(m.search.matches)
		m.gotoLine(m.search.matches[m.search.idx])
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		m.search.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// findMatches scans the plain text of every non-hidden line.
func (m *Model) findMatches() {
	m.search.matches = nil
	m.search.matched = make(map[int]bool)
	if m.search.re == nil || m.doc == nil {
		return
	}
	for i := 0; i < m.doc.LineCount(); i++ {
		v := render.View(m.doc, i)
		if v.Hidden() {
			continue
		}
		if m.search.re.MatchString(v.Text()) {
			m.search.matches = append(m.search.matches, i)
			m.search.matched[i] = true
		}
	}
	if m.search.idx >= len(m.search.matches) {
		m.search.idx = 0
	}
}

// stepMatch moves to the next (dir > 0) or previous match, wrapping.
func (m *Model) stepMatch(dir int) {
	n := len(m.search.matches)
	if n == 0 {
		return
	}
	m.search.idx = ((m.search.idx+dir)%n + n) % n
	m.gotoLine(m.search.matches[m.search.idx])
}

func (m Model) activeMatchLine() int {
	if m.search.idx < len(m.search.matches) {
		return m.search.matches[m.search.idx]
	}
	return -1
}

func (m *Model) clearSearchState() {
	m.search.re = nil
	m.search.query = ""
	m.search.matches = nil
	m.search.matched = nil
	m.search.idx = 0
}

// clearSearch drops the active search and its highlighting.
func (m *Model) clearSearch() {
	m.clearSearchState()
	m.refreshViewport()
}
