package ui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/runlog/internal/logparse"
	"github.com/five82/runlog/internal/prefs"
	"github.com/five82/runlog/internal/render"
	"github.com/five82/runlog/internal/state"
)

// Options configures the UI.
type Options struct {
	Context        context.Context
	Store          *state.Store
	Prefs          prefs.Prefs
	PrefsPath      string // empty uses default ~/.config/runlog/prefs.toml
	ShowTimestamps bool
	PollTick       time.Duration
	Step           int                   // open this step once its document loads
	Refresh        func(context.Context) // refetch every source; nil disables r
}

type focusPane int

const (
	focusLog focusPane = iota
	focusOutline
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	refresh   func(context.Context)
	keys      keyMap

	// UI state
	theme    Theme
	painter  *render.Painter
	width    int
	height   int
	ready    bool
	focus    focusPane
	showHelp bool

	// Data state
	snapshot   state.Snapshot
	generation uint64
	docIndex   int
	doc        *logparse.Document
	pendStep   int

	log     logState
	outline outlineState
	search  searchState

	// Transient input and feedback
	stepInput string
	message   string
	messageAt time.Time
	now       func() time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "regex"
	ti.CharLimit = 200

	theme := GetTheme(opts.Prefs.Theme)
	return Model{
		ctx:       ctx,
		store:     opts.Store,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		refresh:   opts.Refresh,
		keys:      DefaultKeyMap(),
		theme:     theme,
		painter:   newPainter(theme),
		pendStep:  opts.Step,
		log: logState{
			viewport:       viewport.New(0, 0),
			folded:         make(map[int]bool),
			showTimestamps: opts.ShowTimestamps,
		},
		outline: outlineState{show: opts.Prefs.ShowOutline},
		search:  searchState{input: ti},
		now:     time.Now,
	}
}

func newPainter(t Theme) *render.Painter {
	return render.NewPainter(nil, t.Palette(), t.KindStyles())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshedMsg:
		m.setMessage("Refetched sources")
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.search.active {
		return m.handleSearchInput(msg)
	}

	if r := msg.Runes; msg.Type == tea.KeyRunes && len(r) == 1 && r[0] >= '0' && r[0] <= '9' {
		if len(m.stepInput) < 6 {
			m.stepInput += string(r[0])
		}
		return m, nil
	}
	if m.stepInput != "" {
		switch msg.Type {
		case tea.KeyEnter:
			n, _ := strconv.Atoi(m.stepInput)
			m.openStep(n)
			m.stepInput = ""
			return m, nil
		case tea.KeyBackspace:
			m.stepInput = m.stepInput[:len(m.stepInput)-1]
			return m, nil
		case tea.KeyEsc:
			m.stepInput = ""
			return m, nil
		}
		m.stepInput = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.painter = newPainter(m.theme)
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.invalidate()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.log.showTimestamps = !m.log.showTimestamps
		m.prefs.HideTimestamps = !m.log.showTimestamps
		m.savePrefs()
		m.invalidate()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOutline):
		m.outline.show = !m.outline.show
		if !m.outline.show {
			m.focus = focusLog
		}
		m.prefs.ShowOutline = m.outline.show
		m.savePrefs()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusOutline {
			m.focus = focusLog
			return m, nil
		}
		if !m.outline.show {
			m.outline.show = true
			m.relayout()
		}
		m.focus = focusOutline
		m.outline.cursor = m.currentSection()
		return m, nil

	case key.Matches(msg, m.keys.NextDoc):
		m.switchDocument(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevDoc):
		m.switchDocument(-1)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh == nil {
			m.setMessage("Nothing to refetch")
			return m, nil
		}
		m.setMessage("Refetching...")
		return m, refreshCmd(m.ctx, m.refresh)

	case key.Matches(msg, m.keys.Search):
		m.search.active = true
		m.search.input.SetValue("")
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.search.re != nil {
			m.clearSearch()
			return m, nil
		}
		m.focus = focusLog
		return m, nil
	}

	if m.focus == focusOutline {
		return m.handleOutlineKey(msg)
	}
	return m.handleLogKey(msg)
}

// handleTick polls the store for changes.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil && m.store.Generation() != m.generation {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.message != "" && m.now().Sub(m.messageAt) > messageTTL {
		m.message = ""
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot adopts a new store snapshot and re-renders if the current
// document changed.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.generation = snap.Generation
	if len(snap.Entries) == 0 {
		m.setDocument(nil)
		return
	}
	if m.docIndex >= len(snap.Entries) {
		m.docIndex = len(snap.Entries) - 1
	}
	entry := snap.Entries[m.docIndex]
	if entry.Doc != m.doc {
		m.setDocument(entry.Doc)
	}
}

// switchDocument cycles through loaded documents.
func (m *Model) switchDocument(delta int) {
	n := len(m.snapshot.Entries)
	if n < 2 {
		return
	}
	m.docIndex = ((m.docIndex+delta)%n + n) % n
	m.setDocument(m.snapshot.Entries[m.docIndex].Doc)
}

// currentEntry returns the store entry being viewed.
func (m Model) currentEntry() (state.Entry, bool) {
	if m.docIndex < len(m.snapshot.Entries) {
		return m.snapshot.Entries[m.docIndex], true
	}
	return state.Entry{}, false
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.setMessage("Save prefs: " + err.Error())
	}
}

func (m *Model) setMessage(text string) {
	m.message = text
	m.messageAt = m.now()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, refresh func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		refresh(ctx)
		return refreshedMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
