package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the viewer.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// Documents
	NextDoc key.Binding
	PrevDoc key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	NextStep     key.Binding
	PrevStep     key.Binding

	// Log display
	ToggleFold       key.Binding
	ToggleAllFolds   key.Binding
	ToggleTimestamps key.Binding
	ToggleOutline    key.Binding
	ToggleFollow     key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Focus outline/log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refetch sources"),
		),

		NextDoc: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Next document"),
		),
		PrevDoc: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Previous document"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		NextStep: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next step"),
		),
		PrevStep: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous step"),
		),

		ToggleFold: key.NewBinding(
			key.WithKeys(" ", "z"),
			key.WithHelp("space/z", "Fold step"),
		),
		ToggleAllFolds: key.NewBinding(
			key.WithKeys("Z"),
			key.WithHelp("Z", "Fold/unfold all steps"),
		),
		ToggleTimestamps: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle timestamps"),
		),
		ToggleOutline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle outline"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow mode"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.NextStep, k.PrevStep, k.ToggleFold, k.ToggleAllFolds},
		{k.Search, k.NextMatch, k.PrevMatch},
		{k.Tab, k.ToggleOutline, k.ToggleTimestamps, k.ToggleFollow},
		{k.NextDoc, k.PrevDoc, k.Refresh},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
