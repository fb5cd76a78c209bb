// Package ui implements the interactive log viewer on Bubble Tea.
//
// # Overview
//
// The viewer shows one parsed document at a time from a state.Store. A
// tick checks the store's generation counter and pulls a fresh snapshot
// only when something changed, so the poller in package app can refetch
// sources in the background without the UI blocking on the network.
//
// # Layout
//
//	┌──────────────────────────────────────────────┐
//	│ runlog • build.log [1/3] • follow            │ header
//	├────────────────┬─────────────────────────────┤
//	│ Setup     1-3  │  1 │ Current runner version │
//	│›Run tests 4-90 │  4 │ ▾ Run tests            │ outline + log
//	├────────────────┴─────────────────────────────┤
//	│ 12 KiB • 90 lines • 2 steps • line 4 ...     │ status bar
//	└──────────────────────────────────────────────┘
//
// The outline is optional (o, or tab to focus it) and hidden on narrow
// terminals.
//
// # Log pane
//
// Lines are drawn by render.Painter using the theme's 16-color table for
// named log colors; explicit RGB colors pass through. Steps fold to their
// header line. Rows are rendered once per document, fold or theme change
// and cached; cursor movement only restyles the gutter.
//
// # Keys
//
// See keys.go for the full map. Digits followed by enter open the nth
// step, matching how CI links address a step.
package ui
