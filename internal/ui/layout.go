package ui

import "time"

// Layout sizes.
const (
	// OutlineWidth is the width of the outline pane including its separator.
	OutlineWidth = 34

	// LayoutCompactWidth is the threshold below which the outline is hidden
	// even when enabled.
	LayoutCompactWidth = 80

	// chromeHeight is the header plus status bar.
	chromeHeight = 2
)

// Timing constants.
const (
	// DefaultUIInterval is how often the viewer checks the store for changes.
	DefaultUIInterval = time.Second

	// messageTTL is how long transient status messages stay visible.
	messageTTL = 4 * time.Second
)
