package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Chrome rows: header, command bar and toast line.
const chromeRows = 3

// Modal widths.
const (
	formModalWidth    = 64
	confirmModalWidth = 48
	helpModalWidth    = 44
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads controller state.
	DefaultUIInterval = time.Second

	// OperationTimeout bounds a single load, save or delete issued from the UI.
	OperationTimeout = 30 * time.Second
)
