package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160

	// DialogMaxWidth caps the width of the mix editor dialog.
	DialogMaxWidth = 72
)

// Log display limits.
const (
	// LogTailLines is the number of log lines read for the log view.
	LogTailLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// RequestTimeout bounds a single editor action started from the UI.
	RequestTimeout = 30 * time.Second

	// NoticeDuration is how long a status notice stays visible.
	NoticeDuration = 6 * time.Second
)
