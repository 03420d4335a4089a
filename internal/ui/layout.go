package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the favorites pane
	// is stacked under the chart instead of beside the state list.
	LayoutCompactWidth = 100

	// StateListWidth is the inner width of the state list pane.
	StateListWidth = 24

	// FavoritesWidth is the inner width of the favorites pane.
	FavoritesWidth = 24
)

// Log view limits.
const (
	// LogTailLines is the number of log lines loaded into the log view.
	LogTailLines = 500
)
