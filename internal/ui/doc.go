// Package ui implements the popview terminal interface with Bubble Tea.
//
// # Views
//
//   - Home: header, a filterable list of states, a bar chart of the selected
//     state's population by year, and the favorites pane.
//   - Details: full-width chart plus a year/population table, scrollable.
//   - Logs: the tail of popview's own log file.
//
// A help overlay (h/?) and an error modal sit above the views. The modal
// opens once per failed fetch and offers a retry.
//
// # Data Flow
//
// The model never mutates state itself. Key presses call the Actions
// interface from a tea.Cmd goroutine; Actions dispatch into state.Store, and
// a store subscription wakes the model with storeChangedMsg, after which
// it re-reads a snapshot. The subscription channel holds at most one pending
// signal, so a burst of dispatches produces a single redraw.
//
// # Files
//
//   - app.go: Model, key handling, commands, Run
//   - bridge.go: store subscription to tea.Msg bridge
//   - home.go, header.go, details.go, logs.go: view rendering
//   - chart.go: bar layout and the details table
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//   - keys.go, help.go, modal.go: bindings, help overlay, error modal
package ui
