// Package app is the composition root of popview and the home of the
// Controller, the only component that performs side effects around state
// changes.
//
// # Components
//
//   - controller.go: Controller wraps state.Store dispatches with DataUSA
//     fetches and preference persistence.
//   - session.go: Open builds the store backend, client, prefs and
//     controller shared by the TUI and the CLI subcommands.
//   - app.go: Run opens the log file, hydrates saved preferences, starts the
//     store watcher and hands control to the ui package.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> logging.OpenFile()  JSON log file
//	       ├─────> Open()              kv store, datausa client, controller
//	       ├─────> Hydrate()           selected_state, favorite_state_list
//	       ├─────> kv.Watch()          file backend only
//	       └─────> ui.Run()            blocks until quit
//
//	UI key press ──> Controller ──> state.Store.Dispatch ──> subscribers
//	                     │
//	                     └──> prefs (kv.Store)  fetch (datausa.Fetcher)
//
// # Error Handling
//
// Fatal errors returned from Run and Open:
//   - invalid log level or unwritable log file
//   - store open failure
//   - client init failure (malformed api_url)
//
// Everything else is recoverable. Fetch failures land in State.Error and
// are logged at warn level. Storage failures are logged with op and key
// fields and otherwise ignored: a selection or favorite change still takes
// effect in memory.
//
// # Overlapping Fetches
//
// Each FetchPopulation call takes the next sequence number. The state
// reducer drops results whose sequence is not the latest started, so a slow
// earlier request can never overwrite a newer one.
package app
