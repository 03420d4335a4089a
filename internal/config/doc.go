// Package config loads popview's configuration.
//
// # Configuration Discovery
//
// Values are layered, highest precedence first:
//
//  1. Command-line flags (applied by cmd/popview)
//  2. POPVIEW_* environment variables (ApplyEnv)
//  3. ~/.config/popview/config.toml, or the --config path (Load)
//  4. Built-in defaults (Default)
//
// A missing config file is not an error; defaults are used instead. Empty
// or whitespace-only values never override a lower layer.
//
// # TOML Format
//
//	api_url = "https://datausa.io"
//	request_timeout = "10s"
//	storage = "file"            # file, badger or memory
//	storage_path = "~/.local/state/popview/store.toml"
//	log_file = "~/.local/state/popview/popview.log"
//	log_level = "info"
//	theme = "Kanagawa"
//
// Every field is optional. A leading ~ is expanded in paths. When
// storage_path is unset, StorageLocation picks store.toml or a badger/
// directory under ~/.local/state/popview depending on the backend.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, bad
// durations and unknown storage backends.
package config
