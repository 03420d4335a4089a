// Package kv provides the on-device key-value stores popview persists its
// selection and favorites into.
//
// Three backends implement Store:
//
//   - FileStore: one TOML document under ~/.local/state/popview. Default.
//   - BadgerStore: an embedded badger database, for storage = "badger".
//   - MemoryStore: a map, for tests and --ephemeral runs.
//
// Every failure is returned as a *StorageError (errors.Is(err, ErrStorage)).
// The store never hides a failure; deciding to log and carry on is the
// caller's job.
//
// Watch tails a FileStore's file with fsnotify so a running TUI notices when
// another popview process rewrites it. Badger takes an exclusive lock on its
// directory, so it has no equivalent.
package kv
