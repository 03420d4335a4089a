// Package logtail reads the tail of popview's log file and decodes its
// zerolog JSON lines for display.
//
// Read keeps a ring buffer of the last N lines, so memory use is bounded by
// N regardless of file size. Parse and Filter turn lines into Entry values;
// Format renders an entry on one line for the `popview logs` command and the
// TUI log view.
//
// A missing log file is not an error. Lines that are not JSON are passed
// through unchanged.
package logtail
