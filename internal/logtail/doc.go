// Package logtail reads and parses the tail of the schoolcal log file.
//
// # Overview
//
// The in-app log view shows the most recent lines of the client's own log.
// Read returns the last N lines of a file in one sequential pass using
// O(N) memory; a missing file is treated as empty.
//
// # Parsing
//
// Parse understands both zap encodings schoolcal can write:
//
//   - console: tab separated time, level, optional caller, message, fields
//   - json: an object with ts, level, caller and msg keys (read with gjson)
//
// Anything else is kept as a plain message with an unknown level, so
// stray output such as panics still shows up in the view. The UI colors
// entries by Level.
package logtail
