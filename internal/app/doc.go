// Package app is the composition root of schoolcal.
//
// # Overview
//
// Run and Show wire configuration, logging, the access token, preferences and
// the schedule client into a view synchronizer, then hand it to the TUI (Run)
// or print a single table (Show).
//
// # Startup
//
//	┌──────────────┐
//	│ newSession() │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read config.toml
//	       ├─────> logging.New()        zap logger writing to the log file
//	       ├─────> auth.Load()          User id from SCHOOLCAL_TOKEN or token file
//	       ├─────> schoolapi.NewClient() HTTP client with bearer token
//	       ├─────> prefs.Load()         Saved type, year, grade, view, theme
//	       ├─────> searchtype.New()     Selector with flag overrides applied
//	       ├─────> state.NewStore()     Shared view state
//	       └─────> viewsync.New()       Synchronizer over client and store
//
// # Error Handling
//
// Fatal (returned): unreadable or invalid config, an unusable log file, an
// invalid api_base, an unknown --type or an out-of-range --grade. Show also
// fails when initialization ends in the error phase.
//
// Recoverable (logged): a missing, expired or malformed token drops to
// anonymous browsing; unreadable preferences fall back to defaults.
package app
