// Package state holds the schedule view state shared between the view
// synchronizer and the UI.
//
// # Overview
//
// Store is the single owner of the view state bag: display mode, the active
// school and region names, the loaded schedules, the code of the loaded
// school or region, and the load phase. The synchronizer writes to it from
// its fetch pipelines; the UI reads Snapshot values and calls the explicit
// setters (SetView, SetSelectedValue, SetSchedules, SetCurrentCode).
//
// # Phases
//
//	Uninitialized ──MarkLoading──> Loading ──MarkReady──> Ready
//	                                  │
//	                                  └──MarkFailed──> Error ──MarkLoading──> Loading
//
// Initialized flips to true on the first MarkReady and never resets; the UI
// shows a loading placeholder until then. Later type changes re-enter Loading
// while the previous schedules stay visible.
//
// # Concurrency Model
//
// All access goes through a sync.RWMutex. Snapshot returns copies of the
// schedule slice and the last error so callers cannot mutate stored state.
package state
