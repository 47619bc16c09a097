// Package viewsync keeps the schedule view state in step with the search
// type, the signed-in user and the selected school or region.
//
// # Overview
//
// A Synchronizer owns two pipelines:
//
//   - Initialize-or-default: runs once per kind epoch. A signed-in user's
//     saved school or region is loaded first; when there is none, or the
//     lookup fails, the configured default school or region is used.
//   - Refetch: runs when year or grade change after the epoch completed and
//     reloads schedules for the already selected code.
//
// # Events
//
// Callers drive the synchronizer with named events:
//
//	UserResolved   identity known (possibly anonymous); initializes once
//	TypeChanged    school/region switch; resets the epoch and initializes
//	FilterChanged  year or grade switch; refetches when initialized
//	Retry          restarts initialization after a failure
//
// # Generations
//
// Each pipeline run takes a generation number and a child context. Starting
// a run cancels the one before it. Results are committed to the Store only if
// their generation is still current; stale runs return ErrSuperseded and
// leave the state untouched. A pipeline writes all of its results in one
// commit, so a failure part way through never leaves a half-updated view.
//
// # Failure Handling
//
//   - A failed saved-selection lookup is logged at warn level and the
//     defaults are used instead.
//   - Any other initialization failure moves the Store to the error phase
//     and leaves the epoch uninitialized so Retry can run it again.
//   - A failed refetch keeps the previous schedules and records the error.
package viewsync
