// Package ui provides the schoolcal terminal interface built on Bubble Tea.
//
// # Layout
//
//	┌ header: selection, year, grade, phase badge ┐
//	├ command bar: short key hints                ┤
//	│ body: monthly view, list table or log tail  │
//	└ footer: view name, event count, last error  ┘
//
// Until the first selection loads the body shows a spinner, or an error panel
// with a retry hint when initialization failed.
//
// # Data Flow
//
// The model never writes schedules itself. Key presses change the
// searchtype.Selector and dispatch the matching Synchronizer event as a
// tea.Cmd; the synchronizer commits to the state.Store and the model picks
// the result up through snapshotMsg, both after each event and on every
// refresh tick.
//
// # Files
//
//   - app.go: Model, Update/View, synchronizer dispatch and Run
//   - header.go: header, command bar, footer and loading placeholder
//   - schedule.go: monthly grouping and the lipgloss table used by list view and `show`
//   - logs.go: log tail view backed by logtail
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go, bgstyle.go: Dracula and Slate palettes and background-safe rendering
package ui
