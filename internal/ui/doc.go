// Package ui provides the Bubble Tea terminal interface for Marquee.
//
// # Architecture Overview
//
// The Model renders a split layout: a sorted, filterable record list on the
// left and the selected record's details on the right. Compact terminals
// drop the detail pane. The create/edit form and the delete confirmation
// are drawn as modals over the content area; the header, command bar and
// notification line stay visible.
//
// The UI owns no catalog state. Every action goes through a Workflow
// (normally *controller.Controller), and the model re-reads the workflow's
// snapshot after each action, on every state change notification, and on
// a periodic tick. Network calls run inside tea.Cmds so the event loop
// never blocks.
//
// # Package Structure
//
//   - app.go: Model, Workflow, messages, commands, key dispatch and Run
//   - list.go: record list, selection tracking and the titled pane frame
//   - detail.go: selected record fields and score bar
//   - form.go: create/edit form with per-field errors
//   - confirm.go: delete confirmation dialog
//   - header.go: status bar and per-mode command bar
//   - toast.go: notification line
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Key Bindings
//
//   - n: New record
//   - e/Enter: Edit selected record
//   - d/x: Delete selected record (asks first)
//   - r: Reload
//   - f: Cycle kind filter (all, movie, series)
//   - c: Dismiss notification
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Quit (only Ctrl+C while the form is open)
//
// Theme and kind filter are persisted through the prefs package.
package ui
