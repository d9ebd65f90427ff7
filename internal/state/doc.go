// Package state holds the list/edit view state for Marquee.
//
// # Overview
//
// State is a plain value describing everything the screen shows: the
// record list and its load status, the open form or delete confirmation,
// the save guard, and the current notification. It is changed only by
// Reduce, which takes a State and an Action and returns the next State.
//
//	Controller                      UI
//	┌──────────────────┐           ┌──────────────────┐
//	│ store.Dispatch() │           │                  │
//	│   Reduce(s, a)   │──────────→│ store.Snapshot() │
//	│ network call     │  (mutex)  │   render View    │
//	│ store.Dispatch() │           │                  │
//	└──────────────────┘           └──────────────────┘
//
// # Transitions
//
// Reduce rejects actions that do not apply to the current state and
// returns the input unchanged alongside a sentinel error:
//
//   - ErrBusy: a create, update or delete is already in flight
//   - ErrNoForm: a form action arrived while the form is closed
//   - ErrModalOpen: the form and the delete confirmation never overlap
//   - ErrNoPendingItem: a delete action arrived with nothing to confirm
//
// Load actions are always accepted. A newer load supersedes an older one;
// discarding the older response is the controller's job.
//
// # Mode
//
// Mode is a single enum rather than independent booleans, so "form open"
// and "confirmation open" cannot both be true. Editing is nil while the
// form creates a new record.
//
// # Notifications
//
// Every notification carries a sequence number. NotificationCleared with a
// sequence number only removes that exact notification, so an expiry
// timer armed for an earlier toast cannot hide a newer one. A zero
// sequence clears whatever is shown.
//
// # Concurrency
//
// Store is safe to use from its zero value. Dispatch holds the write lock
// only for the duration of Reduce; network I/O never happens under it.
// Snapshot returns a deep copy, so callers may keep or modify it freely.
package state
