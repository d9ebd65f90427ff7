// Package controller runs the catalog list/edit workflow.
//
// A Controller owns a state.Store and an api.RecordStore. Each operation
// dispatches a transition, performs at most one network call outside any
// lock, then dispatches the outcome. Successful mutations are followed by
// exactly one reload before the success notification is shown.
//
// Loads carry a generation number. A response whose generation is no
// longer current, or that arrives after Close, is dropped.
//
// Notifications expire through a Scheduler. Each one has a sequence
// number, and the expiry callback only clears the notification it was
// armed for.
package controller
