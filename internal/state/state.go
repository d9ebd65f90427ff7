package state

import (
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// LoadStatus tracks the list fetch.
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadLoading
	LoadLoaded
	LoadError
)

func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadError:
		return "failed"
	default:
		return "idle"
	}
}

// SaveStatus tracks create, update and delete requests.
type SaveStatus int

const (
	SaveIdle SaveStatus = iota
	SaveSaving
)

// Mode is the single interaction the user is in. The edit form and the
// delete confirmation are mutually exclusive by construction.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeEditing
	ModeConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeConfirmingDelete:
		return "confirming-delete"
	default:
		return "browsing"
	}
}

// NotificationKind distinguishes success toasts from failure toasts.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyFailure
)

func (k NotificationKind) String() string {
	if k == NotifyFailure {
		return "failure"
	}
	return "success"
}

// Notification is a transient message shown after a mutation. Seq
// identifies the notification so an expiry timer only clears the one it
// was armed for.
type Notification struct {
	Message  string
	Kind     NotificationKind
	Seq      uint64
	IssuedAt time.Time
}

// State is an immutable snapshot of the list/edit view. Reduce returns a
// new State; callers never mutate one in place.
type State struct {
	Records    []catalog.Record
	Load       LoadStatus
	Error      string
	LastLoaded time.Time

	Mode        Mode
	Editing     *catalog.Record // nil while editing means create mode
	FormDraft   catalog.Draft
	FieldErrors catalog.FieldErrors

	PendingDelete catalog.ID
	Save          SaveStatus

	Notification *Notification
}

// Loading reports whether a list fetch is in flight.
func (s State) Loading() bool { return s.Load == LoadLoading }

// Saving reports whether a create, update or delete is in flight.
func (s State) Saving() bool { return s.Save == SaveSaving }

// FormOpen reports whether the edit form is shown.
func (s State) FormOpen() bool { return s.Mode == ModeEditing }

// ConfirmOpen reports whether the delete confirmation is shown.
func (s State) ConfirmOpen() bool { return s.Mode == ModeConfirmingDelete }

// CreateMode reports whether the open form creates a new record.
func (s State) CreateMode() bool {
	return s.Mode == ModeEditing && (s.Editing == nil || s.Editing.ID.IsZero())
}

// PendingDeleteID returns the id awaiting confirmation, if any.
func (s State) PendingDeleteID() (catalog.ID, bool) {
	if s.Mode != ModeConfirmingDelete || s.PendingDelete.IsZero() {
		return "", false
	}
	return s.PendingDelete, true
}

// Find returns the record with the given id.
func (s State) Find(id catalog.ID) (catalog.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return catalog.Record{}, false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s State) Clone() State {
	dup := s
	dup.Records = cloneRecords(s.Records)
	if s.Editing != nil {
		rec := *s.Editing
		dup.Editing = &rec
	}
	dup.FieldErrors = s.FieldErrors.Clone()
	if s.Notification != nil {
		n := *s.Notification
		dup.Notification = &n
	}
	return dup
}

func cloneRecords(items []catalog.Record) []catalog.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Record, len(items))
	copy(dup, items)
	return dup
}
