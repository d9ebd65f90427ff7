package state

import (
	"errors"
	"strings"
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// Transition errors. Reduce returns the input state unchanged with one of
// these when an action does not apply.
var (
	ErrBusy          = errors.New("another save is in progress")
	ErrNoForm        = errors.New("edit form is not open")
	ErrModalOpen     = errors.New("another dialog is open")
	ErrNoPendingItem = errors.New("no record is awaiting delete confirmation")
	ErrMissingID     = errors.New("record id required")
)

// DefaultLoadError is shown when a failed load carries no message.
const DefaultLoadError = "Could not load the catalog. Try again later."

// Action is a discrete state transition.
type Action interface {
	isAction()
}

type (
	// LoadStarted begins a list fetch and clears any previous error.
	LoadStarted struct{}
	// LoadSucceeded replaces the record list.
	LoadSucceeded struct {
		Records []catalog.Record
		At      time.Time
	}
	// LoadFailed records the error and keeps the previous list.
	LoadFailed struct{ Message string }

	// CreateStarted opens an empty form.
	CreateStarted struct{ Draft catalog.Draft }
	// EditStarted opens the form pre-filled with a record.
	EditStarted struct{ Record catalog.Record }
	// FormCancelled closes the form without saving.
	FormCancelled struct{}
	// ValidationFailed keeps the form open with per-field errors.
	ValidationFailed struct {
		Draft  catalog.Draft
		Errors catalog.FieldErrors
	}
	// SaveStarted marks a create or update request in flight.
	SaveStarted struct{ Draft catalog.Draft }
	// SaveSucceeded closes the form. The save stays in flight until
	// SaveFinished so the follow-up load happens behind the guard.
	SaveSucceeded struct{}
	// SaveFailed ends the request and leaves the form and its values open.
	SaveFailed struct{}
	// SaveFinished ends the in-flight guard.
	SaveFinished struct{}

	// DeleteRequested opens the confirmation for a record.
	DeleteRequested struct{ ID catalog.ID }
	// DeleteCancelled closes the confirmation.
	DeleteCancelled struct{}
	// DeleteStarted marks the delete request in flight.
	DeleteStarted struct{}
	// DeleteFinished closes the confirmation whatever the outcome.
	DeleteFinished struct{}

	// Notified shows a notification, replacing any current one.
	Notified struct{ Notification Notification }
	// NotificationCleared hides the notification with Seq, or any
	// notification when Seq is zero.
	NotificationCleared struct{ Seq uint64 }
)

func (LoadStarted) isAction()         {}
func (LoadSucceeded) isAction()       {}
func (LoadFailed) isAction()          {}
func (CreateStarted) isAction()       {}
func (EditStarted) isAction()         {}
func (FormCancelled) isAction()       {}
func (ValidationFailed) isAction()    {}
func (SaveStarted) isAction()         {}
func (SaveSucceeded) isAction()       {}
func (SaveFailed) isAction()          {}
func (SaveFinished) isAction()        {}
func (DeleteRequested) isAction()     {}
func (DeleteCancelled) isAction()     {}
func (DeleteStarted) isAction()       {}
func (DeleteFinished) isAction()      {}
func (Notified) isAction()            {}
func (NotificationCleared) isAction() {}

// Reduce applies an action to a state and returns the next state. The
// input is never modified.
func Reduce(s State, a Action) (State, error) {
	next := s.Clone()

	switch a := a.(type) {
	case LoadStarted:
		next.Load = LoadLoading
		next.Error = ""

	case LoadSucceeded:
		next.Records = cloneRecords(a.Records)
		next.Load = LoadLoaded
		next.Error = ""
		next.LastLoaded = a.At

	case LoadFailed:
		next.Load = LoadError
		next.Error = strings.TrimSpace(a.Message)
		if next.Error == "" {
			next.Error = DefaultLoadError
		}

	case CreateStarted:
		if err := canOpenForm(s); err != nil {
			return s, err
		}
		next.Mode = ModeEditing
		next.Editing = nil
		next.FormDraft = a.Draft
		next.FieldErrors = nil

	case EditStarted:
		if err := canOpenForm(s); err != nil {
			return s, err
		}
		rec := a.Record
		next.Mode = ModeEditing
		next.Editing = &rec
		next.FormDraft = rec.AsDraft()
		next.FieldErrors = nil

	case FormCancelled:
		if s.Mode != ModeEditing {
			return s, ErrNoForm
		}
		if s.Saving() {
			return s, ErrBusy
		}
		closeForm(&next)

	case ValidationFailed:
		if s.Mode != ModeEditing {
			return s, ErrNoForm
		}
		next.FormDraft = a.Draft
		next.FieldErrors = a.Errors.Clone()

	case SaveStarted:
		if s.Mode != ModeEditing {
			return s, ErrNoForm
		}
		if s.Saving() {
			return s, ErrBusy
		}
		next.Save = SaveSaving
		next.FormDraft = a.Draft
		next.FieldErrors = nil

	case SaveSucceeded:
		closeForm(&next)

	case SaveFailed:
		next.Save = SaveIdle

	case SaveFinished:
		next.Save = SaveIdle

	case DeleteRequested:
		if a.ID.IsZero() {
			return s, ErrMissingID
		}
		if s.Mode == ModeEditing {
			return s, ErrModalOpen
		}
		if s.Saving() {
			return s, ErrBusy
		}
		next.Mode = ModeConfirmingDelete
		next.PendingDelete = a.ID

	case DeleteCancelled:
		if s.Mode != ModeConfirmingDelete {
			return s, ErrNoPendingItem
		}
		if s.Saving() {
			return s, ErrBusy
		}
		next.Mode = ModeBrowsing
		next.PendingDelete = ""

	case DeleteStarted:
		if _, ok := s.PendingDeleteID(); !ok {
			return s, ErrNoPendingItem
		}
		if s.Saving() {
			return s, ErrBusy
		}
		next.Save = SaveSaving

	case DeleteFinished:
		if next.Mode == ModeConfirmingDelete {
			next.Mode = ModeBrowsing
		}
		next.PendingDelete = ""

	case Notified:
		n := a.Notification
		next.Notification = &n

	case NotificationCleared:
		if s.Notification == nil {
			return next, nil
		}
		if a.Seq != 0 && s.Notification.Seq != a.Seq {
			return next, nil
		}
		next.Notification = nil
	}

	return next, nil
}

func canOpenForm(s State) error {
	if s.Mode == ModeConfirmingDelete {
		return ErrModalOpen
	}
	if s.Saving() {
		return ErrBusy
	}
	return nil
}

func closeForm(s *State) {
	s.Mode = ModeBrowsing
	s.Editing = nil
	s.FormDraft = catalog.Draft{}
	s.FieldErrors = nil
}
