package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/marquee/internal/api"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

// Errors returned by controller operations. Transition errors from the
// state package are returned as-is so callers can match either name.
var (
	ErrBusy            = state.ErrBusy
	ErrNoForm          = state.ErrNoForm
	ErrModalOpen       = state.ErrModalOpen
	ErrNoPendingDelete = state.ErrNoPendingItem
	ErrInvalid         = errors.New("record is invalid")
	ErrOperationFailed = errors.New("operation failed")
	ErrClosed          = errors.New("controller closed")
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 3 * time.Second

// Options configures a Controller. Zero values select defaults.
type Options struct {
	// NotificationTTL is how long a notification stays visible. Negative
	// disables auto-dismiss.
	NotificationTTL time.Duration
	// ReconcileOnDeleteFailure reloads the list after a failed delete.
	ReconcileOnDeleteFailure bool
	Logger                   *slog.Logger
	Now                      func() time.Time
	Scheduler                Scheduler
}

// Controller drives the list/edit workflow against a RecordStore. All
// methods are safe for concurrent use; network calls never run under a
// lock.
type Controller struct {
	records   api.RecordStore
	store     state.Store
	sched     Scheduler
	now       func() time.Time
	logger    *slog.Logger
	ttl       time.Duration
	reconcile bool

	mu        sync.Mutex
	loadGen   uint64
	notifySeq uint64
	timer     Timer
	closed    bool
	onChange  func(state.State)
}

// New returns a Controller backed by records.
func New(records api.RecordStore, opts Options) *Controller {
	c := &Controller{
		records:   records,
		sched:     opts.Scheduler,
		now:       opts.Now,
		logger:    opts.Logger,
		ttl:       opts.NotificationTTL,
		reconcile: opts.ReconcileOnDeleteFailure,
	}
	if c.sched == nil {
		c.sched = RealScheduler{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.ttl == 0 {
		c.ttl = DefaultNotificationTTL
	}
	return c
}

// OnChange registers fn to receive every committed state. fn runs on the
// goroutine that caused the change, outside any controller lock.
func (c *Controller) OnChange(fn func(state.State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() state.State {
	return c.store.Snapshot()
}

// Close stops the notification timer and drops every response that
// arrives afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

// Load fetches the full list. A load started while another is in flight
// supersedes it: only the newest response is applied. Failures are
// recorded in state and also returned.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	if _, err := c.dispatch(state.LoadStarted{}); err != nil {
		return err
	}

	records, err := c.records.List(ctx)

	if !c.currentLoad(gen) {
		c.logger.Debug("discarding superseded load", "generation", gen)
		return nil
	}
	if err != nil {
		c.logger.Error("load catalog failed", "err", err)
		_, _ = c.dispatch(state.LoadFailed{Message: loadErrorMessage(err)})
		return fmt.Errorf("%w: load: %w", ErrOperationFailed, err)
	}
	c.logger.Debug("catalog loaded", "records", len(records))
	_, err = c.dispatch(state.LoadSucceeded{Records: normalizeAll(records), At: c.now()})
	return err
}

// StartCreate opens an empty form with defaults for the current year.
func (c *Controller) StartCreate() error {
	_, err := c.dispatch(state.CreateStarted{Draft: catalog.DefaultDraft(c.now())})
	return err
}

// StartEdit opens the form pre-filled with rec.
func (c *Controller) StartEdit(rec catalog.Record) error {
	rec.Draft = rec.Draft.Normalize()
	_, err := c.dispatch(state.EditStarted{Record: rec})
	return err
}

// CancelEdit closes the form without saving.
func (c *Controller) CancelEdit() error {
	_, err := c.dispatch(state.FormCancelled{})
	return err
}

// Submit validates draft and saves it. Invalid drafts never reach the
// network: the field errors are stored in state, returned, and err wraps
// ErrInvalid. On success the form closes, the list reloads once and a
// success notification is shown. On failure the form stays open with the
// submitted values and a failure notification is shown.
func (c *Controller) Submit(ctx context.Context, draft catalog.Draft) (catalog.FieldErrors, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	draft = draft.Normalize()

	snap := c.store.Snapshot()
	if !snap.FormOpen() {
		return nil, ErrNoForm
	}
	if snap.Saving() {
		return nil, ErrBusy
	}

	if errs := catalog.Validate(draft, c.now()); !errs.Valid() {
		if _, err := c.dispatch(state.ValidationFailed{Draft: draft, Errors: errs}); err != nil {
			return nil, err
		}
		return errs, fmt.Errorf("%w: %s", ErrInvalid, errs.Summary())
	}

	started, err := c.dispatch(state.SaveStarted{Draft: draft})
	if err != nil {
		return nil, err
	}

	var (
		op     = "create"
		id     catalog.ID
		saved  catalog.Record
		reqErr error
	)
	if started.Editing != nil && !started.Editing.ID.IsZero() {
		op = "update"
		id = started.Editing.ID
		saved, reqErr = c.records.Update(ctx, id, draft)
	} else {
		saved, reqErr = c.records.Create(ctx, draft)
	}

	if c.isClosed() {
		return nil, ErrClosed
	}
	if reqErr != nil {
		c.logger.Error("save record failed", "op", op, "id", id.String(), "title", draft.Title, "err", reqErr)
		_, _ = c.dispatch(state.SaveFailed{})
		c.notify(state.NotifyFailure, fmt.Sprintf("Could not %s %q", op, draft.Title))
		return nil, fmt.Errorf("%w: %s: %w", ErrOperationFailed, op, reqErr)
	}
	c.logger.Info("record saved", "op", op, "id", saved.ID.String(), "title", draft.Title)

	_, _ = c.dispatch(state.SaveSucceeded{})
	_ = c.Load(ctx)
	_, _ = c.dispatch(state.SaveFinished{})
	c.notify(state.NotifySuccess, fmt.Sprintf("%q %sd", draft.Title, op))
	return nil, nil
}

// RequestDelete opens the confirmation for id.
func (c *Controller) RequestDelete(id catalog.ID) error {
	_, err := c.dispatch(state.DeleteRequested{ID: id})
	return err
}

// CancelDelete closes the confirmation without deleting.
func (c *Controller) CancelDelete() error {
	_, err := c.dispatch(state.DeleteCancelled{})
	return err
}

// ConfirmDelete deletes the record awaiting confirmation. The
// confirmation closes whatever the outcome. Only a successful delete
// reloads the list unless ReconcileOnDeleteFailure is set.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	started, err := c.dispatch(state.DeleteStarted{})
	if err != nil {
		return err
	}
	id := started.PendingDelete
	title := ""
	if rec, ok := started.Find(id); ok {
		title = rec.Title
	}

	reqErr := c.records.Delete(ctx, id)

	if c.isClosed() {
		return ErrClosed
	}
	_, _ = c.dispatch(state.DeleteFinished{})

	if reqErr != nil {
		c.logger.Error("delete record failed", "id", id.String(), "err", reqErr)
		if c.reconcile {
			_ = c.Load(ctx)
		}
		_, _ = c.dispatch(state.SaveFinished{})
		c.notify(state.NotifyFailure, deleteMessage("Could not delete", title))
		return fmt.Errorf("%w: delete: %w", ErrOperationFailed, reqErr)
	}
	c.logger.Info("record deleted", "id", id.String(), "title", title)

	_ = c.Load(ctx)
	_, _ = c.dispatch(state.SaveFinished{})
	c.notify(state.NotifySuccess, deleteMessage("Deleted", title))
	return nil
}

// DismissNotification hides the current notification and cancels its
// timer. Calling it with nothing shown is a no-op.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
	_, _ = c.dispatch(state.NotificationCleared{})
}

func (c *Controller) notify(kind state.NotificationKind, message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.notifySeq++
	seq := c.notifySeq
	c.stopTimerLocked()
	// Commit before arming so an immediate expiry still finds its toast.
	next, err := c.store.Dispatch(state.Notified{Notification: state.Notification{
		Message:  message,
		Kind:     kind,
		Seq:      seq,
		IssuedAt: c.now(),
	}})
	if c.ttl > 0 {
		c.timer = c.sched.AfterFunc(c.ttl, func() { c.expire(seq) })
	}
	fn := c.onChange
	c.mu.Unlock()

	if err == nil && fn != nil {
		fn(next)
	}
}

func (c *Controller) expire(seq uint64) {
	if c.isClosed() {
		return
	}
	_, _ = c.dispatch(state.NotificationCleared{Seq: seq})
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// dispatch applies a transition and notifies the OnChange listener when it
// commits.
func (c *Controller) dispatch(a state.Action) (state.State, error) {
	next, err := c.store.Dispatch(a)
	if err != nil {
		return next, err
	}
	c.mu.Lock()
	fn := c.onChange
	closed := c.closed
	c.mu.Unlock()
	if fn != nil && !closed {
		fn(next)
	}
	return next, nil
}

func (c *Controller) currentLoad(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && gen == c.loadGen
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func normalizeAll(records []catalog.Record) []catalog.Record {
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		r.Draft = r.Draft.Normalize()
		out = append(out, r)
	}
	return out
}

func loadErrorMessage(err error) string {
	switch {
	case api.IsNetwork(err):
		return "Could not reach the catalog server. Check the API URL and try again."
	case api.StatusCode(err) != 0:
		return fmt.Sprintf("Could not load the catalog (HTTP %d). Try again later.", api.StatusCode(err))
	default:
		return state.DefaultLoadError
	}
}

func deleteMessage(prefix, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return prefix + " record"
	}
	return fmt.Sprintf("%s %q", prefix, title)
}
