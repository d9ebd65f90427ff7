package controller

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/marquee/internal/api"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	mu      sync.Mutex
	records []catalog.Record
	nextID  int

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	// listGates[n] blocks the n-th List call until a value arrives.
	listGates []chan []catalog.Record
	// createGate, when set, blocks Create until it is closed.
	createGate chan struct{}

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	lastUpdate  catalog.ID
}

func (f *fakeStore) List(ctx context.Context) ([]catalog.Record, error) {
	f.mu.Lock()
	var gate chan []catalog.Record
	if f.listCalls < len(f.listGates) {
		gate = f.listGates[f.listCalls]
	}
	f.listCalls++
	err := f.listErr
	out := append([]catalog.Record(nil), f.records...)
	f.mu.Unlock()

	if gate != nil {
		select {
		case recs := <-gate:
			return recs, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, d catalog.Draft) (catalog.Record, error) {
	if f.createGate != nil {
		select {
		case <-f.createGate:
		case <-ctx.Done():
			return catalog.Record{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return catalog.Record{}, f.createErr
	}
	f.nextID++
	rec := d.WithID(catalog.ID(strconv.Itoa(100 + f.nextID)))
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeStore) Update(_ context.Context, id catalog.ID, d catalog.Draft) (catalog.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastUpdate = id
	if f.updateErr != nil {
		return catalog.Record{}, f.updateErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Draft = d
		}
	}
	return d.WithID(id), nil
}

func (f *fakeStore) Delete(_ context.Context, id catalog.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeStore) counts() (list, create, update, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.updateCalls, f.deleteCalls
}

type manualTimer struct {
	s       *manualScheduler
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
	delays []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// fire runs timer i even if it was stopped, as a real timer whose callback
// already started would.
func (s *manualScheduler) fire(i int) {
	s.mu.Lock()
	t := s.timers[i]
	t.fired = true
	s.mu.Unlock()
	t.f()
}

func (s *manualScheduler) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func seedRecords() []catalog.Record {
	return []catalog.Record{
		{ID: "1", Draft: catalog.Draft{Title: "Alien", Year: 1979, Genre: "Horror", Score: 8.5, Kind: catalog.KindMovie}},
		{ID: "2", Draft: catalog.Draft{Title: "Dark", Year: 2017, Genre: "Thriller", Score: 9, Kind: catalog.KindSeries}},
	}
}

func validDraft() catalog.Draft {
	return catalog.Draft{Title: "Dune", Year: 2021, Genre: "Sci-Fi", Score: 8, Kind: catalog.KindMovie}
}

func newTestController(t *testing.T, f *fakeStore) (*Controller, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	c := New(f, Options{
		Now:       func() time.Time { return fixedNow },
		Scheduler: sched,
	})
	t.Cleanup(c.Close)
	return c, sched
}

func TestLoad_SuccessAndFailure(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, _ := newTestController(t, f)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := c.Snapshot()
	if snap.Load != state.LoadLoaded || len(snap.Records) != 2 || snap.Error != "" {
		t.Fatalf("after Load: %#v", snap)
	}
	if !snap.LastLoaded.Equal(fixedNow) {
		t.Fatalf("LastLoaded = %v, want %v", snap.LastLoaded, fixedNow)
	}

	f.mu.Lock()
	f.listErr = &api.NetworkError{Method: "GET", URL: "http://x", Err: errors.New("refused")}
	f.mu.Unlock()

	err := c.Load(context.Background())
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("Load error = %v, want ErrOperationFailed", err)
	}
	snap = c.Snapshot()
	if snap.Load != state.LoadError || snap.Error == "" {
		t.Fatalf("failed load not recorded: %#v", snap)
	}
	if len(snap.Records) != 2 {
		t.Fatalf("records = %d, want previous list kept", len(snap.Records))
	}
}

func TestLoad_StaleResponseIsDiscarded(t *testing.T) {
	older := make(chan []catalog.Record)
	newer := make(chan []catalog.Record)
	f := &fakeStore{listGates: []chan []catalog.Record{older, newer}}
	c, _ := newTestController(t, f)

	firstDone := make(chan struct{})
	go func() {
		_ = c.Load(context.Background())
		close(firstDone)
	}()
	waitFor(t, func() bool { l, _, _, _ := f.counts(); return l == 1 })

	secondDone := make(chan struct{})
	go func() {
		_ = c.Load(context.Background())
		close(secondDone)
	}()
	waitFor(t, func() bool { l, _, _, _ := f.counts(); return l == 2 })

	// The newer load resolves first; the older response arrives late and
	// must not overwrite it.
	newer <- []catalog.Record{{ID: "new", Draft: catalog.Draft{Title: "Newest"}}}
	<-secondDone
	older <- []catalog.Record{{ID: "old", Draft: catalog.Draft{Title: "Oldest"}}}
	<-firstDone

	snap := c.Snapshot()
	if snap.Load != state.LoadLoaded || len(snap.Records) != 1 || snap.Records[0].ID != "new" {
		t.Fatalf("snapshot = %#v, want only the newest response", snap.Records)
	}
}

func TestLoad_AfterCloseIsDropped(t *testing.T) {
	gate := make(chan []catalog.Record)
	f := &fakeStore{listGates: []chan []catalog.Record{gate}}
	c, _ := newTestController(t, f)

	done := make(chan error)
	go func() { done <- c.Load(context.Background()) }()
	waitFor(t, func() bool { l, _, _, _ := f.counts(); return l == 1 })

	c.Close()
	gate <- seedRecords()
	if err := <-done; err != nil {
		t.Fatalf("Load after Close returned %v, want nil (dropped)", err)
	}
	if got := c.Snapshot().Records; len(got) != 0 {
		t.Fatalf("records applied after Close: %#v", got)
	}
	if err := c.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Load on closed controller error = %v, want ErrClosed", err)
	}
}

func TestSubmit_InvalidDraftNeverCallsNetwork(t *testing.T) {
	f := &fakeStore{}
	c, _ := newTestController(t, f)
	if err := c.StartCreate(); err != nil {
		t.Fatalf("StartCreate returned error: %v", err)
	}

	draft := validDraft()
	draft.Title = "  "
	draft.Score = 11
	errs, err := c.Submit(context.Background(), draft)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Submit error = %v, want ErrInvalid", err)
	}
	if errs[catalog.FieldTitle] == "" || errs[catalog.FieldScore] == "" {
		t.Fatalf("field errors = %v, want title and score", errs)
	}
	_, creates, updates, _ := f.counts()
	if creates != 0 || updates != 0 {
		t.Fatalf("network called for invalid draft: create=%d update=%d", creates, updates)
	}
	snap := c.Snapshot()
	if !snap.FormOpen() || snap.FieldErrors[catalog.FieldScore] == "" || snap.Saving() {
		t.Fatalf("form state after invalid submit: %#v", snap)
	}
}

func TestSubmit_CreateSuccessReloadsOnce(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, sched := newTestController(t, f)
	_ = c.Load(context.Background())
	listBefore, _, _, _ := f.counts()

	if err := c.StartCreate(); err != nil {
		t.Fatalf("StartCreate returned error: %v", err)
	}
	snap := c.Snapshot()
	if snap.FormDraft.Year != 2026 || snap.FormDraft.Kind != catalog.KindMovie {
		t.Fatalf("default draft = %#v, want current year movie", snap.FormDraft)
	}

	errs, err := c.Submit(context.Background(), validDraft())
	if err != nil || len(errs) != 0 {
		t.Fatalf("Submit = %v, %v; want success", errs, err)
	}

	list, creates, updates, _ := f.counts()
	if creates != 1 || updates != 0 {
		t.Fatalf("create=%d update=%d, want 1/0", creates, updates)
	}
	if list-listBefore != 1 {
		t.Fatalf("loads after save = %d, want exactly 1", list-listBefore)
	}

	snap = c.Snapshot()
	if snap.FormOpen() || snap.Saving() {
		t.Fatalf("after save: form=%v saving=%v", snap.FormOpen(), snap.Saving())
	}
	if len(snap.Records) != 3 {
		t.Fatalf("records = %d, want 3 after reload", len(snap.Records))
	}
	if snap.Notification == nil || snap.Notification.Kind != state.NotifySuccess ||
		!strings.Contains(snap.Notification.Message, "created") {
		t.Fatalf("notification = %#v, want success created", snap.Notification)
	}
	if sched.active() != 1 || sched.delays[0] != DefaultNotificationTTL {
		t.Fatalf("timers active=%d delays=%v, want one %v", sched.active(), sched.delays, DefaultNotificationTTL)
	}
}

func TestSubmit_EditUsesUpdate(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, _ := newTestController(t, f)
	_ = c.Load(context.Background())

	rec := c.Snapshot().Records[1]
	if err := c.StartEdit(rec); err != nil {
		t.Fatalf("StartEdit returned error: %v", err)
	}
	draft := rec.AsDraft()
	draft.Score = 9.5
	if _, err := c.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	_, creates, updates, _ := f.counts()
	if creates != 0 || updates != 1 || f.lastUpdate != "2" {
		t.Fatalf("create=%d update=%d id=%q, want update of 2", creates, updates, f.lastUpdate)
	}
	n := c.Snapshot().Notification
	if n == nil || !strings.Contains(n.Message, "updated") {
		t.Fatalf("notification = %#v, want updated", n)
	}
}

func TestSubmit_FailureKeepsFormOpen(t *testing.T) {
	f := &fakeStore{createErr: &api.HTTPError{Method: "POST", URL: "http://x", StatusCode: 500}}
	c, _ := newTestController(t, f)
	_ = c.StartCreate()

	draft := validDraft()
	_, err := c.Submit(context.Background(), draft)
	if !errors.Is(err, ErrOperationFailed) || api.StatusCode(err) != 500 {
		t.Fatalf("Submit error = %v, want ErrOperationFailed wrapping 500", err)
	}
	list, _, _, _ := f.counts()
	if list != 0 {
		t.Fatalf("failed save triggered %d loads, want 0", list)
	}
	snap := c.Snapshot()
	if !snap.FormOpen() || snap.Saving() || snap.FormDraft != draft {
		t.Fatalf("form after failure: %#v", snap)
	}
	if snap.Notification == nil || snap.Notification.Kind != state.NotifyFailure {
		t.Fatalf("notification = %#v, want failure", snap.Notification)
	}
}

func TestSubmit_Guards(t *testing.T) {
	f := &fakeStore{}
	c, _ := newTestController(t, f)

	if _, err := c.Submit(context.Background(), validDraft()); !errors.Is(err, ErrNoForm) {
		t.Fatalf("Submit without form error = %v, want ErrNoForm", err)
	}
}

func TestSubmit_SecondSubmitWhileSavingIsBusy(t *testing.T) {
	f := &fakeStore{createGate: make(chan struct{})}
	c, _ := newTestController(t, f)
	_ = c.StartCreate()

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), validDraft())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !c.Snapshot().Saving() {
		if time.Now().After(deadline) {
			t.Fatal("first submit never started saving")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Submit(context.Background(), validDraft()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit error = %v, want ErrBusy", err)
	}

	close(f.createGate)
	if err := <-done; err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	if _, creates, _, _ := f.counts(); creates != 1 {
		t.Fatalf("create calls = %d, want 1", creates)
	}
}

func TestSubmit_NonFiniteScoreIsInvalid(t *testing.T) {
	f := &fakeStore{}
	c, _ := newTestController(t, f)
	_ = c.StartCreate()

	draft := validDraft()
	draft.Score = math.NaN()
	errs, err := c.Submit(context.Background(), draft)
	if !errors.Is(err, ErrInvalid) || errs[catalog.FieldScore] == "" {
		t.Fatalf("Submit = %v, %v; want score error and ErrInvalid", errs, err)
	}
	if _, creates, _, _ := f.counts(); creates != 0 {
		t.Fatalf("create calls = %d, want 0", creates)
	}
}

func TestSubmit_FailedUpdateNotifiesFailure(t *testing.T) {
	f := &fakeStore{records: seedRecords(), updateErr: &api.HTTPError{Method: "PUT", URL: "http://x/2", StatusCode: 500}}
	c, _ := newTestController(t, f)
	_ = c.Load(context.Background())
	listBefore, _, _, _ := f.counts()

	rec := c.Snapshot().Records[1]
	if err := c.StartEdit(rec); err != nil {
		t.Fatalf("StartEdit returned error: %v", err)
	}
	draft := rec.AsDraft()
	draft.Score = 7
	if _, err := c.Submit(context.Background(), draft); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("Submit error = %v, want ErrOperationFailed", err)
	}

	list, creates, updates, _ := f.counts()
	if creates != 0 || updates != 1 || f.lastUpdate != "2" {
		t.Fatalf("create=%d update=%d id=%q, want one update of 2", creates, updates, f.lastUpdate)
	}
	if list != listBefore {
		t.Fatalf("failed update triggered %d loads, want 0", list-listBefore)
	}
	snap := c.Snapshot()
	if !snap.FormOpen() || snap.Saving() || snap.FormDraft != draft {
		t.Fatalf("form after failed update: %#v", snap)
	}
	if snap.Notification == nil || snap.Notification.Kind != state.NotifyFailure {
		t.Fatalf("notification = %#v, want failure", snap.Notification)
	}
}

func TestConfirmDelete_SuccessReloads(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, _ := newTestController(t, f)
	_ = c.Load(context.Background())

	if err := c.RequestDelete("1"); err != nil {
		t.Fatalf("RequestDelete returned error: %v", err)
	}
	if !c.Snapshot().ConfirmOpen() {
		t.Fatal("confirmation not open")
	}
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete returned error: %v", err)
	}

	list, _, _, deletes := f.counts()
	if deletes != 1 || list != 2 {
		t.Fatalf("delete=%d list=%d, want 1 delete and one reload", deletes, list)
	}
	snap := c.Snapshot()
	if snap.ConfirmOpen() || !snap.PendingDelete.IsZero() || snap.Saving() {
		t.Fatalf("after delete: %#v", snap)
	}
	if len(snap.Records) != 1 || snap.Records[0].ID != "2" {
		t.Fatalf("records = %#v, want only 2", snap.Records)
	}
	if snap.Notification == nil || !strings.Contains(snap.Notification.Message, "Alien") {
		t.Fatalf("notification = %#v, want title", snap.Notification)
	}
}

func TestConfirmDelete_FailureClosesWithoutReload(t *testing.T) {
	f := &fakeStore{records: seedRecords(), deleteErr: errors.New("boom")}
	c, _ := newTestController(t, f)
	_ = c.Load(context.Background())

	_ = c.RequestDelete("1")
	err := c.ConfirmDelete(context.Background())
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("ConfirmDelete error = %v, want ErrOperationFailed", err)
	}
	list, _, _, _ := f.counts()
	if list != 1 {
		t.Fatalf("loads = %d, want no reload after failed delete", list)
	}
	snap := c.Snapshot()
	if snap.ConfirmOpen() || !snap.PendingDelete.IsZero() || snap.Saving() {
		t.Fatalf("after failed delete: %#v", snap)
	}
	if snap.Notification == nil || snap.Notification.Kind != state.NotifyFailure {
		t.Fatalf("notification = %#v, want failure", snap.Notification)
	}
}

func TestConfirmDelete_FailureReconciles(t *testing.T) {
	f := &fakeStore{records: seedRecords(), deleteErr: errors.New("boom")}
	sched := &manualScheduler{}
	c := New(f, Options{Scheduler: sched, ReconcileOnDeleteFailure: true})
	t.Cleanup(c.Close)
	_ = c.Load(context.Background())

	_ = c.RequestDelete("1")
	_ = c.ConfirmDelete(context.Background())
	list, _, _, _ := f.counts()
	if list != 2 {
		t.Fatalf("loads = %d, want reconcile reload", list)
	}
}

func TestConfirmDelete_WithoutPending(t *testing.T) {
	c, _ := newTestController(t, &fakeStore{})
	if err := c.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("ConfirmDelete error = %v, want ErrNoPendingDelete", err)
	}
	if err := c.CancelDelete(); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("CancelDelete error = %v, want ErrNoPendingDelete", err)
	}
}

func TestModalsAreExclusive(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, _ := newTestController(t, f)
	_ = c.Load(context.Background())

	_ = c.StartCreate()
	if err := c.RequestDelete("1"); !errors.Is(err, ErrModalOpen) {
		t.Fatalf("RequestDelete with form open error = %v, want ErrModalOpen", err)
	}
	_ = c.CancelEdit()
	_ = c.RequestDelete("1")
	if err := c.StartEdit(seedRecords()[0]); !errors.Is(err, ErrModalOpen) {
		t.Fatalf("StartEdit with confirmation open error = %v, want ErrModalOpen", err)
	}
	if err := c.CancelDelete(); err != nil {
		t.Fatalf("CancelDelete returned error: %v", err)
	}
	_, _, _, deletes := f.counts()
	if deletes != 0 {
		t.Fatalf("cancel issued %d deletes", deletes)
	}
}

func TestNotification_AutoDismissAndStaleTimer(t *testing.T) {
	f := &fakeStore{createErr: errors.New("boom")}
	c, sched := newTestController(t, f)
	_ = c.StartCreate()

	_, _ = c.Submit(context.Background(), validDraft())
	_, _ = c.Submit(context.Background(), validDraft())

	if len(sched.timers) != 2 || sched.active() != 1 {
		t.Fatalf("timers=%d active=%d, want 2 armed and 1 active", len(sched.timers), sched.active())
	}
	second := c.Snapshot().Notification

	// The first timer fires late; it must not clear the newer toast.
	sched.fire(0)
	if n := c.Snapshot().Notification; n == nil || n.Seq != second.Seq {
		t.Fatalf("stale timer cleared notification: %#v", n)
	}

	sched.fire(1)
	if n := c.Snapshot().Notification; n != nil {
		t.Fatalf("notification = %#v, want auto-dismissed", n)
	}
}

func TestDismissNotification(t *testing.T) {
	f := &fakeStore{createErr: errors.New("boom")}
	c, sched := newTestController(t, f)
	_ = c.StartCreate()
	_, _ = c.Submit(context.Background(), validDraft())

	c.DismissNotification()
	if c.Snapshot().Notification != nil {
		t.Fatal("notification still shown after dismiss")
	}
	if sched.active() != 0 {
		t.Fatalf("active timers = %d, want 0", sched.active())
	}
	c.DismissNotification()
	if c.Snapshot().Notification != nil {
		t.Fatal("notification reappeared after second dismiss")
	}
}

func TestOnChangeReceivesCommittedStates(t *testing.T) {
	f := &fakeStore{records: seedRecords()}
	c, _ := newTestController(t, f)

	var mu sync.Mutex
	var seen []state.LoadStatus
	c.OnChange(func(s state.State) {
		mu.Lock()
		seen = append(seen, s.Load)
		mu.Unlock()
	})
	_ = c.Load(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != state.LoadLoading || seen[1] != state.LoadLoaded {
		t.Fatalf("OnChange saw %v, want [loading loaded]", seen)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
