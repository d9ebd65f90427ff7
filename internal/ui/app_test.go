package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/prefs"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory RecordStore.
type memStore struct {
	mu      sync.Mutex
	records []catalog.Record
	next    int
	listErr error
	creates int
	deletes int
}

func (s *memStore) List(context.Context) ([]catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]catalog.Record(nil), s.records...), nil
}

func (s *memStore) Create(_ context.Context, d catalog.Draft) (catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.next++
	rec := d.WithID(catalog.ID("new-" + strconv.Itoa(s.next)))
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *memStore) Update(_ context.Context, id catalog.ID, d catalog.Draft) (catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records[i] = d.WithID(id)
			return s.records[i], nil
		}
	}
	return catalog.Record{}, errors.New("not found")
}

func (s *memStore) Delete(_ context.Context, id catalog.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func sampleRecords() []catalog.Record {
	return []catalog.Record{
		{ID: "1", Draft: catalog.Draft{Title: "Severance", Year: 2022, Genre: "Thriller", Score: 8.7, Kind: catalog.KindSeries}},
		{ID: "2", Draft: catalog.Draft{Title: "Alien", Year: 1979, Genre: "Horror", Score: 8.5, Kind: catalog.KindMovie}},
		{ID: "3", Draft: catalog.Draft{Title: "Heat", Year: 1995, Genre: "Crime", Score: 8.3, Kind: catalog.KindMovie}},
	}
}

func newTestModel(t *testing.T, store *memStore) Model {
	t.Helper()
	wf := controller.New(store, controller.Options{
		NotificationTTL: -1,
		Now:             func() time.Time { return testNow },
	})
	t.Cleanup(wf.Close)

	m := New(Options{
		Workflow:  wf,
		APIURL:    "http://api.test/filmes",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return testNow },
	})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// runCmd executes cmd synchronously and feeds its message back.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	m, _ = send(m, cmd())
	return m
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	return runCmd(t, m, m.loadCmd())
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return send(m, msg)
}

func TestModel_LoadShowsSortedRecords(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{records: sampleRecords()}))

	items := m.visibleRecords()
	if len(items) != 3 {
		t.Fatalf("visible records = %d, want 3", len(items))
	}
	if items[0].Title != "Alien" || items[2].Title != "Severance" {
		t.Fatalf("records not sorted by title: %v, %v", items[0].Title, items[2].Title)
	}

	view := m.View()
	for _, want := range []string{"marquee", "Alien", "Heat", "Severance", "Catalog (3)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_FailedLoadShowsMessage(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{listErr: errors.New("boom")}))

	view := m.View()
	if !strings.Contains(view, "Could not load the catalog") {
		t.Errorf("expected load error in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Press r to retry") {
		t.Errorf("expected retry hint in view")
	}
}

func TestModel_CreateFlow(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "n")
	if !m.formOpen || !m.form.create {
		t.Fatal("expected create form to open")
	}
	if got := m.form.inputs[fieldYear].Value(); got != "2026" {
		t.Fatalf("default year = %q, want 2026", got)
	}

	m.form.inputs[fieldTitle].SetValue("Arrival")
	m.form.inputs[fieldGenre].SetValue("Sci-Fi")
	m.form.inputs[fieldScore].SetValue("7.9")

	m, cmd := press(m, "ctrl+s")
	m = runCmd(t, m, cmd)

	if m.formOpen {
		t.Fatal("form should close after a successful save")
	}
	if store.creates != 1 {
		t.Fatalf("creates = %d, want 1", store.creates)
	}
	if len(m.snap.Records) != 4 {
		t.Fatalf("records after reload = %d, want 4", len(m.snap.Records))
	}
	if n := m.snap.Notification; n == nil || !strings.Contains(n.Message, "Arrival") {
		t.Fatalf("expected success notification, got %+v", n)
	}
	if !strings.Contains(m.View(), "Arrival") {
		t.Error("expected new record in view")
	}
}

func TestModel_UnparsableInputStaysLocal(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "n")
	m.form.inputs[fieldTitle].SetValue("Arrival")
	m.form.inputs[fieldYear].SetValue("soon")

	m, cmd := press(m, "ctrl+s")
	if cmd != nil {
		t.Fatal("unparsable input should not issue a save")
	}
	if m.form.errorFor(fieldYear) == "" {
		t.Fatal("expected a year error")
	}
	if m.form.errorFor(fieldGenre) == "" {
		t.Fatal("expected validation errors alongside parse errors")
	}
	if store.creates != 0 {
		t.Fatalf("creates = %d, want 0", store.creates)
	}
}

func TestModel_InvalidDraftKeepsFormOpen(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "n")
	m.form.inputs[fieldScore].SetValue("12")

	m, cmd := press(m, "ctrl+s")
	m = runCmd(t, m, cmd)

	if !m.formOpen {
		t.Fatal("form should stay open for an invalid draft")
	}
	if m.form.errorFor(fieldTitle) == "" || m.form.errorFor(fieldScore) == "" {
		t.Fatalf("expected title and score errors, got %v", m.form.allErrors())
	}
	if store.creates != 0 {
		t.Fatalf("creates = %d, want 0", store.creates)
	}
	if !strings.Contains(m.View(), "score cannot exceed 10") {
		t.Error("expected score error in view")
	}
}

func TestModel_EditPrefillsForm(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "j") // Heat
	m, _ = press(m, "e")
	if !m.formOpen || m.form.create {
		t.Fatal("expected edit form to open")
	}
	if got := m.form.inputs[fieldTitle].Value(); got != "Heat" {
		t.Fatalf("title = %q, want Heat", got)
	}

	m.form.inputs[fieldScore].SetValue("9")
	m, cmd := press(m, "ctrl+s")
	m = runCmd(t, m, cmd)

	rec, ok := m.snap.Find("3")
	if !ok || rec.Score != 9 {
		t.Fatalf("record after edit = %+v", rec)
	}
	if sel, _ := m.selectedRecord(); sel.ID != "3" {
		t.Fatalf("selection moved to %q", sel.ID)
	}
}

func TestModel_EscCancelsForm(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{records: sampleRecords()}))

	m, _ = press(m, "n")
	m, _ = press(m, "esc")
	if m.formOpen || m.snap.FormOpen() {
		t.Fatal("form should close on esc")
	}
}

func TestModel_TypingQInFormDoesNotQuit(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{records: sampleRecords()}))

	m, _ = press(m, "n")
	m, _ = press(m, "q")
	if !m.formOpen {
		t.Fatal("q inside the form should not leave the form")
	}
	if got := m.form.inputs[fieldTitle].Value(); got != "q" {
		t.Fatalf("title = %q, want q", got)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m, _ = press(m, "n")

	_, cmd := press(m, "ctrl+c")
	if cmd == nil {
		t.Fatal("expected quit command from ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModel_DeleteConfirmFlow(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "d") // Alien
	if !m.snap.ConfirmOpen() {
		t.Fatal("expected delete confirmation")
	}
	if view := m.View(); !strings.Contains(view, `Delete "Alien"?`) {
		t.Fatalf("confirmation should name the record, got:\n%s", view)
	}

	m, cmd := press(m, "y")
	m = runCmd(t, m, cmd)

	if m.snap.ConfirmOpen() {
		t.Fatal("confirmation should close after delete")
	}
	if _, ok := m.snap.Find("2"); ok {
		t.Fatal("deleted record still listed")
	}
	if store.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", store.deletes)
	}
	if sel, ok := m.selectedRecord(); !ok || sel.Title != "Heat" {
		t.Fatalf("selection after delete = %+v", sel)
	}
}

func TestModel_DeleteCancel(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "d")
	m, _ = press(m, "n")
	if m.snap.ConfirmOpen() {
		t.Fatal("confirmation should close on n")
	}
	if m.formOpen {
		t.Fatal("n inside the confirmation must not open the form")
	}
	if store.deletes != 0 {
		t.Fatalf("deletes = %d, want 0", store.deletes)
	}
}

func TestModel_FilterCyclesAndPersists(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{records: sampleRecords()}))

	m, _ = press(m, "f")
	if m.kindFilter != prefs.FilterMovie {
		t.Fatalf("filter = %q, want movie", m.kindFilter)
	}
	for _, rec := range m.visibleRecords() {
		if rec.Kind != catalog.KindMovie {
			t.Fatalf("series %q visible under movie filter", rec.Title)
		}
	}
	if !strings.Contains(m.View(), "Catalog (2/3) Movies") {
		t.Error("expected filtered list title")
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.KindFilter != prefs.FilterMovie {
		t.Fatalf("saved filter = %q, want movie", p.KindFilter)
	}
}

func TestModel_SelectionSurvivesReload(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "G") // Severance
	store.records = append(store.records, catalog.Record{
		ID:    "4",
		Draft: catalog.Draft{Title: "Aliens", Year: 1986, Genre: "Action", Score: 8.4, Kind: catalog.KindMovie},
	})
	m, cmd := press(m, "r")
	m = runCmd(t, m, cmd)

	if sel, _ := m.selectedRecord(); sel.Title != "Severance" {
		t.Fatalf("selection = %q, want Severance", sel.Title)
	}
}

func TestModel_DismissNotification(t *testing.T) {
	store := &memStore{records: sampleRecords()}
	m := loaded(t, newTestModel(t, store))

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m = runCmd(t, m, cmd)
	if m.snap.Notification == nil {
		t.Fatal("expected a notification after delete")
	}
	if !strings.Contains(m.View(), "c: dismiss") {
		t.Error("expected toast in view")
	}

	m, _ = press(m, "c")
	if m.snap.Notification != nil {
		t.Fatal("notification should be dismissed")
	}
}

func TestModel_CompactLayoutHidesDetail(t *testing.T) {
	m := loaded(t, newTestModel(t, &memStore{records: sampleRecords()}))
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	if _, detail := m.paneWidths(); detail != 0 {
		t.Fatalf("detail width = %d, want 0", detail)
	}
	if strings.Contains(m.View(), "Details") {
		t.Error("compact layout should not render the detail pane")
	}
}
