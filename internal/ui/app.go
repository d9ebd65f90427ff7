package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// Workflow is the list/edit controller the UI drives. *controller.Controller
// satisfies it.
type Workflow interface {
	Snapshot() state.State
	Load(ctx context.Context) error
	StartCreate() error
	StartEdit(rec catalog.Record) error
	CancelEdit() error
	Submit(ctx context.Context, draft catalog.Draft) (catalog.FieldErrors, error)
	RequestDelete(id catalog.ID) error
	CancelDelete() error
	ConfirmDelete(ctx context.Context) error
	DismissNotification()
}

// changeNotifier is implemented by workflows that push state changes.
type changeNotifier interface {
	OnChange(fn func(state.State))
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Workflow   Workflow
	APIURL     string
	ThemeName  string
	KindFilter string
	PrefsPath  string
	Now        func() time.Time
	Tick       time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	wf        Workflow
	apiURL    string
	prefsPath string
	now       func() time.Time
	tick      time.Duration
	keys      keyMap

	// UI state
	theme      Theme
	kindFilter string
	width      int
	height     int
	ready      bool
	showHelp   bool

	// Data state
	snap state.State

	// List state
	selectedRow  int
	selectedID   catalog.ID
	listViewport viewport.Model

	// Form state
	form     editForm
	formOpen bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	filter := strings.ToLower(strings.TrimSpace(opts.KindFilter))
	switch filter {
	case prefs.FilterMovie, prefs.FilterSeries:
	default:
		filter = prefs.FilterAll
	}

	m := Model{
		ctx:          ctx,
		wf:           opts.Workflow,
		apiURL:       opts.APIURL,
		prefsPath:    opts.PrefsPath,
		now:          now,
		tick:         tick,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		kindFilter:   filter,
		listViewport: viewport.New(0, 0),
	}
	if m.wf != nil {
		m.applySnapshot(m.wf.Snapshot())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), m.loadCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.refreshList()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		// Re-read state so relative timestamps and expired toasts refresh
		// even if a change notification was missed.
		m.refresh()
		return m, tickCmd(m.tick)

	case stateChangedMsg:
		m.refresh()
		return m, nil

	case opDoneMsg:
		m.refresh()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch {
	case m.formOpen:
		content = m.form.View(m.theme, m.width, m.contentHeight())
	case m.snap.ConfirmOpen():
		content = m.confirmDialog().View(m.theme, m.width, m.contentHeight())
	default:
		content = m.renderBrowse()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

func (m Model) confirmDialog() confirmDialog {
	d := confirmDialog{saving: m.snap.Saving()}
	if id, ok := m.snap.PendingDeleteID(); ok {
		if rec, found := m.snap.Find(id); found {
			d.title = rec.Title
		}
	}
	return d
}

// refresh pulls the latest workflow state into the model.
func (m *Model) refresh() {
	if m.wf == nil {
		return
	}
	m.applySnapshot(m.wf.Snapshot())
}

// applySnapshot stores s and opens, updates or closes the form to match.
// The form's inputs are built once when it opens so typing is never
// overwritten by a later snapshot.
func (m *Model) applySnapshot(s state.State) {
	m.snap = s

	if s.FormOpen() {
		if !m.formOpen {
			m.form = newEditForm(s.FormDraft, s.CreateMode())
			m.formOpen = true
		}
		m.form.serverErrors = s.FieldErrors
		m.form.saving = s.Saving()
	} else if m.formOpen {
		m.form = editForm{}
		m.formOpen = false
	}

	m.syncSelection()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case m.formOpen:
		return m.handleFormKey(msg)
	case m.snap.ConfirmOpen():
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.visibleRecords()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.CycleFilter):
		m.kindFilter = prefs.NextFilter(m.kindFilter)
		m.syncSelection()
		m.savePrefs()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(m.selectedRow - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.selectedRow + 1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(items) - 1)

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.New):
		if m.wf != nil && m.wf.StartCreate() == nil {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selectedRecord(); ok && m.wf != nil && m.wf.StartEdit(rec) == nil {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selectedRecord(); ok && m.wf != nil && m.wf.RequestDelete(rec.ID) == nil {
			m.refresh()
		}

	case key.Matches(msg, m.keys.DismissToast):
		if m.wf != nil {
			m.wf.DismissNotification()
			m.refresh()
		}
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	form, action, cmd := m.form.Update(msg, m.keys)
	m.form = form

	switch action {
	case formCancel:
		if m.wf != nil && m.wf.CancelEdit() == nil {
			m.refresh()
		}
		return m, nil
	case formSubmit:
		return m.submitForm()
	}
	return m, cmd
}

// submitForm parses the inputs and hands the draft to the workflow. Input
// that does not parse is reported in the form without a request.
func (m Model) submitForm() (Model, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}

	values := m.form.values()
	draft, parseErrs := catalog.ParseDraft(values)
	if !parseErrs.Valid() {
		_, m.form.parseErrors = catalog.ValidateForm(values, m.now())
		return m, nil
	}
	m.form.parseErrors = nil
	m.form.saving = true
	return m, m.submitCmd(draft)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.snap.Saving() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.confirmDeleteCmd()
	case key.Matches(msg, m.keys.Cancel):
		if m.wf != nil && m.wf.CancelDelete() == nil {
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, KindFilter: m.kindFilter})
}

// Messages

type tickMsg time.Time

// stateChangedMsg is sent whenever the workflow commits a new state.
type stateChangedMsg struct{}

// opDoneMsg reports a finished load, save or delete. Outcomes are already
// in the workflow state; err is kept for tests and logging.
type opDoneMsg struct {
	op  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadCmd() tea.Cmd {
	if m.wf == nil {
		return nil
	}
	ctx, wf := m.ctx, m.wf
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, OperationTimeout)
		defer cancel()
		return opDoneMsg{op: "load", err: wf.Load(ctx)}
	}
}

func (m Model) submitCmd(draft catalog.Draft) tea.Cmd {
	if m.wf == nil {
		return nil
	}
	ctx, wf := m.ctx, m.wf
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, OperationTimeout)
		defer cancel()
		_, err := wf.Submit(ctx, draft)
		return opDoneMsg{op: "save", err: err}
	}
}

func (m Model) confirmDeleteCmd() tea.Cmd {
	if m.wf == nil {
		return nil
	}
	ctx, wf := m.ctx, m.wf
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, OperationTimeout)
		defer cancel()
		return opDoneMsg{op: "delete", err: wf.ConfirmDelete(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send from a fresh goroutine: the change may fire while Update is
	// running a workflow call, and Send blocks until the event loop reads.
	if n, ok := opts.Workflow.(changeNotifier); ok {
		n.OnChange(func(state.State) {
			go p.Send(stateChangedMsg{})
		})
		defer n.OnChange(nil)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
