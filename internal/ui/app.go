package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/schoolcal/internal/logtail"
	"github.com/five82/schoolcal/internal/prefs"
	"github.com/five82/schoolcal/internal/searchtype"
	"github.com/five82/schoolcal/internal/state"
	"github.com/five82/schoolcal/internal/viewsync"
)

// Synchronizer is the subset of *viewsync.Synchronizer the UI drives.
type Synchronizer interface {
	UserResolved(ctx context.Context, userID string, st searchtype.SearchType) error
	TypeChanged(ctx context.Context, st searchtype.SearchType) error
	FilterChanged(ctx context.Context, st searchtype.SearchType) error
	Retry(ctx context.Context, st searchtype.SearchType) error
}

var _ Synchronizer = (*viewsync.Synchronizer)(nil)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Sync        Synchronizer
	Store       *state.Store
	Selector    *searchtype.Selector
	UserID      string
	LogPath     string
	ThemeName   string
	PrefsPath   string
	RefreshTick time.Duration
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	sync        Synchronizer
	store       *state.Store
	selector    *searchtype.Selector
	userID      string
	logPath     string
	prefsPath   string
	refreshTick time.Duration
	logger      *zap.Logger

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool
	spinner  spinner.Model

	// Data state
	snapshot state.Snapshot

	scheduleViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
	logFollow   bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.RefreshTick
	if tick <= 0 {
		tick = time.Second
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	selector := opts.Selector
	if selector == nil {
		selector = searchtype.New(searchtype.SearchType{Year: time.Now().Year()})
	}

	m := Model{
		ctx:         ctx,
		sync:        opts.Sync,
		store:       opts.Store,
		selector:    selector,
		userID:      opts.UserID,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		refreshTick: tick,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		logFollow:   true,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model. It starts the first initialization pipeline.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.refreshTick),
	}
	if m.sync != nil {
		userID, st := m.userID, m.current()
		cmds = append(cmds, m.syncCmd("user resolved", func(ctx context.Context) error {
			return m.sync.UserResolved(ctx, userID, st)
		}))
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateScheduleViewport()
		m.updateLogViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateScheduleViewport()
		return m, nil

	case syncDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, viewsync.ErrSuperseded) {
			m.logger.Debug("sync event failed", zap.String("event", msg.event), zap.Error(msg.err))
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil

	case logErrorMsg:
		m.logErr = msg.err
		m.updateLogViewport()
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

	header := m.renderHeader()
	bar := m.renderCommandBar()
	var body string
	switch {
	case m.showLogs:
		body = m.renderLogs()
	case !m.snapshot.Initialized:
		body = m.renderPlaceholder()
	default:
		body = m.scheduleViewport.View()
	}
	return header + "\n" + bar + "\n" + body + "\n" + m.renderFooter()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateScheduleViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, fetchLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showLogs = false
		return m, nil

	case key.Matches(msg, m.keys.ToggleKind):
		st, change := m.selector.ToggleKind()
		return m, m.onSelectorChange(st, change)

	case key.Matches(msg, m.keys.PrevYear):
		st, change := m.selector.ShiftYear(-1)
		return m, m.onSelectorChange(st, change)

	case key.Matches(msg, m.keys.NextYear):
		st, change := m.selector.ShiftYear(1)
		return m, m.onSelectorChange(st, change)

	case key.Matches(msg, m.keys.CycleGrade):
		st, change := m.selector.CycleGrade()
		return m, m.onSelectorChange(st, change)

	case key.Matches(msg, m.keys.Retry):
		if m.sync == nil {
			return m, nil
		}
		st := m.current()
		return m, m.syncCmd("retry", func(ctx context.Context) error {
			return m.sync.Retry(ctx, st)
		})

	case key.Matches(msg, m.keys.ToggleView):
		if m.store == nil {
			return m, nil
		}
		next := m.snapshot.View.Next()
		m.store.SetView(next)
		m.snapshot.View = next
		m.savePrefs()
		m.updateScheduleViewport()
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}
	return m, m.scroll(&m.scheduleViewport, msg)
}

// onSelectorChange saves the selection and dispatches the matching event.
func (m *Model) onSelectorChange(st searchtype.SearchType, change searchtype.Change) tea.Cmd {
	if change == searchtype.ChangeNone {
		return nil
	}
	m.savePrefs()
	if m.sync == nil {
		return nil
	}
	var cmds []tea.Cmd
	switch change {
	case searchtype.ChangeKind:
		cmds = append(cmds, m.syncCmd("type changed", func(ctx context.Context) error {
			return m.sync.TypeChanged(ctx, st)
		}))
	case searchtype.ChangeFilter:
		cmds = append(cmds, m.syncCmd("filter changed", func(ctx context.Context) error {
			return m.sync.FilterChanged(ctx, st)
		}))
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

func (m Model) current() searchtype.SearchType {
	return m.selector.Current()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	st := m.current()
	view := m.snapshot.View
	if view == "" {
		view = state.ViewMonthly
	}
	p := prefs.Prefs{
		Theme:      m.theme.Name,
		SearchType: string(st.Kind),
		Year:       st.Year,
		Grade:      st.Grade,
		View:       string(view),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// handleTick refreshes the snapshot and, when visible and following, the log.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showLogs && m.logFollow {
		if cmd := fetchLogsCmd(m.logPath); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.refreshTick))
	return m, tea.Batch(cmds...)
}

func (m Model) contentHeight() int {
	return max(1, m.height-3)
}

func (m *Model) updateScheduleViewport() {
	m.scheduleViewport.Width = m.width
	m.scheduleViewport.Height = m.contentHeight()
	styles := m.theme.Styles()
	if m.snapshot.View == state.ViewList {
		m.scheduleViewport.SetContent(ScheduleTable(m.snapshot.Schedules, m.theme, m.width))
		return
	}
	m.scheduleViewport.SetContent(renderMonthly(m.snapshot.Schedules, styles, m.width))
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type syncDoneMsg struct {
	event string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) syncCmd(event string, run func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return syncDoneMsg{event: event, err: run(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
