package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/i18n"
	"github.com/five82/smartmix/internal/logtail"
	"github.com/five82/smartmix/internal/prefs"
	"github.com/five82/smartmix/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewMixes View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Editor     *editor.Editor
	Store      *state.Store
	Translator *i18n.Translator
	Logger     zerolog.Logger
	LogFile    string
	Server     string
	PollTick   time.Duration
	ThemeName  string
	LastMix    string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	editor    *editor.Editor
	store     *state.Store
	tr        func(text string, args ...any) string
	logger    zerolog.Logger
	logFile   string
	server    string
	prefsPath string
	lastMix   string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model
	notice      string
	noticeErr   bool
	noticeAt    time.Time

	// Data state
	snapshot    state.Snapshot
	selectedRow int

	// Editor dialog
	editorState editor.State
	dialog      *dialogState
	modal       Modal
	confirm     *confirmBridge

	// Log view
	logViewport viewport.Model
	logState    logState
	watcher     *logtail.Watcher
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 || pollTick > DefaultUIInterval {
		// The store is local; read it often even when the server is polled slowly.
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	tr := opts.Translator.T

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		editor:      opts.Editor,
		store:       opts.Store,
		tr:          tr,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		logFile:     opts.LogFile,
		server:      opts.Server,
		prefsPath:   prefsPath,
		lastMix:     strings.TrimSpace(opts.LastMix),
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewMixes,
		spinner:     sp,
		confirm:     newConfirmBridge(tr("Cancel")),
		logState:    logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		waitForConfirm(m.confirm),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForLogChange(m.watcher))
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
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		firstLoad := !m.snapshot.HasMixes
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.HasMixes {
			m.clampSelection(firstLoad)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case editorOpenedMsg:
		return m.handleEditorOpened(msg)

	case editorSavedMsg:
		return m.handleEditorSaved(msg)

	case mixRemovedMsg:
		switch {
		case msg.err != nil:
			m.setNotice(msg.err.Error(), true)
		case msg.removed:
			m.setNotice(m.tr("Deleted '%1'", msg.name), false)
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case confirmRequestMsg:
		m.modal = newConfirmModal(msg)
		return m, waitForConfirm(m.confirm)

	case logLoadedMsg:
		m.logState.entries = msg.entries
		m.logState.err = msg.err
		m.updateLogViewport()
		return m, nil

	case logChangedMsg:
		cmds := []tea.Cmd{waitForLogChange(m.watcher)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, loadLogCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)
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
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.dialogVisible() {
		return m.renderDialog()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.dialogVisible() {
		return m.handleDialogKey(msg)
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
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewMixes {
			return m.showLogs()
		}
		m.currentView = ViewMixes
		return m, nil

	case key.Matches(msg, m.keys.ViewMixes), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewMixes
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		return m.showLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleMixesKey(msg)
	}
}

func (m Model) showLogs() (tea.Model, tea.Cmd) {
	m.currentView = ViewLogs
	return m, loadLogCmd(m.logFile)
}

// openEditor shows the dialog in its loading state and starts the load.
func (m Model) openEditor(name string) (tea.Model, tea.Cmd) {
	m.dialog = nil
	m.editorState = editor.State{Phase: editor.PhaseLoading, Name: name}
	return m, tea.Batch(openEditorCmd(m.ctx, m.editor, name), m.spinner.Tick)
}

func (m Model) handleEditorOpened(msg editorOpenedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, editor.ErrSuperseded) {
		return m, nil
	}
	m.editorState = m.editor.Snapshot()
	if m.editorState.Phase != editor.PhaseOpen {
		m.dialog = nil
		return m, nil
	}
	m.dialog = newDialogState(m.editorState)
	if msg.err != nil {
		m.dialog.err = msg.err.Error()
	}
	if msg.name != "" && msg.name != m.lastMix {
		m.lastMix = msg.name
		m.savePrefs()
	}
	return m, nil
}

func (m Model) handleEditorSaved(msg editorSavedMsg) (tea.Model, tea.Cmd) {
	m.editorState = m.editor.Snapshot()
	if msg.err != nil {
		if m.dialog != nil {
			if errors.Is(msg.err, editor.ErrNothingToSave) {
				m.dialog.err = m.tr("Nothing to save")
			} else {
				m.dialog.err = msg.err.Error()
			}
		}
		return m, nil
	}
	m.dialog = nil
	m.currentView = ViewMixes
	m.setNotice(m.tr("Smart Mix")+" ✓", false)
	if m.store == nil {
		return m, nil
	}
	m.store.Refresh()
	return m, fetchSnapshotCmd(m.store)
}

func (m Model) dialogVisible() bool {
	return m.editorState.Phase != editor.PhaseClosed
}

func (m Model) busy() bool {
	return m.editorState.Running || m.editorState.Phase == editor.PhaseLoading
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
	m.noticeAt = time.Now()
	if isErr {
		m.logger.Warn().Str("notice", text).Msg("ui notice")
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, LastMix: m.lastMix}); err != nil {
		m.logger.Warn().Err(err).Msg("save prefs failed")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var content string
	switch m.currentView {
	case ViewLogs:
		content = m.renderLogs()
	default:
		content = m.renderMixes()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		content,
		m.renderNotice(),
	)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

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

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	if opts.LogFile != "" {
		w, err := logtail.Watch(opts.LogFile)
		if err != nil {
			m.logger.Warn().Err(err).Msg("log watch disabled")
		} else {
			defer w.Close()
			m.watcher = w
		}
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
