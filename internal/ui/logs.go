package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/smartmix/internal/logtail"
)

// logState holds the log view state.
type logState struct {
	entries []logtail.Entry
	follow  bool
	err     error
}

type logLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

type logChangedMsg struct{}

// loadLogCmd reads the tail of the log file.
func loadLogCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, LogTailLines)
		return logLoadedMsg{entries: entries, err: err}
	}
}

// waitForLogChange returns a command that waits for the log file to be written.
func waitForLogChange(w *logtail.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if !w.Next() {
			return nil
		}
		return logChangedMsg{}
	}
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 1), max(m.height-6, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport renders the entries into the viewport.
func (m *Model) updateLogViewport() {
	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(m.height-6, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logState.err != nil {
		return bg.Render(m.logState.err.Error(), styles.DangerText)
	}
	if len(m.logState.entries) == 0 {
		return bg.Render("Log is empty", styles.MutedText)
	}

	lines := make([]string, 0, len(m.logState.entries))
	for _, e := range m.logState.entries {
		lines = append(lines, bg.FillLine(m.formatLogEntry(e, styles, bg), width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	if e.Level != "" {
		parts = append(parts, bg.Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level)), levelStyle(e.Level, styles)))
	}
	parts = append(parts, bg.Render(e.Message, styles.Text))
	if f := e.FieldString(); f != "" {
		parts = append(parts, bg.Render(f, styles.MutedText))
	}
	return strings.Join(parts, bg.Space())
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()
	contentHeight := m.height - 4 // header, command bar, notice, status

	box := m.renderTitledBox("Log", m.logViewport.View(), m.width, contentHeight, true)

	follow := "off"
	if m.logState.follow {
		follow = "on"
	}
	status := fmt.Sprintf("%d lines  auto-tail %s  %s", len(m.logState.entries), follow, truncate(m.logFile, m.width/2))
	return box + "\n" + bg.Render(status, styles.FaintText)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
		}
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}
