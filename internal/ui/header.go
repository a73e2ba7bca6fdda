package ui

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/smartmix/internal/lms"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("smartmix", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● OFFLINE", styles.DangerText),
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.WarningText))
	case !m.snapshot.HasMixes && m.snapshot.LastError == nil:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	if m.width >= LayoutCompactWidth && m.server != "" {
		parts = append(parts, bg.Render("server", styles.FaintText)+bg.Space()+bg.Render(m.server, styles.MutedText))
	}
	parts = append(parts,
		bg.Render("Mixes:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Mixes)), styles.Text))

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  ") + sep)
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var hints [][2]string
	switch m.currentView {
	case ViewLogs:
		hints = [][2]string{{"m", "Mixes"}, {"Space", "Follow"}, {"g/G", "Top/Bottom"}, {"?", "Help"}, {"q", "Quit"}}
	default:
		hints = [][2]string{{"n", "New"}, {"enter", "Edit"}, {"d", "Delete"}, {"r", "Reload"}, {"l", "Log"}, {"?", "Help"}, {"q", "Quit"}}
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bg.Render("<"+h[0]+">", styles.AccentText)+bg.Space()+bg.Render(h[1], styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

// renderNotice renders the transient status line.
func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	if m.notice == "" || time.Since(m.noticeAt) > NoticeDuration {
		return ""
	}
	style := styles.SuccessText
	if m.noticeErr {
		style = styles.DangerText
	}
	return lipgloss.NewStyle().Width(m.width).Render(" " + style.Render(truncate(m.notice, m.width-2)))
}

// classifyConnectionError turns a poll error into a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timed out"
	case errors.Is(err, lms.ErrServer):
		return "server error"
	case strings.Contains(err.Error(), "connection refused"):
		return "connection refused"
	case strings.Contains(err.Error(), "no such host"):
		return "unknown host"
	default:
		return "unreachable"
	}
}
