package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmRequestMsg asks the UI to show a confirmation prompt. The answer is
// sent on reply exactly once.
type confirmRequestMsg struct {
	prompt string
	action string
	cancel string
	reply  chan<- bool
}

// confirmBridge implements editor.Confirmer for code running in a tea.Cmd.
// Requests are delivered to the model by waitForConfirm.
type confirmBridge struct {
	requests chan confirmRequestMsg
	cancel   string
}

func newConfirmBridge(cancelLabel string) *confirmBridge {
	return &confirmBridge{requests: make(chan confirmRequestMsg), cancel: cancelLabel}
}

// Confirm blocks until the user answers or ctx is done.
func (b *confirmBridge) Confirm(ctx context.Context, prompt, action string) (bool, error) {
	reply := make(chan bool, 1)
	req := confirmRequestMsg{prompt: prompt, action: action, cancel: b.cancel, reply: reply}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// waitForConfirm returns a command that delivers the next confirm request.
func waitForConfirm(b *confirmBridge) tea.Cmd {
	return func() tea.Msg {
		return <-b.requests
	}
}

// confirmModal is a yes/no prompt. The action button is focused first.
type confirmModal struct {
	req      confirmRequestMsg
	onCancel bool
	answered bool
}

func newConfirmModal(req confirmRequestMsg) *confirmModal {
	return &confirmModal{req: req}
}

func (c *confirmModal) answer(ok bool) {
	if c.answered {
		return
	}
	c.answered = true
	c.req.reply <- ok
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		c.answer(true)
		return c, nil, true
	case key.Matches(km, keys.No), key.Matches(km, keys.Escape):
		c.answer(false)
		return c, nil, true
	case key.Matches(km, keys.Confirm):
		c.answer(!c.onCancel)
		return c, nil, true
	case key.Matches(km, keys.ButtonLeft), key.Matches(km, keys.ButtonRight), km.String() == "tab":
		c.onCancel = !c.onCancel
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	button := func(label string, focused bool) string {
		st := lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color(theme.Text))
		if focused {
			st = st.Background(lipgloss.Color(theme.SelectionBg)).Foreground(lipgloss.Color(theme.SelectionText)).Bold(true)
		}
		return st.Render(label)
	}
	cancel := c.req.cancel
	if strings.TrimSpace(cancel) == "" {
		cancel = "Cancel"
	}

	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(c.req.prompt))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button(c.req.action, !c.onCancel), "  ", button(cancel, c.onCancel)))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y/n, enter to choose"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)))
}
