package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/smartmix/internal/browse"
	"github.com/five82/smartmix/internal/lms"
)

// handleMixesKey processes keyboard input for the saved mix list.
func (m Model) handleMixesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mixes := m.snapshot.Mixes

	switch {
	case key.Matches(msg, m.keys.NewMix):
		return m.openEditor("")

	case key.Matches(msg, m.keys.EditMix):
		if sel := m.selectedMix(); sel != nil {
			return m.openEditor(sel.Name())
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteMix):
		sel := m.selectedMix()
		if sel == nil {
			return m, nil
		}
		return m, removeMixCmd(m.ctx, m.editor, string(sel.ID), sel.Name(), m.confirm)

	case key.Matches(msg, m.keys.Refresh):
		if m.store != nil {
			m.store.Refresh()
		}
		return m, nil
	}

	if len(mixes) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(mixes)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(mixes) - 1
	}
	return m, nil
}

// selectedMix returns the highlighted saved mix, or nil when the list is empty.
func (m Model) selectedMix() *lms.SavedMix {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Mixes) {
		return nil
	}
	mx := m.snapshot.Mixes[m.selectedRow]
	return &mx
}

// clampSelection keeps the cursor inside the list after it changes.
// The first load selects the last edited mix when it is still present.
func (m *Model) clampSelection(firstLoad bool) {
	if firstLoad && m.lastMix != "" {
		for i, mx := range m.snapshot.Mixes {
			if mx.Name() == m.lastMix {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(m.snapshot.Mixes) {
		m.selectedRow = len(m.snapshot.Mixes) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// renderMixes renders the saved mix list beside the last mix result.
func (m Model) renderMixes() string {
	contentHeight := m.height - 3 // header, command bar, notice

	listWidth := m.width * 35 / 100
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 25 / 100
	}
	listWidth = max(listWidth, 24)
	resultWidth := max(m.width-listWidth, 20)

	title := fmt.Sprintf("%s (%d)", m.tr("Saved mixes"), len(m.snapshot.Mixes))
	list := m.renderTitledBox(title, m.renderMixList(listWidth-2, m.theme.FocusBg), listWidth, contentHeight, true)

	resultTitle := m.tr("Smart Mix")
	if m.snapshot.HasListing {
		resultTitle = m.snapshot.Listing.Title
	}
	result := m.renderTitledBox(resultTitle, m.renderListing(resultWidth-4, contentHeight-2), resultWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, result)
}

func (m Model) renderMixList(width int, bgColor string) string {
	styles := m.theme.Styles()
	if len(m.snapshot.Mixes) == 0 {
		msg := m.tr("No saved mixes")
		if !m.snapshot.HasMixes {
			msg = m.tr("Loading...")
		}
		return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Render(styles.MutedText.Render(msg))
	}

	lines := make([]string, 0, len(m.snapshot.Mixes))
	for i, mx := range m.snapshot.Mixes {
		name := truncate(mx.Name(), width-2)
		if i == m.selectedRow {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width).
				Render(" "+name))
			continue
		}
		bg := NewBgStyle(bgColor)
		lines = append(lines, bg.FillLine(bg.Space()+bg.Render(name, styles.Text), width))
	}
	return strings.Join(lines, "\n")
}

// renderListing renders the tracks returned by the last save.
func (m Model) renderListing(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	if !m.snapshot.HasListing {
		hint := fmt.Sprintf("n: %s   enter: %s   d: %s",
			m.tr("Add new Smart Mix"), m.tr("Edit Smart Mix"), m.tr("Delete"))
		return styles.MutedText.Render(truncate(hint, width))
	}

	payload := m.snapshot.Listing.Payload
	if len(payload.Items) == 0 {
		return styles.MutedText.Render("0 tracks")
	}

	lines := make([]string, 0, min(len(payload.Items), height))
	for i, it := range payload.Items {
		if i >= height-1 {
			lines = append(lines, styles.FaintText.Render(fmt.Sprintf("… %d more", payload.Count-i)))
			break
		}
		lines = append(lines, formatListingItem(it, width, styles))
	}
	return strings.Join(lines, "\n")
}

func formatListingItem(it browse.Item, width int, styles Styles) string {
	title := it.Title
	if title == "" {
		title = it.ID
	}
	if it.Subtitle == "" {
		return styles.Text.Render(truncate(title, width))
	}
	titleWidth := max(width*6/10, 10)
	title = truncate(title, titleWidth)
	rest := max(width-len([]rune(title))-3, 0)
	return styles.Text.Render(title) + styles.FaintText.Render(" · ") + styles.MutedText.Render(truncate(it.Subtitle, rest))
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 4)
	title = truncate(title, innerWidth-4)
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 1)

	rows := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}
