package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/mix"
)

type rowKind int

const (
	rowName rowKind = iota
	rowRangeMin
	rowRangeMax
	rowAttribute
	rowAllGenres
	rowGenre
)

// formRow is one focusable line of the dialog.
type formRow struct {
	kind  rowKind
	key   string // range key, attribute key or genre
	input int    // index into dialogState.inputs for text rows, else -1
}

func (r formRow) isText() bool {
	return r.kind == rowName || r.kind == rowRangeMin || r.kind == rowRangeMax
}

// dialogState is the UI side of an open editor: focus and text inputs. The
// criteria themselves live in the editor.
type dialogState struct {
	rows   []formRow
	focus  int
	inputs []textinput.Model
	err    string
}

// Messages

type editorOpenedMsg struct {
	name string
	err  error
}

type editorSavedMsg struct{ err error }

type mixRemovedMsg struct {
	name    string
	removed bool
	err     error
}

// Commands

func openEditorCmd(ctx context.Context, ed *editor.Editor, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		return editorOpenedMsg{name: name, err: ed.Open(ctx, name)}
	}
}

func saveEditorCmd(ctx context.Context, ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		return editorSavedMsg{err: ed.Save(ctx)}
	}
}

func removeMixCmd(ctx context.Context, ed *editor.Editor, id, name string, confirm editor.Confirmer) tea.Cmd {
	return func() tea.Msg {
		removed, err := ed.Remove(ctx, id, name, confirm)
		return mixRemovedMsg{name: name, removed: removed, err: err}
	}
}

// newDialogState lays out the form for the editor's current state.
func newDialogState(s editor.State) *dialogState {
	d := &dialogState{}
	addInput := func(kind rowKind, key, value string, numeric bool) {
		ti := textinput.New()
		ti.Prompt = ""
		ti.SetValue(value)
		if numeric {
			ti.CharLimit = 6
			ti.Width = 7
			ti.Validate = digitsOnly
		} else {
			ti.CharLimit = 80
			ti.Width = 32
		}
		d.inputs = append(d.inputs, ti)
		d.rows = append(d.rows, formRow{kind: kind, key: key, input: len(d.inputs) - 1})
	}

	addInput(rowName, "", s.Name, false)
	for _, r := range s.Ranges {
		addInput(rowRangeMin, r.Key, boundText(r.Min), true)
		addInput(rowRangeMax, r.Key, boundText(r.Max), true)
	}
	for _, a := range s.Attributes {
		d.rows = append(d.rows, formRow{kind: rowAttribute, key: a.Key, input: -1})
	}
	if len(s.Vocabulary) > 0 {
		d.rows = append(d.rows, formRow{kind: rowAllGenres, input: -1})
		for _, g := range s.Vocabulary {
			d.rows = append(d.rows, formRow{kind: rowGenre, key: g, input: -1})
		}
	}
	d.inputs[0].Focus()
	return d
}

func boundText(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("digits only")
		}
	}
	return nil
}

func (d *dialogState) focused() formRow {
	return d.rows[d.focus]
}

func (d *dialogState) moveFocus(delta int) {
	if row := d.focused(); row.isText() {
		d.inputs[row.input].Blur()
	}
	d.focus = (d.focus + delta + len(d.rows)) % len(d.rows)
	if row := d.focused(); row.isText() {
		d.inputs[row.input].Focus()
	}
}

// rangeInputs returns the min and max input indexes for a range key.
func (d *dialogState) rangeInputs(key string) (int, int) {
	lo, hi := -1, -1
	for _, r := range d.rows {
		if r.key != key {
			continue
		}
		switch r.kind {
		case rowRangeMin:
			lo = r.input
		case rowRangeMax:
			hi = r.input
		}
	}
	return lo, hi
}

// handleDialogKey processes keyboard input while the editor dialog is shown.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editorState.Running {
		return m, nil
	}
	if m.editorState.Phase == editor.PhaseLoading || m.dialog == nil {
		if key.Matches(msg, m.keys.Escape) {
			m.editor.Cancel()
			m.dialog = nil
			m.editorState = m.editor.Snapshot()
		}
		return m, nil
	}
	d := m.dialog

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.editor.Escape(m.modal == nil)
		m.closeDialogIfDone()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.commitInputs(); err != nil {
			d.err = err.Error()
			return m, nil
		}
		if _, ok := m.editor.Encode(); !ok {
			d.err = m.tr("Nothing to save")
			return m, nil
		}
		d.err = ""
		m.editorState.Running = true
		m.editorState.Phase = editor.PhaseSaving
		return m, tea.Batch(saveEditorCmd(m.ctx, m.editor), m.spinner.Tick)

	case key.Matches(msg, m.keys.ToggleAll):
		m.reportEditErr(m.editor.ToggleAllGenres())
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.commitFocused()
		d.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.commitFocused()
		d.moveFocus(-1)
		return m, nil
	}

	row := d.focused()
	if row.isText() {
		if msg.Type == tea.KeyEnter {
			m.commitFocused()
			d.moveFocus(1)
			return m, nil
		}
		if row.kind != rowName && msg.Type == tea.KeyRunes && digitsOnly(string(msg.Runes)) != nil {
			return m, nil
		}
		var cmd tea.Cmd
		d.inputs[row.input], cmd = d.inputs[row.input].Update(msg)
		m.commitFocused()
		return m, cmd
	}

	if key.Matches(msg, m.keys.Toggle) {
		switch row.kind {
		case rowAttribute:
			_, err := m.editor.ToggleAttribute(row.key)
			m.reportEditErr(err)
		case rowAllGenres:
			m.reportEditErr(m.editor.ToggleAllGenres())
		case rowGenre:
			m.reportEditErr(m.editor.ToggleGenre(row.key))
		}
	}
	return m, nil
}

// commitFocused pushes the focused text input into the editor.
func (m *Model) commitFocused() {
	row := m.dialog.focused()
	switch row.kind {
	case rowName:
		m.reportEditErr(m.editor.SetName(m.dialog.inputs[row.input].Value()))
	case rowRangeMin, rowRangeMax:
		m.reportEditErr(m.commitRange(row.key))
	}
}

// commitInputs pushes every text input into the editor.
func (m *Model) commitInputs() error {
	if err := m.editor.SetName(m.dialog.inputs[0].Value()); err != nil {
		return err
	}
	for _, r := range m.editorState.Ranges {
		if err := m.commitRange(r.Key); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) commitRange(key string) error {
	lo, hi := m.dialog.rangeInputs(key)
	if lo < 0 || hi < 0 {
		return nil
	}
	min, err := parseBound(m.dialog.inputs[lo].Value())
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	max, err := parseBound(m.dialog.inputs[hi].Value())
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return m.editor.SetRange(key, min, max)
}

func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return v, nil
}

func (m *Model) reportEditErr(err error) {
	if m.dialog == nil {
		return
	}
	if err != nil {
		m.dialog.err = err.Error()
	} else {
		m.dialog.err = ""
	}
	m.editorState = m.editor.Snapshot()
}

// closeDialogIfDone drops the dialog once the editor reports it closed.
func (m *Model) closeDialogIfDone() {
	m.editorState = m.editor.Snapshot()
	if !m.editorState.Visible() && m.editorState.Phase != editor.PhaseLoading {
		m.dialog = nil
	}
}

// renderDialog renders the editor dialog centered over the screen.
func (m Model) renderDialog() string {
	s := m.editorState
	styles := m.theme.Styles()
	width := min(DialogMaxWidth, m.width-4)
	if width < 30 {
		width = 30
	}

	if s.Phase == editor.PhaseLoading || m.dialog == nil {
		box := m.dialogBox(width).Render(m.spinner.View() + " " + m.tr("Loading..."))
		return m.placeCentered(box)
	}
	d := m.dialog

	focusMark := func(i int) string {
		if i == d.focus {
			return styles.AccentText.Render("› ")
		}
		return "  "
	}
	section := func(title string) string {
		return styles.AccentText.Bold(true).Render(title)
	}

	var lines []string
	lines = append(lines, styles.Text.Bold(true).Render(s.Title), "")

	rowIdx := 0
	lines = append(lines, focusMark(rowIdx)+styles.MutedText.Render(padRight(m.tr("Name"), 12))+d.inputs[0].View())
	rowIdx++

	lines = append(lines, "", section(m.tr("Ranges")))
	for _, r := range s.Ranges {
		lo, hi := d.rangeInputs(r.Key)
		line := focusMark(rowIdx) + styles.Text.Render(padRight(truncate(r.Label, 20), 20)) +
			styles.MutedText.Render(m.tr("Min")+" ") + d.inputs[lo].View() + "  "
		rowIdx++
		if d.focus == rowIdx {
			line += styles.AccentText.Render("›")
		} else {
			line += " "
		}
		line += styles.MutedText.Render(m.tr("Max")+" ") + d.inputs[hi].View()
		rowIdx++
		lines = append(lines, line)
	}

	lines = append(lines, "", section(m.tr("Attributes")))
	for _, a := range s.Attributes {
		label := styles.Text.Render(padRight(a.Label, 20))
		lines = append(lines, focusMark(rowIdx)+label+styles.TriStateStyle(a.Val).Render(m.triStateLabel(a.Val)))
		rowIdx++
	}

	if len(s.Vocabulary) > 0 {
		lines = append(lines, "", section(m.tr("Genres")))
		lines = append(lines, focusMark(rowIdx)+styles.Text.Render(checkbox(s.AllSelected())+" "+m.tr("All")))
		rowIdx++
		first, last := genreWindow(d.focus-rowIdx, len(s.Vocabulary), m.genreRows())
		if first > 0 {
			lines = append(lines, styles.FaintText.Render(fmt.Sprintf("    ↑ %d", first)))
		}
		for i := first; i < last; i++ {
			g := s.Vocabulary[i]
			lines = append(lines, focusMark(rowIdx+i)+styles.Text.Render(checkbox(s.IsSelected(g))+" "+g))
		}
		if rest := len(s.Vocabulary) - last; rest > 0 {
			lines = append(lines, styles.FaintText.Render(fmt.Sprintf("    ↓ %d", rest)))
		}
	}

	lines = append(lines, "")
	if d.err != "" {
		lines = append(lines, styles.DangerText.Render(truncate(d.err, width-6)))
	}
	lines = append(lines, m.dialogFooter(styles))

	return m.placeCentered(m.dialogBox(width).Render(strings.Join(lines, "\n")))
}

func (m Model) dialogFooter(styles Styles) string {
	if m.editorState.Running {
		return m.spinner.View() + " " + styles.WarningText.Render(m.tr("Saving..."))
	}
	action := m.tr("Save")
	if strings.TrimSpace(m.dialog.inputs[0].Value()) == "" {
		action = m.tr("Create Mix")
	}
	return styles.WarningText.Render("ctrl+s") + " " + styles.Text.Render(action) + "   " +
		styles.WarningText.Render("esc") + " " + styles.Text.Render(m.tr("Cancel")) + "   " +
		styles.FaintText.Render("space toggle · ctrl+a all genres")
}

func (m Model) dialogBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(width)
}

func (m Model) placeCentered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)))
}

// genreRows is how many genre lines fit under the fixed part of the dialog.
func (m Model) genreRows() int {
	fixed := len(m.editorState.Attributes) + len(m.editorState.Ranges) + 18
	return max(m.height-fixed, 3)
}

// genreWindow returns the visible genre range [first, last) keeping focus,
// an index into the genres (negative when focus is elsewhere), in view.
func genreWindow(focus, total, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	first := 0
	if focus >= rows {
		first = focus - rows + 1
	}
	return first, min(first+rows, total)
}

func (m Model) triStateLabel(v mix.TriState) string {
	switch v {
	case mix.Present:
		return m.tr("Yes")
	case mix.Absent:
		return m.tr("No")
	default:
		return m.tr("Any")
	}
}
