package ui

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/lms"
	"github.com/five82/smartmix/internal/mix"
	"github.com/five82/smartmix/internal/prefs"
	"github.com/five82/smartmix/internal/state"
)

type fakeService struct {
	mu      sync.Mutex
	genres  []string
	bodies  map[string]string
	saves   []string
	deletes []string
}

var _ lms.MixService = (*fakeService)(nil)

func (f *fakeService) FetchGenres(context.Context) ([]string, error) {
	return f.genres, nil
}

func (f *fakeService) ReadMix(_ context.Context, name string) (string, error) {
	return f.bodies[name], nil
}

func (f *fakeService) SaveMix(_ context.Context, name, body string) (lms.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, body)
	return lms.SaveResult{
		Command: lms.SaveCommand("musicsimilarity", name, body),
		Result:  json.RawMessage(`{"count":1,"titles_loop":[{"id":1,"title":"So What","artist":"Miles Davis"}]}`),
	}, nil
}

func (f *fakeService) DeleteMix(_ context.Context, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return json.RawMessage(`{}`), nil
}

func (f *fakeService) FetchMixes(context.Context) ([]lms.SavedMix, error) {
	return nil, nil
}

func newTestModel(t *testing.T, svc *fakeService) (Model, *state.Store) {
	t.Helper()
	store := &state.Store{}
	ed := editor.New(svc, store, nil, zerolog.Nop())
	m := New(Options{
		Context:   context.Background(),
		Editor:    ed,
		Store:     store,
		Logger:    zerolog.Nop(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return updated.(Model), store
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// openDialog opens the editor for name and delivers the load result.
func openDialog(t *testing.T, m Model, name string) Model {
	t.Helper()
	updated, _ := m.openEditor(name)
	m = updated.(Model)
	require.Equal(t, editor.PhaseLoading, m.editorState.Phase)

	msg := openEditorCmd(context.Background(), m.editor, name)()
	updated, _ = m.Update(msg)
	m = updated.(Model)
	require.NotNil(t, m.dialog)
	return m
}

func TestNewMixKeyShowsLoadingDialog(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})

	m, cmd := press(t, m, runes("n"))
	assert.NotNil(t, cmd)
	assert.Equal(t, editor.PhaseLoading, m.editorState.Phase)
	assert.Contains(t, m.View(), "Loading...")
}

func TestOpenedDialogRendersTitleAndGenres(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{genres: []string{"Jazz", "Rock"}})
	m = openDialog(t, m, "")

	view := m.View()
	assert.Contains(t, view, "Add new Smart Mix")
	assert.Contains(t, view, "Jazz")
	assert.Contains(t, view, "Create Mix")
}

func TestEditDialogDecodesStoredMix(t *testing.T) {
	svc := &fakeService{
		genres: []string{"Jazz", "Rock"},
		bodies: map[string]string{"Chill": `{"format":"text","minbpm":90,"genre":["Jazz"]}`},
	}
	m, _ := newTestModel(t, svc)
	m = openDialog(t, m, "Chill")

	assert.Equal(t, "Chill", m.dialog.inputs[0].Value())
	assert.True(t, m.editorState.IsSelected("Jazz"))
	assert.False(t, m.editorState.IsSelected("Rock"))
}

func TestDialogToggleAttribute(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	m = openDialog(t, m, "")

	// Name plus a min and max row per range precede the attributes.
	for i := 0; i < 1+2*len(mix.RangeKeys()); i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, rowAttribute, m.dialog.focused().kind)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, mix.Present, m.editorState.Attributes[0].Val)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, mix.Absent, m.editorState.Attributes[0].Val)
}

func TestDialogSaveWithoutFilters(t *testing.T) {
	svc := &fakeService{}
	m, _ := newTestModel(t, svc)
	m = openDialog(t, m, "")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to save", m.dialog.err)
	assert.Empty(t, svc.saves)
}

func TestDialogSaveShowsListing(t *testing.T) {
	svc := &fakeService{genres: []string{"Jazz"}}
	m, store := newTestModel(t, svc)
	m = openDialog(t, m, "")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	require.True(t, m.editorState.AllSelected())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.editorState.Running)

	// Keys are ignored while the save runs.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, m.dialog)

	updated, _ := m.Update(saveEditorCmd(context.Background(), m.editor)())
	m = updated.(Model)
	assert.Nil(t, m.dialog)
	assert.False(t, m.dialogVisible())
	require.Len(t, svc.saves, 1)
	assert.JSONEq(t, `{"format":"text","genre":["Jazz"]}`, svc.saves[0])

	snap := store.Snapshot()
	require.True(t, snap.HasListing)
	assert.Equal(t, "Smart Mix", snap.Listing.Title)
	assert.Equal(t, 1, snap.Listing.Payload.Count)

	updated, _ = m.Update(snapshotMsg(snap))
	assert.Contains(t, updated.(Model).View(), "So What")
}

func TestDialogRangeInputRejectsLetters(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	m = openDialog(t, m, "")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, rowRangeMin, m.dialog.focused().kind)
	m, _ = press(t, m, runes("4"))
	m, _ = press(t, m, runes("x"))
	m, _ = press(t, m, runes("2"))

	assert.Equal(t, "42", m.dialog.inputs[m.dialog.focused().input].Value())
	assert.Equal(t, 42, m.editorState.Ranges[0].Min)
}

func TestEscapeClosesDialog(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	m = openDialog(t, m, "")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.dialog)
	assert.Equal(t, editor.PhaseClosed, m.editorState.Phase)
}

func TestEscapeWhileLoadingCancels(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	m, _ = press(t, m, runes("n"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, editor.PhaseClosed, m.editorState.Phase)
}

func TestSupersededOpenIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	updated, _ := m.openEditor("")
	m = updated.(Model)

	updated, _ = m.Update(editorOpenedMsg{err: editor.ErrSuperseded})
	m = updated.(Model)
	assert.Equal(t, editor.PhaseLoading, m.editorState.Phase)
	assert.Nil(t, m.dialog)
}

func TestOpenRemembersLastMix(t *testing.T) {
	svc := &fakeService{bodies: map[string]string{"Chill": `{"happy":"y"}`}}
	m, _ := newTestModel(t, svc)
	m = openDialog(t, m, "Chill")

	assert.Equal(t, "Chill", m.lastMix)
	assert.Equal(t, "Chill", prefs.Load(m.prefsPath).LastMix)
}

func TestMixListNavigation(t *testing.T) {
	m, store := newTestModel(t, &fakeService{})
	store.UpdateMixes([]lms.SavedMix{{ID: "1", Text: "Chill"}, {ID: "2", Text: "Party"}}, nil)
	updated, _ := m.Update(fetchSnapshotCmd(store)())
	m = updated.(Model)

	require.NotNil(t, m.selectedMix())
	assert.Equal(t, "Chill", m.selectedMix().Name())

	m, _ = press(t, m, runes("j"))
	assert.Equal(t, "Party", m.selectedMix().Name())
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, "Party", m.selectedMix().Name())
	m, _ = press(t, m, runes("g"))
	assert.Equal(t, "Chill", m.selectedMix().Name())

	assert.Contains(t, m.View(), "Party")
}

func TestFirstLoadSelectsLastMix(t *testing.T) {
	m, store := newTestModel(t, &fakeService{})
	m.lastMix = "Party"
	store.UpdateMixes([]lms.SavedMix{{ID: "1", Text: "Chill"}, {ID: "2", Text: "Party"}}, nil)

	updated, _ := m.Update(fetchSnapshotCmd(store)())
	assert.Equal(t, 1, updated.(Model).selectedRow)
}

func TestListShrinkClampsSelection(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	m.snapshot = state.Snapshot{HasMixes: true, Mixes: []lms.SavedMix{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	m.selectedRow = 2

	updated, _ := m.Update(snapshotMsg(state.Snapshot{HasMixes: true, Mixes: []lms.SavedMix{{ID: "1"}}}))
	assert.Equal(t, 0, updated.(Model).selectedRow)
}

func TestConfirmBridgeDeliversAnswer(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})

	result := make(chan bool, 1)
	go func() {
		ok, err := m.confirm.Confirm(context.Background(), "Delete 'Chill'?", "Delete")
		assert.NoError(t, err)
		result <- ok
	}()

	msg := waitForConfirm(m.confirm)()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	assert.NotNil(t, cmd)
	require.NotNil(t, m.modal)
	assert.Contains(t, m.View(), "Delete 'Chill'?")

	m, _ = press(t, m, runes("y"))
	assert.Nil(t, m.modal)

	select {
	case ok := <-result:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("confirm did not return")
	}
}

func TestConfirmModalEnterOnCancel(t *testing.T) {
	reply := make(chan bool, 1)
	var modal Modal = newConfirmModal(confirmRequestMsg{prompt: "p", action: "Delete", reply: reply})
	keys := DefaultKeyMap()

	modal, _, done := modal.Update(tea.KeyMsg{Type: tea.KeyRight}, keys)
	require.False(t, done)
	_, _, done = modal.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
	require.True(t, done)
	assert.False(t, <-reply)
}

func TestConfirmBridgeHonoursContext(t *testing.T) {
	b := newConfirmBridge("Cancel")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Confirm(ctx, "p", "a")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRemoveDeclinedShowsNoNotice(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})

	updated, _ := m.Update(mixRemovedMsg{name: "Chill"})
	assert.Empty(t, updated.(Model).notice)

	updated, _ = m.Update(mixRemovedMsg{name: "Chill", removed: true})
	assert.Equal(t, "Deleted 'Chill'", updated.(Model).notice)
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, &fakeService{})
	require.Equal(t, "Nightfox", m.theme.Name)

	m, _ = press(t, m, runes("T"))
	assert.Equal(t, "Kanagawa", m.theme.Name)
	assert.Equal(t, "Kanagawa", prefs.Load(m.prefsPath).Theme)
}

func TestGenreWindow(t *testing.T) {
	cases := []struct {
		focus, total, rows int
		first, last        int
	}{
		{focus: -1, total: 3, rows: 5, first: 0, last: 3},
		{focus: -1, total: 10, rows: 4, first: 0, last: 4},
		{focus: 3, total: 10, rows: 4, first: 0, last: 4},
		{focus: 4, total: 10, rows: 4, first: 1, last: 5},
		{focus: 9, total: 10, rows: 4, first: 6, last: 10},
	}
	for _, tc := range cases {
		first, last := genreWindow(tc.focus, tc.total, tc.rows)
		assert.Equal(t, tc.first, first, "first for %+v", tc)
		assert.Equal(t, tc.last, last, "last for %+v", tc)
	}
}

func TestParseBound(t *testing.T) {
	v, err := parseBound(" ")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = parseBound("120")
	require.NoError(t, err)
	assert.Equal(t, 120, v)

	_, err = parseBound("-3")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(" abc ", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
	assert.Equal(t, "[x]", checkbox(true))
	assert.Equal(t, "ab  ", padRight("ab", 4))
}
