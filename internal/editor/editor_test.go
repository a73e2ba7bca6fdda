package editor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/smartmix/internal/lms"
	"github.com/five82/smartmix/internal/mix"
)

type fakeService struct {
	mu sync.Mutex

	genres    []string
	genresErr error
	bodies    map[string]string
	saveErr   error
	deleteErr error
	result    json.RawMessage

	// genresHook runs inside FetchGenres before it returns.
	genresHook func(ctx context.Context) error
	// saveHook runs inside SaveMix before the call is recorded.
	saveHook func()

	saves   []saveCall
	deletes []string
	reads   []string
}

type saveCall struct{ name, body string }

var _ lms.MixService = (*fakeService)(nil)

func (f *fakeService) FetchGenres(ctx context.Context) ([]string, error) {
	if f.genresHook != nil {
		if err := f.genresHook(ctx); err != nil {
			return nil, err
		}
	}
	return f.genres, f.genresErr
}

func (f *fakeService) ReadMix(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, name)
	return f.bodies[name], nil
}

func (f *fakeService) SaveMix(_ context.Context, name, body string) (lms.SaveResult, error) {
	if f.saveHook != nil {
		f.saveHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, saveCall{name, body})
	if f.saveErr != nil {
		return lms.SaveResult{}, f.saveErr
	}
	return lms.SaveResult{Command: lms.SaveCommand("musicsimilarity", name, body), Result: f.result}, nil
}

func (f *fakeService) DeleteMix(_ context.Context, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeService) FetchMixes(context.Context) ([]lms.SavedMix, error) {
	return nil, nil
}

type fakeListing struct {
	mu        sync.Mutex
	shown     []ListingUpdate
	refreshes int
}

func (l *fakeListing) Show(u ListingUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shown = append(l.shown, u)
}

func (l *fakeListing) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshes++
}

func newEditor(t *testing.T, svc *fakeService) (*Editor, *fakeListing) {
	t.Helper()
	listing := &fakeListing{}
	return New(svc, listing, nil, zerolog.Nop()), listing
}

func attr(s State, key string) mix.TriState {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a.Val
		}
	}
	return mix.TriState(99)
}

func TestOpen_NewMixStartsFromDefaults(t *testing.T) {
	svc := &fakeService{genres: []string{"Rock", "Jazz"}}
	ed, _ := newEditor(t, svc)

	require.NoError(t, ed.Open(context.Background(), ""))
	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.True(t, s.Visible())
	assert.Equal(t, "Add new Smart Mix", s.Title)
	assert.Equal(t, []string{"Rock", "Jazz"}, s.Vocabulary)
	assert.Empty(t, s.Selected)
	assert.Empty(t, svc.reads)
	for _, a := range s.Attributes {
		assert.Equal(t, mix.Unset, a.Val, a.Key)
	}
}

func TestOpen_DecodesStoredMix(t *testing.T) {
	svc := &fakeService{
		genres: []string{"Rock", "Jazz"},
		bodies: map[string]string{"Chill": `{"format":"text","maxbpm":90,"voice":"n","genre":["Jazz","Polka"]}`},
	}
	ed, _ := newEditor(t, svc)

	require.NoError(t, ed.Open(context.Background(), "Chill"))
	s := ed.Snapshot()
	assert.Equal(t, "Edit Smart Mix", s.Title)
	assert.Equal(t, "Chill", s.Name)
	assert.Equal(t, mix.Absent, attr(s, "voice"))
	assert.Equal(t, []string{"Jazz"}, s.Selected)
	assert.Equal(t, 90, s.Ranges[1].Max)
	assert.Equal(t, 0, s.Ranges[1].Min)
}

func TestOpen_MalformedBodyKeepsDefaults(t *testing.T) {
	svc := &fakeService{
		genres: []string{"Rock"},
		bodies: map[string]string{"Broken": `{"format":`},
	}
	ed, _ := newEditor(t, svc)

	require.NoError(t, ed.Open(context.Background(), "Broken"))
	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.Empty(t, s.Selected)
	_, ok := ed.Encode()
	assert.False(t, ok)
}

func TestOpen_GenreFailureStillOpens(t *testing.T) {
	svc := &fakeService{genresErr: errors.New("offline")}
	ed, _ := newEditor(t, svc)

	err := ed.Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch genres")
	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.Empty(t, s.Vocabulary)
}

func TestOpen_LaterOpenSupersedes(t *testing.T) {
	started := make(chan struct{})
	svc := &fakeService{genres: []string{"Rock"}}
	first := true
	svc.genresHook = func(ctx context.Context) error {
		if first {
			first = false
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}
	ed, _ := newEditor(t, svc)

	errc := make(chan error, 1)
	go func() { errc <- ed.Open(context.Background(), "Old") }()
	<-started

	require.NoError(t, ed.Open(context.Background(), ""))
	assert.ErrorIs(t, <-errc, ErrSuperseded)

	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.Equal(t, "Add new Smart Mix", s.Title)
	assert.Empty(t, s.Name)
}

func TestCancel_AbandonsLoad(t *testing.T) {
	started := make(chan struct{})
	svc := &fakeService{}
	svc.genresHook = func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
	ed, _ := newEditor(t, svc)

	errc := make(chan error, 1)
	go func() { errc <- ed.Open(context.Background(), "") }()
	<-started
	ed.Cancel()

	assert.ErrorIs(t, <-errc, ErrSuperseded)
	assert.Equal(t, PhaseClosed, ed.Snapshot().Phase)
}

func TestEscape_OnlyWhenActive(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{})
	require.NoError(t, ed.Open(context.Background(), ""))

	ed.Escape(false)
	assert.Equal(t, PhaseOpen, ed.Snapshot().Phase)

	ed.Escape(true)
	assert.Equal(t, PhaseClosed, ed.Snapshot().Phase)
}

func TestToggleAttribute_Cycles(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{})
	require.NoError(t, ed.Open(context.Background(), ""))

	want := []mix.TriState{mix.Present, mix.Absent, mix.Unset}
	for _, w := range want {
		got, err := ed.ToggleAttribute("happy")
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err := ed.ToggleAttribute("grumpy")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestToggleAllGenres(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{genres: []string{"Rock", "Jazz", "Pop"}})
	require.NoError(t, ed.Open(context.Background(), ""))

	require.NoError(t, ed.ToggleGenre("Jazz"))
	require.NoError(t, ed.ToggleAllGenres())
	s := ed.Snapshot()
	assert.True(t, s.AllSelected())
	assert.Equal(t, []string{"Rock", "Jazz", "Pop"}, s.Selected)

	require.NoError(t, ed.ToggleAllGenres())
	assert.Empty(t, ed.Snapshot().Selected)

	// Toggling twice from a partial selection ends with everything cleared.
	require.NoError(t, ed.ToggleGenre("Pop"))
	require.NoError(t, ed.ToggleAllGenres())
	require.NoError(t, ed.ToggleAllGenres())
	assert.Empty(t, ed.Snapshot().Selected)

	assert.Error(t, ed.ToggleGenre("Polka"))
}

func TestSave_LateResultLeavesNewerOpenAlone(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	svc := &fakeService{
		bodies: map[string]string{"Other": `{"happy":"y"}`},
		saveHook: func() {
			once.Do(func() {
				close(started)
				<-release
			})
		},
	}
	ed, listing := newEditor(t, svc)
	require.NoError(t, ed.Open(context.Background(), ""))
	_, err := ed.ToggleAttribute("sad")
	require.NoError(t, err)

	saved := make(chan error, 1)
	go func() { saved <- ed.Save(context.Background()) }()
	<-started

	require.NoError(t, ed.Open(context.Background(), "Other"))
	require.Equal(t, PhaseOpen, ed.Snapshot().Phase)

	close(release)
	require.NoError(t, <-saved)

	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.False(t, s.Running)
	assert.Equal(t, "Other", s.Name)
	assert.Equal(t, mix.Present, attr(s, "happy"))
	require.Len(t, listing.shown, 1)

	// The newer dialog still saves normally.
	require.NoError(t, ed.Save(context.Background()))
	assert.Equal(t, PhaseClosed, ed.Snapshot().Phase)
}

func TestMutatorsRequireOpenDialog(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{})

	assert.ErrorIs(t, ed.SetName("x"), ErrNotEditable)
	assert.ErrorIs(t, ed.SetRange("bpm", 1, 2), ErrNotEditable)
	assert.ErrorIs(t, ed.ToggleAllGenres(), ErrNotEditable)
	_, err := ed.ToggleAttribute("happy")
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.ErrorIs(t, ed.Save(context.Background()), ErrNotEditable)
}

func TestSetRange(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{})
	require.NoError(t, ed.Open(context.Background(), ""))

	require.NoError(t, ed.SetRange("duration", 120, 0))
	assert.Error(t, ed.SetRange("duration", -1, 0))
	assert.ErrorIs(t, ed.SetRange("loudness", 1, 2), ErrUnknownKey)

	body, ok := ed.Encode()
	require.True(t, ok)
	assert.JSONEq(t, `{"format":"text","minduration":120}`, body)
}

func TestSave_NothingToSave(t *testing.T) {
	svc := &fakeService{}
	ed, listing := newEditor(t, svc)
	require.NoError(t, ed.Open(context.Background(), ""))

	assert.ErrorIs(t, ed.Save(context.Background()), ErrNothingToSave)
	assert.Empty(t, svc.saves)
	assert.Empty(t, listing.shown)
	assert.Equal(t, PhaseOpen, ed.Snapshot().Phase)
}

func TestSave_CreateEmitsListing(t *testing.T) {
	svc := &fakeService{
		genres: []string{"Rock"},
		result: json.RawMessage(`{"count":1,"item_loop":[{"text":"Song\nArtist","id":"t1"}]}`),
	}
	ed, listing := newEditor(t, svc)
	require.NoError(t, ed.Open(context.Background(), ""))
	require.NoError(t, ed.SetRange("duration", 120, 0))
	_, err := ed.ToggleAttribute("happy")
	require.NoError(t, err)
	require.NoError(t, ed.ToggleGenre("Rock"))

	require.NoError(t, ed.Save(context.Background()))

	require.Len(t, svc.saves, 1)
	assert.Equal(t, "", svc.saves[0].name)
	assert.JSONEq(t, `{"format":"text","minduration":120,"happy":"y","genre":["Rock"]}`, svc.saves[0].body)

	require.Len(t, listing.shown, 1)
	u := listing.shown[0]
	assert.Equal(t, "Smart Mix", u.Title)
	assert.Equal(t, ListingID, u.ID)
	assert.Len(t, u.Command, 5)
	require.Len(t, u.Payload.Items, 1)
	assert.Equal(t, "Song", u.Payload.Items[0].Title)

	assert.Equal(t, PhaseClosed, ed.Snapshot().Phase)
}

func TestSave_UpdateUsesName(t *testing.T) {
	svc := &fakeService{genres: []string{"Rock"}, result: json.RawMessage(`{}`)}
	ed, listing := newEditor(t, svc)
	require.NoError(t, ed.Open(context.Background(), ""))
	require.NoError(t, ed.SetName("  MyMix "))
	_, err := ed.ToggleAttribute("dark")
	require.NoError(t, err)

	require.NoError(t, ed.Save(context.Background()))

	require.Len(t, svc.saves, 1)
	assert.Equal(t, "MyMix", svc.saves[0].name)
	require.Len(t, listing.shown, 1)
	assert.Equal(t, "Smart Mix: MyMix", listing.shown[0].Title)
	assert.Contains(t, listing.shown[0].Command, "mix:MyMix")
}

func TestSave_FailureKeepsDialogOpen(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("boom")}
	ed, listing := newEditor(t, svc)
	require.NoError(t, ed.Open(context.Background(), ""))
	_, err := ed.ToggleAttribute("sad")
	require.NoError(t, err)

	err = ed.Save(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, listing.shown)

	s := ed.Snapshot()
	assert.Equal(t, PhaseOpen, s.Phase)
	assert.False(t, s.Running)
	assert.Equal(t, mix.Present, attr(s, "sad"))
}

func TestRemove_DeclinedSendsNothing(t *testing.T) {
	svc := &fakeService{}
	ed, listing := newEditor(t, svc)

	var prompt, action string
	confirm := ConfirmFunc(func(_ context.Context, p, a string) (bool, error) {
		prompt, action = p, a
		return false, nil
	})
	removed, err := ed.Remove(context.Background(), "7", "Chill", confirm)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, "Delete 'Chill'?", prompt)
	assert.Equal(t, "Delete", action)
	assert.Empty(t, svc.deletes)
	assert.Zero(t, listing.refreshes)
}

func TestRemove_ConfirmedRefreshes(t *testing.T) {
	svc := &fakeService{}
	ed, listing := newEditor(t, svc)
	yes := ConfirmFunc(func(context.Context, string, string) (bool, error) { return true, nil })

	removed, err := ed.Remove(context.Background(), "7", "Chill", yes)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"7"}, svc.deletes)
	assert.Equal(t, 1, listing.refreshes)
}

func TestRemove_FailureStillRefreshes(t *testing.T) {
	svc := &fakeService{deleteErr: errors.New("denied")}
	ed, listing := newEditor(t, svc)
	yes := ConfirmFunc(func(context.Context, string, string) (bool, error) { return true, nil })

	removed, err := ed.Remove(context.Background(), "7", "Chill", yes)
	require.Error(t, err)
	assert.True(t, removed)
	assert.Contains(t, err.Error(), "denied")
	assert.Equal(t, 1, listing.refreshes)
}

func TestRemove_RequiresID(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{})
	yes := ConfirmFunc(func(context.Context, string, string) (bool, error) { return true, nil })
	_, err := ed.Remove(context.Background(), " ", "Chill", yes)
	assert.Error(t, err)
}

func TestDecode_DropsUnknownGenres(t *testing.T) {
	ed, _ := newEditor(t, &fakeService{genres: []string{"Rock", "Jazz"}})
	require.NoError(t, ed.Open(context.Background(), ""))

	ed.Decode(mix.Definition{"genre": []any{"Polka", "Jazz", "Rock"}, "happy": "y"})
	s := ed.Snapshot()
	assert.Equal(t, []string{"Rock", "Jazz"}, s.Selected)
	assert.Equal(t, mix.Present, attr(s, "happy"))
}
