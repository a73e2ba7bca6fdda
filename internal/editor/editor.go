package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/smartmix/internal/browse"
	"github.com/five82/smartmix/internal/lms"
	"github.com/five82/smartmix/internal/mix"
)

var (
	// ErrNothingToSave is returned by Save when no filter is set. Nothing is sent.
	ErrNothingToSave = errors.New("nothing to save")
	// ErrSuperseded is returned by Open when a later Open or a Cancel replaced it.
	ErrSuperseded = errors.New("open superseded")
	// ErrNotEditable is returned when the dialog is closed, loading or saving.
	ErrNotEditable = errors.New("editor is not editable")
	// ErrUnknownKey is returned for range or attribute keys outside the template.
	ErrUnknownKey = errors.New("unknown filter key")
)

// ListingID identifies listing updates produced by the editor.
const ListingID = "smartmix"

// Listing receives the results of editor actions.
type Listing interface {
	Show(update ListingUpdate)
	Refresh()
}

// ListingUpdate is emitted after a successful save.
type ListingUpdate struct {
	Title   string
	ID      string
	Command []string
	Payload browse.Payload
}

// Editor owns the state of the Smart Mix dialog. It is safe for concurrent
// use; Bubble Tea commands call it from their own goroutines.
type Editor struct {
	svc     lms.MixService
	listing Listing
	tr      mix.Translator
	logger  zerolog.Logger

	mu         sync.Mutex
	phase      Phase
	running    bool
	title      string
	name       string
	criteria   mix.Criteria
	vocabulary []string
	selected   map[string]struct{}
	gen        uint64
	cancelOpen context.CancelFunc
}

// New builds an Editor. A nil translator leaves strings in English.
func New(svc lms.MixService, listing Listing, tr mix.Translator, logger zerolog.Logger) *Editor {
	if tr == nil {
		tr = mix.Untranslated
	}
	return &Editor{
		svc:      svc,
		listing:  listing,
		tr:       tr,
		logger:   logger.With().Str("component", "editor").Logger(),
		criteria: mix.NewCriteria(tr),
		selected: make(map[string]struct{}),
	}
}

// Open loads the dialog. An empty name opens it for creating a new mix;
// otherwise the stored mix of that name is fetched and decoded. The dialog
// is shown even when the stored body is missing or malformed. A genre fetch
// failure also shows the dialog, with an empty vocabulary, and is returned.
func (e *Editor) Open(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	ctx, gen := e.begin(ctx, name)

	genres, genreErr := e.svc.FetchGenres(ctx)
	if !e.isCurrent(gen) {
		return ErrSuperseded
	}
	if genreErr != nil {
		e.logger.Warn().Err(genreErr).Msg("genre fetch failed")
		genres = nil
	}

	var def mix.Definition
	if name != "" {
		def = e.loadDefinition(ctx, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return ErrSuperseded
	}
	e.vocabulary = append([]string(nil), genres...)
	if def != nil {
		e.decodeLocked(def)
	}
	e.phase = PhaseOpen
	e.cancelOpen = nil
	if genreErr != nil {
		return fmt.Errorf("fetch genres: %w", genreErr)
	}
	return nil
}

// begin resets state for a new open and supersedes any open in flight.
func (e *Editor) begin(ctx context.Context, name string) (context.Context, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancelOpen != nil {
		e.cancelOpen()
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancelOpen = cancel
	e.gen++

	e.phase = PhaseLoading
	e.running = false
	e.criteria = mix.NewCriteria(e.tr)
	e.vocabulary = nil
	e.selected = make(map[string]struct{})
	e.name = name
	if name == "" {
		e.title = e.tr("Add new Smart Mix")
	} else {
		e.title = e.tr("Edit Smart Mix")
	}
	return ctx, e.gen
}

func (e *Editor) loadDefinition(ctx context.Context, name string) mix.Definition {
	body, err := e.svc.ReadMix(ctx, name)
	if err != nil {
		e.logger.Warn().Err(err).Str("mix", name).Msg("read mix failed")
		return nil
	}
	if strings.TrimSpace(body) == "" {
		return nil
	}
	def, err := mix.ParseDefinition(body)
	if err != nil {
		e.logger.Debug().Err(err).Str("mix", name).Msg("stored mix body ignored")
		return nil
	}
	return def
}

func (e *Editor) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.gen
}

// Cancel hides the dialog. A load in flight is abandoned. Cancel is ignored
// while a save is running.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

// Escape closes the dialog when it is the active dialog of its parent.
func (e *Editor) Escape(active bool) {
	if !active {
		return
	}
	e.Cancel()
}

func (e *Editor) closeLocked() {
	if e.phase == PhaseSaving || e.phase == PhaseClosed {
		return
	}
	if e.cancelOpen != nil {
		e.cancelOpen()
		e.cancelOpen = nil
	}
	e.gen++
	e.phase = PhaseClosed
	e.running = false
}

// SetName sets the mix name. An empty name saves as a new mix.
func (e *Editor) SetName(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editableLocked() {
		return ErrNotEditable
	}
	e.name = name
	return nil
}

// SetRange sets both bounds of the range filter key. Zero leaves a bound
// unconstrained.
func (e *Editor) SetRange(key string, min, max int) error {
	if min < 0 || max < 0 {
		return fmt.Errorf("range %s: bounds must not be negative", key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editableLocked() {
		return ErrNotEditable
	}
	for i := range e.criteria.Ranges {
		if e.criteria.Ranges[i].Key == key {
			e.criteria.Ranges[i].Min = min
			e.criteria.Ranges[i].Max = max
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// ToggleAttribute rotates the attribute key Unset -> Present -> Absent -> Unset
// and returns the new value.
func (e *Editor) ToggleAttribute(key string) (mix.TriState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editableLocked() {
		return mix.Unset, ErrNotEditable
	}
	for i := range e.criteria.Attributes {
		if e.criteria.Attributes[i].Key == key {
			next := e.criteria.Attributes[i].Val.Next()
			e.criteria.Attributes[i].Val = next
			return next, nil
		}
	}
	return mix.Unset, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// ToggleGenre flips one genre of the vocabulary in or out of the selection.
func (e *Editor) ToggleGenre(genre string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editableLocked() {
		return ErrNotEditable
	}
	if !contains(e.vocabulary, genre) {
		return fmt.Errorf("unknown genre %q", genre)
	}
	if _, ok := e.selected[genre]; ok {
		delete(e.selected, genre)
	} else {
		e.selected[genre] = struct{}{}
	}
	return nil
}

// ToggleAllGenres clears the selection when every genre is selected and
// selects the whole vocabulary otherwise.
func (e *Editor) ToggleAllGenres() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editableLocked() {
		return ErrNotEditable
	}
	if e.allSelectedLocked() {
		e.selected = make(map[string]struct{})
		return nil
	}
	e.selected = make(map[string]struct{}, len(e.vocabulary))
	for _, g := range e.vocabulary {
		e.selected[g] = struct{}{}
	}
	return nil
}

// Encode returns the MixDefinition JSON of the current state, or false when
// no filter is set.
func (e *Editor) Encode() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.criteriaLocked().Encode()
}

// Decode replaces the filter state with def. Genres outside the loaded
// vocabulary are dropped.
func (e *Editor) Decode(def mix.Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decodeLocked(def)
}

func (e *Editor) decodeLocked(def mix.Definition) {
	e.criteria.Decode(def, e.vocabulary)
	e.selected = make(map[string]struct{}, len(e.criteria.Genres))
	for _, g := range e.criteria.Genres {
		e.selected[g] = struct{}{}
	}
}

// Save encodes the state and creates or updates the mix. On success the
// listing receives the parsed result and the dialog closes. On failure the
// dialog stays open for another attempt. If Open starts while the save is in
// flight, the save still completes but leaves the newer dialog untouched.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.editableLocked() {
		e.mu.Unlock()
		return ErrNotEditable
	}
	body, ok := e.criteriaLocked().Encode()
	if !ok {
		e.mu.Unlock()
		return ErrNothingToSave
	}
	name := strings.TrimSpace(e.name)
	e.running = true
	e.phase = PhaseSaving
	gen := e.gen
	e.mu.Unlock()

	log := e.logger.With().Str("mix", name).Bool("create", name == "").Logger()
	res, err := e.svc.SaveMix(ctx, name, body)
	if err != nil {
		e.mu.Lock()
		if gen == e.gen {
			e.running = false
			e.phase = PhaseOpen
		}
		e.mu.Unlock()
		log.Error().Err(err).Msg("save mix failed")
		return fmt.Errorf("save mix: %w", err)
	}

	payload, err := browse.Parse(res.Result)
	if err != nil {
		log.Warn().Err(err).Msg("mix result not understood")
	}
	title := e.tr("Smart Mix")
	if name != "" {
		title = e.tr("Smart Mix: %1", name)
	}
	if e.listing != nil {
		e.listing.Show(ListingUpdate{
			Title:   title,
			ID:      ListingID,
			Command: res.Command,
			Payload: payload,
		})
	}
	log.Info().Int("items", payload.Count).Msg("mix saved")

	e.mu.Lock()
	if gen == e.gen {
		e.running = false
		e.phase = PhaseClosed
		e.gen++
	}
	e.mu.Unlock()
	return nil
}

func (e *Editor) editableLocked() bool {
	return e.phase == PhaseOpen && !e.running
}

func (e *Editor) allSelectedLocked() bool {
	if len(e.selected) != len(e.vocabulary) {
		return false
	}
	for _, g := range e.vocabulary {
		if _, ok := e.selected[g]; !ok {
			return false
		}
	}
	return true
}

// criteriaLocked returns a copy of the criteria with the selection in
// vocabulary order.
func (e *Editor) criteriaLocked() mix.Criteria {
	c := mix.Criteria{
		Ranges:     append([]mix.RangeFilter(nil), e.criteria.Ranges...),
		Attributes: append([]mix.Attribute(nil), e.criteria.Attributes...),
	}
	for _, g := range e.vocabulary {
		if _, ok := e.selected[g]; ok {
			c.Genres = append(c.Genres, g)
		}
	}
	return c
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
