package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/smartmix/internal/browse"
	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/lms"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Mixes               []lms.SavedMix
	HasMixes            bool
	Listing             editor.ListingUpdate
	HasListing          bool
	ListingShownAt      time.Time
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The zero value is
// ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	refresh  chan struct{}
}

var _ editor.Listing = (*Store)(nil)

// UpdateMixes replaces the saved mix list. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) UpdateMixes(mixes []lms.SavedMix, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Mixes = cloneMixes(mixes)
	s.snapshot.HasMixes = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Show records the listing produced by a save.
func (s *Store) Show(update editor.ListingUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Listing = cloneListing(update)
	s.snapshot.HasListing = true
	s.snapshot.ListingShownAt = time.Now()
}

// Refresh asks the poller to reload the saved mix list. Requests made while
// one is pending are merged.
func (s *Store) Refresh() {
	select {
	case s.refreshChan() <- struct{}{}:
	default:
	}
}

// RefreshRequests delivers a value whenever Refresh was called.
func (s *Store) RefreshRequests() <-chan struct{} {
	return s.refreshChan()
}

func (s *Store) refreshChan() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refresh == nil {
		s.refresh = make(chan struct{}, 1)
	}
	return s.refresh
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Mixes = cloneMixes(s.snapshot.Mixes)
	snap.Listing = cloneListing(s.snapshot.Listing)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneMixes(items []lms.SavedMix) []lms.SavedMix {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lms.SavedMix, len(items))
	copy(dup, items)
	return dup
}

func cloneListing(u editor.ListingUpdate) editor.ListingUpdate {
	out := u
	if len(u.Command) > 0 {
		out.Command = append([]string(nil), u.Command...)
	}
	if len(u.Payload.Items) > 0 {
		out.Payload.Items = append([]browse.Item(nil), u.Payload.Items...)
	}
	return out
}
