// Package state shares server data between background work and the UI.
//
// # Overview
//
// Store holds the latest list of saved mixes and the most recent save
// listing. Three parties touch it: the poller writes the mix list, the
// editor writes save results, and the UI reads copies on its own tick.
// None of them wait on each other beyond a short mutex hold.
//
// # Architecture
//
//	Poller goroutine:           Editor (tea.Cmd goroutine):
//	┌──────────────────┐        ┌──────────────────────┐
//	│ FetchMixes()     │        │ Save() / Remove()    │
//	│      ↓           │        │      ↓               │
//	│ UpdateMixes()    │        │ Show() / Refresh()   │
//	└────────┬─────────┘        └──────────┬───────────┘
//	         │        (RWMutex)            │
//	         └──────────→ Store ←──────────┘
//	                        │
//	                        ↓
//	                   Snapshot()  ← UI tick
//
// Refresh is the only path that flows the other way. It posts to a one-slot
// channel returned by RefreshRequests, which the poller selects on next to
// its timer.
//
// # Core Types
//
// Store:
//   - Ready to use as a zero value
//   - Implements editor.Listing (Show and Refresh)
//   - Guards the snapshot with a sync.RWMutex
//
// Snapshot:
//   - Mixes and HasMixes: last successful mix list
//   - Listing, HasListing and ListingShownAt: last save result
//   - LastUpdated, LastError and ConsecutiveFailures: poll health
//
// # Update Semantics
//
//	// Success: replace the list, clear the error
//	store.UpdateMixes(mixes, nil)
//	→ snapshot.Mixes = mixes
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the list, record the error
//	store.UpdateMixes(nil, err)
//	→ snapshot.Mixes = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// LastUpdated moves forward in both cases. Snapshot.IsOffline reports true
// from the second consecutive failure, so a single dropped request does not
// flip the header to offline.
//
// Show replaces the listing wholesale and stamps ListingShownAt. The UI
// compares that stamp against the one it last rendered to notice a new
// result.
//
// # Refresh Coalescing
//
// Refresh never blocks. If a request is already pending the call is a
// no-op:
//
//	store.Refresh()  // slot empty → request queued
//	store.Refresh()  // slot full  → dropped
//	<-store.RefreshRequests()    // poller fetches once
//
// The editor calls Refresh after a delete; the poller's next fetch then
// removes the mix from the list.
//
// # Copying
//
// UpdateMixes, Show and Snapshot all copy what they are given or return:
//
//   - Mix slices are cloned
//   - Listing command argv and payload items are cloned
//   - The error is rewrapped so callers never share the stored value
//
// Callers may mutate anything they receive.
//
// # Usage Example
//
//	store := &state.Store{}
//	ed := editor.New(client, store, tr.T, logger)
//	app.StartPoller(ctx, store, client, 30*time.Second, logger)
//
//	// UI tick:
//	snap := store.Snapshot()
//	if snap.IsOffline() {
//		renderOffline(snap.LastError)
//	}
//
// # Testing
//
// A zero Store needs no setup and Snapshot returns a zero Snapshot until
// the first write. Tests drain RefreshRequests with a non-blocking select
// to assert coalescing.
package state
