package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/smartmix/internal/lms"
	"github.com/five82/smartmix/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

type mixLister interface {
	FetchMixes(ctx context.Context) ([]lms.SavedMix, error)
}

// StartPoller launches a background goroutine that refreshes the saved mix
// list. After failures it waits longer between attempts, up to maxBackoff.
// A refresh request on the store triggers an immediate reload. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client mixLister, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-store.RefreshRequests():
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			refresh(ctx, store, client, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff. Zero failures polls at base.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func refresh(ctx context.Context, store *state.Store, client mixLister, logger zerolog.Logger) {
	mixes, err := client.FetchMixes(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.UpdateMixes(nil, err)
		logger.Warn().Err(err).Msg("mix list poll failed")
		return
	}
	store.UpdateMixes(mixes, nil)
}
