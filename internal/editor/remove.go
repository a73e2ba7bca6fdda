package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Confirmer asks the user to approve a destructive action. It returns false
// when the user declines.
type Confirmer interface {
	Confirm(ctx context.Context, prompt, action string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt, action string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt, action string) (bool, error) {
	return f(ctx, prompt, action)
}

// Remove deletes the saved mix id after the user confirms and reports whether
// a delete was sent. A declined prompt sends nothing. Once confirmed the
// listing is refreshed whether or not the server accepted the delete; a
// delete failure is still returned.
func (e *Editor) Remove(ctx context.Context, id, name string, confirm Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, errors.New("remove mix: id is required")
	}
	if confirm == nil {
		return false, errors.New("remove mix: no confirmer")
	}
	ok, err := confirm.Confirm(ctx, e.tr("Delete '%1'?", name), e.tr("Delete"))
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		e.logger.Debug().Str("mix", name).Msg("delete declined")
		return false, nil
	}

	raw, err := e.svc.DeleteMix(ctx, id)
	if e.listing != nil {
		e.listing.Refresh()
	}
	if err != nil {
		e.logger.Error().Err(err).Str("mix", name).Str("id", id).Msg("delete mix failed")
		return true, fmt.Errorf("delete mix %q: %w", name, err)
	}
	ev := e.logger.Info().Str("mix", name).Str("id", id)
	if len(raw) > 0 {
		ev = ev.RawJSON("response", raw)
	}
	ev.Msg("mix deleted")
	return true, nil
}
