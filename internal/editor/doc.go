// Package editor implements the Smart Mix dialog controller.
//
// An Editor holds the working criteria of one dialog: the mix name, the
// range filters, the attribute tri-states and the genre selection drawn from
// the server's genre vocabulary. Open loads the vocabulary and, when editing,
// the stored definition. Save encodes the criteria and sends them to the
// similarity plugin; the result is handed to a Listing. Remove deletes a
// saved mix after confirmation.
//
// Only the latest Open may complete. An earlier one in flight is cancelled
// and returns ErrSuperseded without touching state.
package editor
