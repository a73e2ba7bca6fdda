// Package logtail reads the tail of the smartmix log for the log view.
//
// Read keeps only the last N lines in a ring buffer, so large files cost one
// sequential pass and O(N) memory. Parse turns a zerolog JSON record into an
// Entry with its time, level, message and remaining fields; anything that is
// not JSON is kept verbatim.
//
// Watch wraps fsnotify so the UI can reload the view when the file is
// written instead of polling it:
//
//	w, err := logtail.Watch(path)
//	for w.Next() {
//		entries, _ := logtail.ReadEntries(path, 400)
//		render(entries)
//	}
package logtail
