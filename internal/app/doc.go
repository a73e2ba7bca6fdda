// Package app is the composition root for smartmix.
//
// # Overview
//
// This package turns configuration into running collaborators. The cobra
// subcommands call Setup and use the returned Env directly; the default
// command calls Run, which additionally starts background polling and the
// Bubble Tea UI.
//
// # Architecture
//
// Setup follows a fixed order:
//
//  1. Load the TOML config (~/.config/smartmix/config.toml by default)
//  2. Apply command-line overrides (server, log level, poll interval)
//  3. Open the zerolog log file and optional console writer
//  4. Build the JSON-RPC client for the music server
//  5. Pick a translator for the configured language
//  6. Create the shared state.Store and the mix editor on top of it
//  7. Load UI preferences (theme and last opened mix)
//
// # Components
//
//   - app.go: Options, Env, Setup and Run
//   - poller.go: background goroutine that reloads the saved mix list
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Setup()          config, logging, client, store, editor
//	       ├─────> refresh()        first mix list before the UI draws
//	       ├─────> StartPoller()    background reloads
//	       └─────> ui.Run()         TUI (blocks)
//
//	Poller loop:
//	┌──────────────────────────────────────────┐
//	│ select timer or store.RefreshRequests()  │
//	│  ├─> client.FetchMixes()                 │
//	│  ├─> store.UpdateMixes()                 │
//	│  └─> timer.Reset(calculateBackoff(...))  │
//	└──────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller reloads on its interval (poll_interval, default 30s) and
// immediately whenever the editor requests a refresh after a delete. A
// pending timer is drained before the refresh so the two sources never
// double up.
//
// Consecutive failures double the wait, capped at maxBackoff:
//
//	failures  wait (2s base)
//	0         2s
//	1         4s
//	2         8s
//	4+        30s
//
// A successful fetch resets the count and the interval.
//
// # Error Handling
//
// Fatal errors (returned from Setup or Run):
//   - Config file present but invalid
//   - Log file cannot be opened or the level is unknown
//   - Server address cannot be parsed
//
// Recoverable errors (recorded in the store and logged):
//   - Mix list fetch failures during polling
//   - Server unreachable at startup
//
// A fetch that fails because the context was cancelled is not recorded, so
// shutdown never paints an error.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{Server: "10.0.0.5:9000"}); err != nil {
//		log.Fatal(err)
//	}
//
//	// Non-interactive use:
//	env, err := app.Setup(app.Options{})
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//	mixes, err := env.Client.FetchMixes(ctx)
//
// # Dependencies
//
//   - config: TOML settings
//   - logging: zerolog setup
//   - lms: JSON-RPC client
//   - i18n: translated UI strings
//   - editor: Smart Mix dialog controller
//   - state: snapshot store shared with the UI
//   - prefs: persisted theme and last mix
//   - ui: Bubble Tea program
package app
