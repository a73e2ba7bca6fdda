// Package lms provides a JSON-RPC client for the music server.
//
// # Overview
//
// The server exposes every CLI command over HTTP at /jsonrpc.js. A request
// names a player (empty for server-wide commands) and an argv list:
//
//	{"id": "<uuid>", "method": "slim.request", "params": ["", ["genres", 0, 10000]]}
//
// The reply carries the command output in its "result" member. Client keeps
// the result raw and each operation decodes its own shape.
//
// # Architecture
//
//   - client.go: transport (Command, List) and the Smart Mix operations
//   - types.go: result shapes for the commands the editor uses
//
// Dispatcher is the raw transport. MixService is the set of operations the
// editor depends on; tests substitute fakes for it.
//
//	editor.Editor ──> MixService ──┐
//	app poller    ──> FetchMixes ──┤
//	                               ↓
//	           Client.Command() / Client.List()  (Dispatcher)
//	                               │
//	                        Client.call()
//	                               │ POST /jsonrpc.js
//	                               ↓
//	                         music server
//
// # Commands
//
//	genres 0 <limit>                       genre vocabulary (genres_loop)
//	<plugin> readmix mix:<name>            stored body of a mix
//	<plugin> mix body:<json> menu:1 attrmix:1 [mix:<name>]
//	                                       build (and save) a mix
//	<plugin> delmix mix:<id>               delete a mix
//	<plugin> mixes                         list saved mixes (item_loop)
//
// <plugin> defaults to musicsimilarity and <limit> to 10000; both come from
// Options. SaveMix returns the argv it sent in SaveResult.Command, and the
// editor stores it on the listing it shows.
//
// # Request Lifecycle
//
// Every call:
//
//  1. Tags the request with a fresh UUID
//  2. POSTs with the caller's context and the client timeout
//  3. Logs argv, status and elapsed time at debug level
//  4. Rejects status codes >= 400 after draining the body
//  5. Decodes the envelope and checks the "error" member
//
// # Result Shapes
//
// The server is loose with types. Mix ids arrive as strings or numbers, so
// SavedMix.ID is a FlexString that accepts both. A null or missing result
// decodes to the zero value rather than an error. SavedMix.Name falls back
// to the id when the server sends no display text.
//
// # Configuration
//
// NewClient accepts "host:port" or a full URL; the path is always replaced
// with /jsonrpc.js. Options:
//
//   - Player: player id sent as the first param (empty for server-wide)
//   - Plugin: first argv token of the Smart Mix commands
//   - GenreLimit: page size for the genre query
//   - Timeout: per-request HTTP timeout (default 10s)
//   - Logger: zerolog logger tagged with component=lms
//
// # Error Handling
//
// HTTP failures, status codes >= 400 and undecodable bodies are returned as
// wrapped errors. A non-null "error" member wraps ErrServer:
//
//	if errors.Is(err, lms.ErrServer) {
//		// the server understood the request and refused it
//	}
//
// Nothing is retried here; callers decide. The poller backs off and the
// editor reports the failure in the dialog.
//
// # Usage Example
//
//	client, err := lms.NewClient("10.0.0.5:9000", lms.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	genres, err := client.FetchGenres(ctx)
//	body, err := client.ReadMix(ctx, "Chill")
//	res, err := client.SaveMix(ctx, "Chill", `{"genre":["Jazz"]}`)
//
// # Testing
//
// client_test.go runs the real Client against an httptest.Server that
// decodes the envelope and answers per argv. Editor tests fake MixService
// instead of the network.
package lms
