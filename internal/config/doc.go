// Package config loads the smartmix configuration file.
//
// # Overview
//
// smartmix needs to know which music server to talk to, which player (if
// any) to address commands to, the plugin command prefix, the UI language
// and where to write its log. All of it lives in a small TOML file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/smartmix/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/smartmix/config.toml
//   - Server: 127.0.0.1:9000
//   - Plugin: musicsimilarity
//   - Language: en
//   - Log file: ~/.local/state/smartmix/smartmix.log
//   - Log level: info
//   - Request timeout: 10s
//   - Poll interval: 30s (saved mix list refresh)
//   - Genre limit: 10000
//
// # TOML Format
//
//	server = "192.168.1.10:9000"
//	player = ""
//	plugin = "musicsimilarity"
//	language = "de"
//	log_file = "~/.local/state/smartmix/smartmix.log"
//	log_level = "debug"
//	request_timeout = "10s"
//	poll_interval = "30s"
//	genre_limit = 10000
//
// Every field is optional. Durations use Go duration syntax; zero or negative
// durations fall back to the default.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unparsable durations
//
// A missing config file is not an error.
package config
