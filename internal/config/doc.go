// Package config handles loading and parsing the Marquee client configuration.
//
// # Overview
//
// Marquee reads a small TOML file that tells it where the catalog REST
// resource lives and how the client should behave around it.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/marquee/config.toml
//   - API URL: http://localhost:3001/filmes
//   - Request timeout: 10s
//   - Notification lifetime: 3s
//   - Refresh interval: 0 (periodic reload off)
//   - Log file: ~/.local/state/marquee/marquee.log
//
// # TOML Format
//
//	api_url = "http://localhost:3001/filmes"
//	request_timeout = "10s"
//	notification_ttl = "3s"
//	refresh_interval = "0s"
//	log_file = "~/.local/state/marquee/marquee.log"
//	reconcile_on_delete_failure = false
//
// Every field is optional. Durations use Go duration syntax; an unparsable
// or negative duration is a load error, and zero selects the default.
// Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML syntax errors and invalid durations ("parse config: ...")
package config
