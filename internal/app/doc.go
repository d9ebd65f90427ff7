// Package app is the composition root for the Marquee client.
//
// Run loads configuration and preferences, opens the log file, builds
// the REST client and the list/edit controller, optionally starts the
// periodic reload poller, and then hands the controller to the TUI. It
// blocks until the user quits or the context is cancelled.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      ~/.config/marquee/config.toml
//	       ├─────> prefs.Load()       theme and kind filter
//	       ├─────> openLogger()       slog text handler on log_file
//	       ├─────> api.NewClient()    REST client for api_url
//	       ├─────> controller.New()   list/edit workflow
//	       ├─────> StartPoller()      only when refresh_interval > 0
//	       └─────> ui.Run()           TUI (blocks)
//
// # Polling
//
// The poller reloads the catalog on a timer. Consecutive failures double
// the wait up to 30 seconds, and a success resets it. A cycle is skipped
// while the controller is already loading or saving.
//
// # Errors
//
// Configuration, log file and client setup errors are fatal and returned
// from Run. Load and save failures during the session are shown in the
// UI and written to the log.
package app
