// Package app is the composition root for stayfinder.
//
// Run loads .env files and the TOML config, opens the client log, restores
// saved preferences, builds the API client and the shared state.Store, then
// either prints a single search as a card grid (list mode) or starts the TUI.
//
// # Session polling
//
// When a token is present the session is verified once before the first
// frame and then re-checked in the background. Network failures back off
// exponentially up to five minutes and count toward the store's offline
// indicator. A rejected token signs the user out without counting as a
// failure.
//
// # Errors
//
// Config, log and client setup errors are returned from Run. Everything that
// happens after the UI starts is logged and surfaced in the UI instead.
package app
