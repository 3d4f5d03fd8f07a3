// Package config loads stayfinder client settings.
//
// # Resolution Order
//
//  1. Defaults (api_url 127.0.0.1:5000, log_dir ~/.local/share/stayfinder, 30s poll)
//  2. ~/.config/stayfinder/config.toml, or the path passed to Load
//  3. Environment: STAYFINDER_API_URL, STAYFINDER_LOG_DIR, STAYFINDER_TOKEN
//
// LoadDotEnv copies a .env file into the environment before Load runs, without
// replacing variables that are already set.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:5000"
//	log_dir = "~/.local/share/stayfinder"
//	poll_seconds = 30
//
// Every field is optional. Tilde paths are expanded and the poll interval is
// clamped to at least five seconds.
package config
