// Package config loads runlog's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/runlog/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	api_url = "https://api.github.com"
//	token_env = "GITHUB_TOKEN"
//	log_level = "debug"
//	log_file = "~/.local/state/runlog/runlog.log"
//	show_timestamps = false
//	poll_seconds = 10
//
// Every field is optional. The token is read from the environment variable
// named by token_env and is never written to disk.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors ("parse config: ..."). A missing
// file is not an error.
package config
