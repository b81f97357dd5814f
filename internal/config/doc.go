// Package config loads LearnAI's startup configuration.
//
// # Sources
//
// Values are resolved by viper in this order, highest first:
//
//  1. LEARNAI_* environment variables (LEARNAI_API_URL, LEARNAI_UPLOAD_SECRET, ...)
//  2. VITE_API_URL, for api_url only
//  3. The TOML file: the path passed to Load, else LEARNAI_CONFIG, else
//     ~/.config/learnai/config.toml
//  4. Built-in defaults
//
// A missing file is fine; a file that does not parse is an error.
//
// # Keys
//
//	api_url          backend base URL (default http://localhost:8000)
//	upload_secret    unlocks library management for the session
//	delete_secret    checked on every destructive action
//	log_file         diagnostic log (default ~/.local/state/learnai/learnai.log)
//	log_level        debug, info, warn or error (default info)
//	request_timeout  Go duration; 0 leaves requests unbounded (default 0)
//
// There are no built-in secrets. With either secret unset the access gate
// rejects every attempt at that level.
//
// Example:
//
//	api_url = "http://localhost:8000"
//	upload_secret = "change-me"
//	delete_secret = "change-me-too"
//	request_timeout = "90s"
//
// Paths beginning with ~ are expanded against the user's home directory.
package config
