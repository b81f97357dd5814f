// Package app is the composition root for LearnAI.
//
// # Overview
//
// Open turns a config file into a ready workflow.Controller:
//
//  1. config.Load reads ~/.config/learnai/config.toml and LEARNAI_* overrides
//  2. diag.Open appends JSON diagnostics to the configured log file
//  3. learnapi.NewClient builds the HTTP transport for api_url
//  4. workflow.New wires the library, gate, sessions and router around it
//
// The returned Env is shared by the cobra commands in internal/cli. The TUI
// is one more consumer: Env.RunTUI loads prefs.toml and hands the controller
// to ui.Run.
//
// # Refresh Behavior
//
// Nothing polls. The library is fetched when the TUI starts, after every
// successful upload or delete, and when the user asks for it.
//
// # Error Handling
//
// Open fails on a bad config (unparseable TOML, invalid api_url, bad
// duration) or an unwritable log directory. Missing secrets are not fatal:
// the gate refuses every attempt and a warning goes to the log.
//
// # Usage Example
//
//	env, err := app.Open(app.Options{})
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//	return env.RunTUI(ctx)
package app
