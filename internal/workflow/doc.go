// Package workflow composes the library store, selection, access gate and
// the two session controllers into one Controller per process, and routes
// between the four views.
//
// Every mutation goes through the Controller so that the ordering rules hold
// in one place:
//
//   - a refresh always prunes the selection before anything reads it
//   - uploads need an unlocked gate; deletes check the delete secret first
//   - a server 401/403 on a mutation becomes an apperr.AuthError
//   - a successful mutation is followed by a refresh
//
// The TUI drives sessions through Start/Fetch/Resolve so that network work
// runs inside tea.Cmds; the CLI uses the one-shot Ask and Generate helpers.
package workflow
