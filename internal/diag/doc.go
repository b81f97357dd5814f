// Package diag is the diagnostic sink: a slog JSON logger that writes to a
// file, and a tail reader that turns the newest lines back into something a
// person can scan.
//
// Tail keeps a ring of maxLines entries so memory stays O(maxLines) however
// large the log grows. Parse and Entry.Format are used by the Home screen
// and `learnai logs`; lines written by something other than slog pass
// through unchanged.
package diag
