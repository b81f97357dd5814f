// Package library holds the client-side view of the book library.
//
// # Store
//
// Store is the single source of truth for every screen. It is refreshed
// explicitly (on startup, after an upload, after a delete) and never polls.
//
//	store.Refresh(ctx)
//	→ ListBooks()
//	→ success: snapshot replaced wholesale, Version++
//	→ failure: books kept, LastError recorded, error returned
//
// Readers get a Snapshot by value with a cloned book slice, so a snapshot can
// be held across renders without locking. Concurrent refreshes are not
// deduplicated; whichever response resolves last is the one readers see.
//
// # Selection
//
// Selection is the set of ids picked for bulk deletion. It may briefly hold
// ids that a refresh has since removed (another client deleted the book).
// Two rules keep those from reaching the server:
//
//   - Prune(snapshot) runs after every refresh and drops stale ids
//   - IDs(snapshot) filters against the snapshot it is given
package library
