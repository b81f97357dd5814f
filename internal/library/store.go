package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/five82/learnai/internal/learnapi"
)

// Lister is the part of the transport the store needs.
type Lister interface {
	ListBooks(ctx context.Context) ([]learnapi.Book, error)
}

// Snapshot is an immutable point-in-time copy of the library.
type Snapshot struct {
	Books       []learnapi.Book
	Version     uint64 // increments on every successful refresh
	LastUpdated time.Time
	LastError   error
}

// Len returns the number of books.
func (s Snapshot) Len() int { return len(s.Books) }

// Contains reports whether id is in the snapshot.
func (s Snapshot) Contains(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// Find returns the book with id.
func (s Snapshot) Find(id string) (learnapi.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return learnapi.Book{}, false
}

// IDs returns book ids in server order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Books))
	for i, b := range s.Books {
		ids[i] = b.ID
	}
	return ids
}

// Store holds the canonical book list shared by every screen.
type Store struct {
	api Lister

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore builds a store that refreshes from api.
func NewStore(api Lister) *Store {
	return &Store{api: api}
}

// Refresh fetches the list and replaces the snapshot wholesale. On failure
// the previous books are kept and the error is recorded and returned.
// Concurrent refreshes are not deduplicated; the last to resolve wins.
func (s *Store) Refresh(ctx context.Context) (Snapshot, error) {
	if s.api == nil {
		return s.Current(), fmt.Errorf("library store has no transport")
	}
	books, err := s.api.ListBooks(ctx)
	if err != nil {
		s.fail(err)
		return s.Current(), err
	}
	return s.Replace(books), nil
}

// Replace installs books as the new snapshot. Duplicate ids keep their first
// occurrence.
func (s *Store) Replace(books []learnapi.Book) Snapshot {
	next := dedupe(books)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{
		Books:       next,
		Version:     s.snapshot.Version + 1,
		LastUpdated: time.Now(),
	}
	return s.cloneLocked()
}

// Current returns a copy of the latest snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	return snap
}

func dedupe(books []learnapi.Book) []learnapi.Book {
	if len(books) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(books))
	out := make([]learnapi.Book, 0, len(books))
	for _, b := range books {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}

func cloneBooks(books []learnapi.Book) []learnapi.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]learnapi.Book, len(books))
	copy(dup, books)
	return dup
}
