package library

import "sync"

// Selection tracks book ids chosen for bulk deletion. Insertion order is kept
// so the ids go to the server in the order the user picked them.
type Selection struct {
	mu    sync.Mutex
	order []string
	set   map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[string]struct{})}
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if _, ok := s.set[id]; ok {
		s.removeLocked(id)
		return false
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.set = make(map[string]struct{})
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

// Len returns the raw selection size, stale ids included.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Prune drops every id that is not in snap and returns the dropped ids.
func (s *Selection) Prune(snap Snapshot) []string {
	valid := make(map[string]struct{}, len(snap.Books))
	for _, b := range snap.Books {
		valid[b.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped []string
	for _, id := range append([]string(nil), s.order...) {
		if _, ok := valid[id]; !ok {
			s.removeLocked(id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// IDs returns the selected ids that are present in snap. Stale ids never
// leave this method.
func (s *Selection) IDs(snap Snapshot) []string {
	valid := make(map[string]struct{}, len(snap.Books))
	for _, b := range snap.Books {
		valid[b.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := valid[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Selection) init() {
	if s.set == nil {
		s.set = make(map[string]struct{})
	}
}

func (s *Selection) removeLocked(id string) {
	delete(s.set, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
