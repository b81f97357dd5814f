package library

import (
	"reflect"
	"testing"

	"github.com/five82/learnai/internal/learnapi"
)

func snapshotOf(ids ...string) Snapshot {
	books := make([]learnapi.Book, len(ids))
	for i, id := range ids {
		books[i] = learnapi.Book{ID: id}
	}
	return Snapshot{Books: books}
}

func TestSelection_ToggleIsSelfInverse(t *testing.T) {
	s := NewSelection()
	if !s.Toggle("a") {
		t.Fatalf("Toggle(a) = false, want selected")
	}
	if s.Toggle("a") {
		t.Fatalf("second Toggle(a) = true, want deselected")
	}
	if s.IsSelected("a") || s.Len() != 0 {
		t.Fatalf("a still selected after double toggle")
	}

	s.Toggle("b")
	s.Toggle("c")
	s.Toggle("c")
	if !s.IsSelected("b") || s.IsSelected("c") || s.Len() != 1 {
		t.Fatalf("membership not restored: b=%v c=%v len=%d", s.IsSelected("b"), s.IsSelected("c"), s.Len())
	}
}

func TestSelection_ToggleIgnoresEmptyID(t *testing.T) {
	s := NewSelection()
	if s.Toggle("") || s.Len() != 0 {
		t.Fatalf("empty id should never be selected")
	}
}

func TestSelection_ZeroValueUsable(t *testing.T) {
	var s Selection
	s.Toggle("a")
	if !s.IsSelected("a") {
		t.Fatalf("zero-value selection lost toggle")
	}
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Clear()
	if s.Len() != 0 || s.IsSelected("a") {
		t.Fatalf("Clear left entries behind")
	}
}

func TestSelection_PruneDropsStaleIDs(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("gone")
	s.Toggle("b")

	dropped := s.Prune(snapshotOf("a", "b", "c"))
	if !reflect.DeepEqual(dropped, []string{"gone"}) {
		t.Fatalf("Prune dropped %v, want [gone]", dropped)
	}
	if s.IsSelected("gone") {
		t.Fatalf("stale id still selected")
	}
	if got := s.IDs(snapshotOf("a", "b", "c")); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("IDs = %v, want [a b]", got)
	}
}

func TestSelection_IDsFiltersAgainstSnapshotInPickOrder(t *testing.T) {
	s := NewSelection()
	s.Toggle("c")
	s.Toggle("x")
	s.Toggle("a")

	got := s.IDs(snapshotOf("a", "b", "c"))
	if !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("IDs = %v, want [c a]", got)
	}
	// IDs is read-only; the stale id remains until Prune.
	if !s.IsSelected("x") {
		t.Fatalf("IDs should not mutate the selection")
	}
}
