package conversation

import (
	"fmt"
	"testing"
)

func TestStore_AppendAndRecent(t *testing.T) {
	store := NewStoreWithCapacity(10)

	for i := 0; i < 14; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		store.Append("s1", Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	got := store.Recent("s1", 10)
	if len(got) != 10 {
		t.Fatalf("expected window of 10, got %d", len(got))
	}
	// Oldest first within the window: turns 4..13.
	if got[0].Content != "turn 4" || got[9].Content != "turn 13" {
		t.Errorf("window bounds wrong: first=%q last=%q", got[0].Content, got[9].Content)
	}
}

func TestStore_RecentFewerThanLimit(t *testing.T) {
	store := NewStoreWithCapacity(10)
	store.Append("s1", Turn{Role: "user", Content: "only one"})

	got := store.Recent("s1", 10)
	if len(got) != 1 || got[0].Content != "only one" {
		t.Fatalf("unexpected history: %+v", got)
	}
}

func TestStore_UnknownSession(t *testing.T) {
	store := NewStoreWithCapacity(10)
	if got := store.Recent("missing", 10); got != nil {
		t.Errorf("expected nil for unknown session, got %+v", got)
	}
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := NewStoreWithCapacity(2)

	store.Append("a", Turn{Role: "user", Content: "1"})
	store.Append("b", Turn{Role: "user", Content: "1"})

	// Touch "a" so "b" becomes the eviction candidate.
	store.Recent("a", 10)

	store.Append("c", Turn{Role: "user", Content: "1"})

	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	if store.Recent("b", 10) != nil {
		t.Error("expected session b to be evicted")
	}
	if store.Recent("a", 10) == nil || store.Recent("c", 10) == nil {
		t.Error("expected sessions a and c to survive")
	}
}

func TestStore_RecentReturnsCopy(t *testing.T) {
	store := NewStoreWithCapacity(2)
	store.Append("s", Turn{Role: "user", Content: "original"})

	got := store.Recent("s", 10)
	got[0].Content = "mutated"

	again := store.Recent("s", 10)
	if again[0].Content != "original" {
		t.Error("Recent leaked internal slice")
	}
}
