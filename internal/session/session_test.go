package session

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	saved, err := store.Save(Session{Topic: "Ohm's law"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(saved.SessionID) != 8 {
		t.Fatalf("session id should be 8 chars, got %q", saved.SessionID)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", saved)
	}

	got, err := store.Get(saved.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Topic != "Ohm's law" || got.SessionID != saved.SessionID {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Get("deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session: got %v, want ErrNotFound", err)
	}
	// Malformed ids never touch the filesystem.
	for _, id := range []string{"", "nope", "../../etc/passwd", "DEADBEEF", "deadbeef9"} {
		if _, err := store.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q): got %v, want ErrNotFound", id, err)
		}
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	saved, err := store.Save(Session{Topic: "circuits"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	msgs := []map[string]any{{"role": "user", "content": "more detail please"}}
	updated, err := store.Update(saved.SessionID, "", "abc12345", msgs)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Topic != "circuits" {
		t.Fatalf("empty topic must not clear the stored one, got %q", updated.Topic)
	}
	if updated.LessonID != "abc12345" || len(updated.Messages) != 1 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Fatalf("UpdatedAt should move forward")
	}

	if _, err := store.Update("00000000", "x", "", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("updating a missing session: got %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	first, err := store.Save(Session{Topic: "first"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := store.Save(Session{Topic: "second"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	if all[0].SessionID != second.SessionID || all[1].SessionID != first.SessionID {
		t.Fatalf("list not newest-first: %s, %s", all[0].SessionID, all[1].SessionID)
	}
}
