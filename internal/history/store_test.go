package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"subfetch/internal/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(candidate string) pipeline.Record {
	return pipeline.Record{
		RunID:       "run-1",
		VideoPath:   "/media/movie.mkv",
		HashHex:     "8e245d9679d31e12",
		CandidateID: candidate,
		Language:    "en",
		Score:       8.5,
		SavedPath:   "/media/movie.en.srt",
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		if err := store.Record(ctx, sampleRecord(id)); err != nil {
			t.Fatalf("Record(%s) failed: %v", id, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].CandidateID != "C" || entries[1].CandidateID != "B" {
		t.Fatalf("unexpected order: %s, %s", entries[0].CandidateID, entries[1].CandidateID)
	}
	entry := entries[0]
	if entry.HashHex != "8e245d9679d31e12" || entry.Language != "en" || entry.Score != 8.5 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.CreatedAt.IsZero() || time.Since(entry.CreatedAt) > time.Minute {
		t.Fatalf("created_at not recorded: %v", entry.CreatedAt)
	}
}

func TestForHash(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, sampleRecord("A")); err != nil {
		t.Fatal(err)
	}
	other := sampleRecord("B")
	other.HashHex = "0000000000000001"
	if err := store.Record(ctx, other); err != nil {
		t.Fatal(err)
	}

	entries, err := store.ForHash(ctx, "8e245d9679d31e12")
	if err != nil {
		t.Fatalf("ForHash failed: %v", err)
	}
	if len(entries) != 1 || entries[0].CandidateID != "A" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B"} {
		if err := store.Record(ctx, sampleRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	defer func() { _ = first.Close() }()

	if _, err := Open(dbPath); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReopenPreservesEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(context.Background(), sampleRecord("A")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	entries, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}
