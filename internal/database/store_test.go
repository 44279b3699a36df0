package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/edgard/nexabot/internal/logger"
	"github.com/edgard/nexabot/internal/preferences"
)

func newTestStore(t *testing.T) *PreferenceStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "prefs.db"), logger.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { Close(db, logger.Discard()) })
	return NewPreferenceStore(db, nil)
}

func TestPreferenceStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Get(ctx, 10); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	first := preferences.Preferences{Language: "bn"}
	if err := s.Set(ctx, 10, first); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	second := preferences.Preferences{Language: "bn", Sentiment: "positive", ResponseType: "good"}
	if err := s.Set(ctx, 10, second); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}

	got, ok, err := s.Get(ctx, 10)
	if err != nil || !ok {
		t.Fatalf("Get() ok %v, err %v", ok, err)
	}
	if got != second {
		t.Errorf("Get() = %+v, want %+v", got, second)
	}

	if err := s.Delete(ctx, 10); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, 10); ok {
		t.Error("record still present after Delete")
	}

	if err := s.RunMaintenance(ctx); err != nil {
		t.Errorf("RunMaintenance() error = %v", err)
	}
}

func TestPreferenceStoreRejectsZeroChat(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	if err := s.Set(context.Background(), 0, preferences.Preferences{}); !errors.Is(err, preferences.ErrInvalidChatID) {
		t.Errorf("Set(0) error = %v, want ErrInvalidChatID", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.db")
	db, err := Open(path, logger.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	var journal string
	if err := db.Get(&journal, "PRAGMA journal_mode;"); err != nil {
		t.Fatalf("journal_mode query error = %v", err)
	}
	if journal != "wal" {
		t.Errorf("journal_mode = %q, want wal", journal)
	}
	var busy int
	if err := db.Get(&busy, "PRAGMA busy_timeout;"); err != nil {
		t.Fatalf("busy_timeout query error = %v", err)
	}
	if busy != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busy)
	}

	ctx := context.Background()
	if err := NewPreferenceStore(db, nil).Set(ctx, 3, preferences.Preferences{Language: "en"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	Close(db, logger.Discard())

	reopened, err := Open(path, logger.Discard())
	if err != nil {
		t.Fatalf("reopening Open() error = %v", err)
	}
	t.Cleanup(func() { Close(reopened, logger.Discard()) })

	got, ok, err := NewPreferenceStore(reopened, nil).Get(ctx, 3)
	if err != nil || !ok || got.Language != "en" {
		t.Errorf("Get() after reopen = %+v, %v, %v", got, ok, err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  ", logger.Discard()); err == nil {
		t.Error("Open(\"  \") expected error")
	}
}
