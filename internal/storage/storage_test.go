package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/hailam/chessboard/internal/board"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	t.Run("Defaults", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences failed: %v", err)
		}
		if prefs.Orientation != "white" || !prefs.Animations || !prefs.ShowCoordinates {
			t.Errorf("Expected default preferences, got %+v", prefs)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		if err := s.SavePreferences(&Preferences{Orientation: "black", Animations: false}); err != nil {
			t.Fatalf("SavePreferences failed: %v", err)
		}
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences failed: %v", err)
		}
		if prefs.Orientation != "black" || prefs.Animations {
			t.Errorf("Expected saved preferences, got %+v", prefs)
		}
		if prefs.LastUsed.IsZero() {
			t.Error("Expected LastUsed to be stamped on save")
		}
	})
}

func TestSessions(t *testing.T) {
	s := openTest(t)

	if _, err := s.LastSession(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession before any save, got %v", err)
	}
	if _, err := s.LoadSession(uuid.New()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession for unknown id, got %v", err)
	}

	first := NewSession(board.StartFEN)
	second := NewSession(board.EmptyFEN)
	if first.ID == second.ID {
		t.Fatal("Expected distinct session ids")
	}
	for _, sess := range []*Session{first, second} {
		if err := s.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	got, err := s.LoadSession(first.ID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if got.FEN != board.StartFEN {
		t.Errorf("Expected start FEN, got %q", got.FEN)
	}

	last, err := s.LastSession()
	if err != nil {
		t.Fatalf("LastSession failed: %v", err)
	}
	if last.ID != second.ID {
		t.Errorf("Expected last session %s, got %s", second.ID, last.ID)
	}
}

func TestDrops(t *testing.T) {
	s := openTest(t)
	sess := NewSession(board.StartFEN)
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	moves := []Drop{
		{From: "e2", To: "e4", Piece: "wp4", FEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"},
		{From: "e7", To: "e5", Piece: "bp4"},
	}
	for i := 0; i < 12; i++ { // past ten, so key ordering matters
		d := moves[i%2]
		rec, err := s.RecordDrop(sess, d)
		if err != nil {
			t.Fatalf("RecordDrop failed: %v", err)
		}
		if rec.Seq != i+1 {
			t.Errorf("Expected seq %d, got %d", i+1, rec.Seq)
		}
	}

	drops, err := s.Drops(sess.ID)
	if err != nil {
		t.Fatalf("Drops failed: %v", err)
	}
	if len(drops) != 12 {
		t.Fatalf("Expected 12 drops, got %d", len(drops))
	}
	for i, d := range drops {
		if d.Seq != i+1 {
			t.Errorf("Expected drops in recording order, index %d has seq %d", i, d.Seq)
		}
	}

	got, err := s.LoadSession(sess.ID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if got.DropCount != 12 || got.FEN != moves[0].FEN {
		t.Errorf("Expected session updated by drops, got %+v", got)
	}

	other, err := s.Drops(uuid.New())
	if err != nil || len(other) != 0 {
		t.Errorf("Expected no drops for another session, got %v, %v", other, err)
	}
}

func TestOpenDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	sess := NewSession(board.StartFEN)
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = OpenDir(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	last, err := s.LastSession()
	if err != nil {
		t.Fatalf("LastSession after reopen failed: %v", err)
	}
	if last.ID != sess.ID {
		t.Errorf("Expected session to survive reopen")
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
}
