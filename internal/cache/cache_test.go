package cache

import (
	"path/filepath"
	"testing"

	"vocaboplay/internal/models"
)

func TestMemorySnapshotsRoundTrip(t *testing.T) {
	c := NewMemorySnapshots()

	if _, ok := c.Get(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	snap := models.ProgressSnapshot{Level: 2, XP: 150, WordsLearned: 12}
	c.Put(1, snap)

	got, ok := c.Get(1)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.XP != 150 || got.WordsLearned != 12 {
		t.Errorf("got %+v, want %+v", got, snap)
	}

	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Error("expected miss after Delete")
	}
}

func TestMemorySnapshotsOverwritesWhole(t *testing.T) {
	c := NewMemorySnapshots()
	c.Put(7, models.ProgressSnapshot{Level: 3, XP: 250, Streak: 4})
	c.Put(7, models.ProgressSnapshot{Level: 1, XP: 10})

	got, _ := c.Get(7)
	if got.Streak != 0 {
		t.Errorf("Put must overwrite the whole snapshot, got streak %d", got.Streak)
	}
}

func TestFileSnapshotsPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	c, err := NewFileSnapshots(path)
	if err != nil {
		t.Fatalf("NewFileSnapshots: %v", err)
	}
	c.Put(42, models.ProgressSnapshot{
		Level:        2,
		XP:           120,
		Achievements: models.Achievements{FirstGame: true},
	})

	reopened, err := NewFileSnapshots(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, ok := reopened.Get(42)
	if !ok {
		t.Fatal("expected snapshot to survive reopen")
	}
	if got.XP != 120 || !got.Achievements.FirstGame {
		t.Errorf("got %+v after reopen", got)
	}
}

func TestFileSnapshotsMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	c, err := NewFileSnapshots(path)
	if err != nil {
		t.Fatalf("NewFileSnapshots: %v", err)
	}
	if _, ok := c.Get(1); ok {
		t.Error("expected empty cache for a missing file")
	}
}

func TestFileProfilesPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	c, err := NewFileProfiles(path)
	if err != nil {
		t.Fatalf("NewFileProfiles: %v", err)
	}
	c.Put(9, models.Profile{
		Student:  models.Student{ID: 9, Name: "Ana", Email: "ana@example.com"},
		Progress: models.ProgressSnapshot{Level: 1, XP: 30},
	})

	reopened, err := NewFileProfiles(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, ok := reopened.Get(9)
	if !ok {
		t.Fatal("expected profile to survive reopen")
	}
	if got.Student.Name != "Ana" || got.Progress.XP != 30 {
		t.Errorf("got %+v after reopen", got)
	}
}
