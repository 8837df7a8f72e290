package service

import (
	"errors"
	"sync"
	"testing"
	"vocaboplay/internal/cache"
	"vocaboplay/internal/events"
	"vocaboplay/internal/models"
	"vocaboplay/internal/repository"
)

// fakeStore is an in-memory SnapshotStore that can be made to fail
type fakeStore struct {
	mu     sync.Mutex
	docs   map[int64]models.ProgressSnapshot
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[int64]models.ProgressSnapshot)}
}

func (f *fakeStore) Get(studentID int64) (models.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.docs[studentID]
	if !ok {
		return models.ProgressSnapshot{}, repository.ErrNotFound
	}
	return snap, nil
}

func (f *fakeStore) Set(studentID int64, snap models.ProgressSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.docs[studentID] = snap
	return nil
}

type fakeCounter struct {
	mu    sync.Mutex
	slugs []string
}

func (f *fakeCounter) IncrementPlayCount(slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slugs = append(f.slugs, slug)
	return nil
}

func intPtr(v int) *int { return &v }

func TestCurrentSnapshotDefaultsForUnknownStudent(t *testing.T) {
	svc := NewProgressService(newFakeStore(), cache.NewMemorySnapshots(), nil, nil)

	snap := svc.CurrentSnapshot(42)
	if snap.Level != 1 || snap.XP != 0 || snap.GamesPlayed != 0 {
		t.Errorf("expected fresh snapshot, got level=%d xp=%d games=%d", snap.Level, snap.XP, snap.GamesPlayed)
	}
}

func TestCurrentSnapshotPrefersCacheOverStore(t *testing.T) {
	store := newFakeStore()
	store.docs[7] = models.ProgressSnapshot{Level: 2, XP: 150}
	snapshots := cache.NewMemorySnapshots()
	snapshots.Put(7, models.ProgressSnapshot{Level: 3, XP: 250})

	svc := NewProgressService(store, snapshots, nil, nil)

	snap := svc.CurrentSnapshot(7)
	if snap.XP != 250 {
		t.Errorf("expected cached xp 250, got %d", snap.XP)
	}
}

func TestCurrentSnapshotWarmsCacheFromStore(t *testing.T) {
	store := newFakeStore()
	store.docs[7] = models.ProgressSnapshot{Level: 2, XP: 150}
	snapshots := cache.NewMemorySnapshots()

	svc := NewProgressService(store, snapshots, nil, nil)

	if snap := svc.CurrentSnapshot(7); snap.XP != 150 {
		t.Fatalf("expected remote xp 150, got %d", snap.XP)
	}
	if _, ok := snapshots.Get(7); !ok {
		t.Error("expected remote read to warm the cache")
	}
}

func TestRecordActivityWritesLocallyAndRemotely(t *testing.T) {
	store := newFakeStore()
	snapshots := cache.NewMemorySnapshots()
	counter := &fakeCounter{}
	svc := NewProgressService(store, snapshots, counter, events.NewBus())

	next := svc.RecordActivity(7, "quiz", models.ProgressUpdate{
		XP:          intPtr(120),
		GamesPlayed: intPtr(1),
	})
	svc.Flush()

	if next.XP != 120 || next.Level != 2 {
		t.Errorf("expected xp=120 level=2, got xp=%d level=%d", next.XP, next.Level)
	}
	if cached, ok := snapshots.Get(7); !ok || cached.XP != 120 {
		t.Error("expected local cache to hold the merged snapshot")
	}
	if remote, err := store.Get(7); err != nil || remote.XP != 120 {
		t.Errorf("expected remote store to hold the merged snapshot, got %+v err=%v", remote, err)
	}
	if len(counter.slugs) != 1 || counter.slugs[0] != "quiz" {
		t.Errorf("expected one play counted for quiz, got %v", counter.slugs)
	}
}

func TestRecordActivityKeepsLocalStateWhenRemoteFails(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("store down")
	snapshots := cache.NewMemorySnapshots()
	svc := NewProgressService(store, snapshots, nil, nil)

	next := svc.RecordActivity(7, "", models.ProgressUpdate{XP: intPtr(50)})
	svc.Flush()

	if next.XP != 50 {
		t.Errorf("expected merged xp 50 despite store failure, got %d", next.XP)
	}
	if cached, ok := snapshots.Get(7); !ok || cached.XP != 50 {
		t.Error("expected local cache to keep the optimistic state")
	}
	if store.sets != 1 {
		t.Errorf("expected exactly one store write attempt (no retry), got %d", store.sets)
	}
}

func TestRecordActivityPublishesEvent(t *testing.T) {
	bus := events.NewBus()
	var got []events.ProgressEvent
	bus.Subscribe(func(e events.ProgressEvent) { got = append(got, e) })

	svc := NewProgressService(newFakeStore(), cache.NewMemorySnapshots(), nil, bus)
	svc.RecordActivity(7, "", models.ProgressUpdate{XP: intPtr(30)})
	svc.Flush()

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].StudentID != 7 || got[0].Snapshot.XP != 30 {
		t.Errorf("unexpected event payload: %+v", got[0])
	}
}

func TestResetStatsZeroesEverything(t *testing.T) {
	store := newFakeStore()
	store.docs[7] = models.ProgressSnapshot{Level: 4, XP: 390, GamesPlayed: 12}
	snapshots := cache.NewMemorySnapshots()
	snapshots.Put(7, store.docs[7])

	svc := NewProgressService(store, snapshots, nil, nil)

	zero, err := svc.ResetStats(7)
	if err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	if zero.Level != 1 || zero.XP != 0 || zero.GamesPlayed != 0 {
		t.Errorf("expected zero snapshot, got %+v", zero)
	}
	if remote, _ := store.Get(7); remote.XP != 0 {
		t.Error("expected remote store to be reset")
	}
}

func TestResetStatsReportsRemoteFailure(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("store down")
	svc := NewProgressService(store, cache.NewMemorySnapshots(), nil, nil)

	if _, err := svc.ResetStats(7); err == nil {
		t.Error("expected error when remote reset fails")
	}
}
