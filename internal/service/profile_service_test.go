package service

import (
	"testing"
	"vocaboplay/internal/cache"
	"vocaboplay/internal/events"
	"vocaboplay/internal/models"
)

func testStudent(id int64) *models.Student {
	return &models.Student{ID: id, Email: "kid@example.com", Name: "Kid", Settings: models.DefaultSettings()}
}

func TestResolveProfileDefaultsToZeroProgress(t *testing.T) {
	svc := NewProfileService(nil, newFakeStore(), cache.NewMemoryProfiles(), cache.NewMemoryProfiles())

	profile := svc.ResolveProfile(testStudent(1), false)
	if profile.Progress.Level != 1 || profile.Progress.XP != 0 {
		t.Errorf("expected zero progress, got level=%d xp=%d", profile.Progress.Level, profile.Progress.XP)
	}
	if profile.Progress.Achievements.FirstGame {
		t.Error("expected no achievements on a fresh profile")
	}
}

func TestResolveProfilePrefersRememberCache(t *testing.T) {
	remember := cache.NewMemoryProfiles()
	session := cache.NewMemoryProfiles()
	store := newFakeStore()
	store.docs[1] = models.ProgressSnapshot{Level: 2, XP: 100}
	remember.Put(1, models.Profile{Student: *testStudent(1), Progress: models.ProgressSnapshot{Level: 5, XP: 420}})
	session.Put(1, models.Profile{Student: *testStudent(1), Progress: models.ProgressSnapshot{Level: 3, XP: 200}})

	svc := NewProfileService(nil, store, remember, session)

	profile := svc.ResolveProfile(testStudent(1), true)
	if profile.Progress.XP != 420 {
		t.Errorf("expected remember-me cache to win, got xp=%d", profile.Progress.XP)
	}
}

func TestResolveProfileFallsBackToSessionCacheThenStore(t *testing.T) {
	remember := cache.NewMemoryProfiles()
	session := cache.NewMemoryProfiles()
	store := newFakeStore()
	store.docs[1] = models.ProgressSnapshot{Level: 2, XP: 100}
	session.Put(1, models.Profile{Student: *testStudent(1), Progress: models.ProgressSnapshot{Level: 3, XP: 200}})

	svc := NewProfileService(nil, store, remember, session)

	if profile := svc.ResolveProfile(testStudent(1), false); profile.Progress.XP != 200 {
		t.Errorf("expected session cache to win over store, got xp=%d", profile.Progress.XP)
	}

	session.Delete(1)
	if profile := svc.ResolveProfile(testStudent(1), false); profile.Progress.XP != 100 {
		t.Errorf("expected store fallback, got xp=%d", profile.Progress.XP)
	}
}

func TestResolveProfileRefreshesIdentityFields(t *testing.T) {
	session := cache.NewMemoryProfiles()
	stale := *testStudent(1)
	stale.Name = "Old Name"
	session.Put(1, models.Profile{Student: stale, Progress: models.ProgressSnapshot{Level: 2, XP: 150}})

	svc := NewProfileService(nil, newFakeStore(), cache.NewMemoryProfiles(), session)

	current := testStudent(1)
	current.Name = "New Name"
	profile := svc.ResolveProfile(current, false)
	if profile.Student.Name != "New Name" {
		t.Errorf("expected identity refresh, got name %q", profile.Student.Name)
	}
	if profile.Progress.XP != 150 {
		t.Errorf("expected cached progress kept, got xp=%d", profile.Progress.XP)
	}
}

func TestApplyProgressUpdatesCachedProfiles(t *testing.T) {
	remember := cache.NewMemoryProfiles()
	session := cache.NewMemoryProfiles()
	remember.Put(1, models.Profile{Student: *testStudent(1)})
	session.Put(1, models.Profile{Student: *testStudent(1)})

	svc := NewProfileService(nil, newFakeStore(), remember, session)
	svc.ApplyProgress(events.ProgressEvent{StudentID: 1, Snapshot: models.ProgressSnapshot{Level: 2, XP: 130}})

	if p, _ := remember.Get(1); p.Progress.XP != 130 {
		t.Error("expected remember-me cache refreshed")
	}
	if p, _ := session.Get(1); p.Progress.XP != 130 {
		t.Error("expected session cache refreshed")
	}
}

func TestEvictSessionKeepsRememberCache(t *testing.T) {
	remember := cache.NewMemoryProfiles()
	session := cache.NewMemoryProfiles()
	remember.Put(1, models.Profile{Student: *testStudent(1)})
	session.Put(1, models.Profile{Student: *testStudent(1)})

	svc := NewProfileService(nil, newFakeStore(), remember, session)
	svc.EvictSession(1)

	if _, ok := session.Get(1); ok {
		t.Error("expected session cache entry removed")
	}
	if _, ok := remember.Get(1); !ok {
		t.Error("expected remember-me cache entry kept")
	}
}
