package service

import (
	"errors"
	"fmt"
	"log"
	"vocaboplay/internal/cache"
	"vocaboplay/internal/events"
	"vocaboplay/internal/models"
	"vocaboplay/internal/progress"
	"vocaboplay/internal/repository"
	"vocaboplay/internal/validation"
)

// ProfileService assembles student profiles from the cache layers and the
// remote store. Remembered students resolve from the long-lived file cache,
// everyone else from the per-session cache; a student no layer knows about
// gets a profile with all-zero progress.
type ProfileService struct {
	studentRepo      *repository.StudentRepository
	store            SnapshotStore
	rememberProfiles cache.ProfileCache
	sessionProfiles  cache.ProfileCache
}

// NewProfileService creates a new profile service
func NewProfileService(studentRepo *repository.StudentRepository, store SnapshotStore, rememberProfiles, sessionProfiles cache.ProfileCache) *ProfileService {
	return &ProfileService{
		studentRepo:      studentRepo,
		store:            store,
		rememberProfiles: rememberProfiles,
		sessionProfiles:  sessionProfiles,
	}
}

// ResolveProfile returns the student's profile. Lookup order: remember-me
// cache, session cache, remote store, then a synthesized default. This never
// fails; a broken store degrades to zero progress.
func (s *ProfileService) ResolveProfile(student *models.Student, rememberMe bool) models.Profile {
	if profile, ok := s.rememberProfiles.Get(student.ID); ok {
		// Identity fields may have changed since the profile was cached
		profile.Student = *student
		s.cacheProfile(profile, rememberMe)
		return profile
	}
	if profile, ok := s.sessionProfiles.Get(student.ID); ok {
		profile.Student = *student
		s.cacheProfile(profile, rememberMe)
		return profile
	}

	profile := models.Profile{Student: *student}
	snap, err := s.store.Get(student.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Failed to read remote progress for student %d, using defaults: %v", student.ID, err)
		}
		profile.Progress = progress.NewSnapshot()
	} else {
		profile.Progress = snap
	}

	s.cacheProfile(profile, rememberMe)
	return profile
}

// UpdateProfile applies profile edits and writes them through to the store.
// The cached copy is updated before the write, so a store failure surfaces as
// an error without discarding the edit; the caller may retry.
func (s *ProfileService) UpdateProfile(student *models.Student, rememberMe bool, name, avatarColor, bio, phone string, settings models.StudentSettings) (models.Profile, error) {
	profile := s.ResolveProfile(student, rememberMe)

	if err := validation.ValidateName(name); err != nil {
		return profile, err
	}
	if settings.DailyGoalXP < 0 {
		settings.DailyGoalXP = 0
	}

	profile.Student.Name = name
	profile.Student.AvatarColor = avatarColor
	profile.Student.Bio = bio
	profile.Student.Phone = phone
	profile.Student.Settings = settings

	// Keep the edit locally even if the write-through fails
	s.cacheProfile(profile, rememberMe)

	if err := s.studentRepo.UpdateProfile(student.ID, name, avatarColor, bio, phone, settings); err != nil {
		return profile, fmt.Errorf("failed to save profile: %w", err)
	}

	return profile, nil
}

// ApplyProgress refreshes cached profiles when a progress event arrives.
// Wired to the event bus at startup.
func (s *ProfileService) ApplyProgress(event events.ProgressEvent) {
	if profile, ok := s.rememberProfiles.Get(event.StudentID); ok {
		profile.Progress = event.Snapshot
		s.rememberProfiles.Put(event.StudentID, profile)
	}
	if profile, ok := s.sessionProfiles.Get(event.StudentID); ok {
		profile.Progress = event.Snapshot
		s.sessionProfiles.Put(event.StudentID, profile)
	}
}

// EvictSession drops the per-session cached profile. Called on logout; the
// remember-me cache is left alone so remembered students keep their fast path.
func (s *ProfileService) EvictSession(studentID int64) {
	s.sessionProfiles.Delete(studentID)
}

// Forget drops the student from every cache layer. Called when an account is
// deleted or disabled.
func (s *ProfileService) Forget(studentID int64) {
	s.rememberProfiles.Delete(studentID)
	s.sessionProfiles.Delete(studentID)
}

func (s *ProfileService) cacheProfile(profile models.Profile, rememberMe bool) {
	if rememberMe {
		s.rememberProfiles.Put(profile.Student.ID, profile)
		return
	}
	s.sessionProfiles.Put(profile.Student.ID, profile)
}
