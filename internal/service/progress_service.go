package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"vocaboplay/internal/cache"
	"vocaboplay/internal/events"
	"vocaboplay/internal/models"
	"vocaboplay/internal/progress"
	"vocaboplay/internal/repository"
)

// SnapshotStore is the remote progress document store. Satisfied by
// *repository.ProgressRepository.
type SnapshotStore interface {
	Get(studentID int64) (models.ProgressSnapshot, error)
	Set(studentID int64, snap models.ProgressSnapshot) error
}

// PlayCounter records game usage. Satisfied by *repository.GameRepository.
type PlayCounter interface {
	IncrementPlayCount(slug string) error
}

// ProgressService applies activity results to a student's progress snapshot.
// The local cache is the source of truth for reads; the remote store is
// updated asynchronously and best-effort.
type ProgressService struct {
	store     SnapshotStore
	snapshots cache.SnapshotCache
	games     PlayCounter
	bus       *events.Bus

	pending sync.WaitGroup
}

// NewProgressService creates a new progress service
func NewProgressService(store SnapshotStore, snapshots cache.SnapshotCache, games PlayCounter, bus *events.Bus) *ProgressService {
	return &ProgressService{
		store:     store,
		snapshots: snapshots,
		games:     games,
		bus:       bus,
	}
}

// CurrentSnapshot returns the student's progress, preferring the local cache
// over the remote store. A student with no stored progress gets a fresh
// all-zero snapshot; this never fails.
func (s *ProgressService) CurrentSnapshot(studentID int64) models.ProgressSnapshot {
	if snap, ok := s.snapshots.Get(studentID); ok {
		return snap
	}

	snap, err := s.store.Get(studentID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Failed to read remote progress for student %d, using defaults: %v", studentID, err)
		}
		return progress.NewSnapshot()
	}

	// Warm the cache so later reads skip the store
	s.snapshots.Put(studentID, snap)
	return snap
}

// RecordActivity merges an activity result into the student's snapshot,
// persists it locally, schedules the remote write and publishes the updated
// snapshot to subscribers. The returned snapshot reflects the merged state
// regardless of remote store health.
func (s *ProgressService) RecordActivity(studentID int64, gameSlug string, update models.ProgressUpdate) models.ProgressSnapshot {
	current := s.CurrentSnapshot(studentID)
	next := progress.Apply(&current, update)

	// Local write is synchronous: the student must see the result immediately
	s.snapshots.Put(studentID, next)

	// Remote write is fire-and-forget; failures are logged, never retried,
	// and never roll back the local state
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.store.Set(studentID, next); err != nil {
			log.Printf("Failed to sync progress for student %d (local state kept): %v", studentID, err)
		}
		if gameSlug != "" && s.games != nil {
			if err := s.games.IncrementPlayCount(gameSlug); err != nil {
				log.Printf("Failed to count play of %q: %v", gameSlug, err)
			}
		}
	}()

	if s.bus != nil {
		s.bus.Publish(events.ProgressEvent{StudentID: studentID, Snapshot: next})
	}

	return next
}

// ResetStats replaces the student's progress with a fresh snapshot. Unlike
// activity recording this is an admin action, so the remote write is
// synchronous and its failure is reported.
func (s *ProgressService) ResetStats(studentID int64) (models.ProgressSnapshot, error) {
	zero := progress.NewSnapshot()

	s.snapshots.Put(studentID, zero)
	if err := s.store.Set(studentID, zero); err != nil {
		return zero, fmt.Errorf("failed to reset remote progress: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(events.ProgressEvent{StudentID: studentID, Snapshot: zero})
	}

	return zero, nil
}

// Flush blocks until all scheduled remote writes have completed. Used on
// shutdown and in tests.
func (s *ProgressService) Flush() {
	s.pending.Wait()
}
