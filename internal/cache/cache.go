// Package cache provides the local, best-effort copies of progress and
// profile data. The remote store stays the source of truth; these caches
// exist for immediate reads and for surviving restarts (the file-backed
// variants). Entries are read and overwritten whole per student.
package cache

import (
	"sync"

	"vocaboplay/internal/models"
)

// SnapshotCache is the local progress cache. Implementations must be safe
// for concurrent use.
type SnapshotCache interface {
	Get(studentID int64) (models.ProgressSnapshot, bool)
	Put(studentID int64, snap models.ProgressSnapshot)
	Delete(studentID int64)
}

// ProfileCache holds locally persisted profiles (the remember-me and
// session-scoped layers of profile resolution).
type ProfileCache interface {
	Get(studentID int64) (models.Profile, bool)
	Put(studentID int64, profile models.Profile)
	Delete(studentID int64)
}

// MemorySnapshots is an in-memory SnapshotCache.
type MemorySnapshots struct {
	mu        sync.RWMutex
	snapshots map[int64]models.ProgressSnapshot
}

// NewMemorySnapshots creates an empty in-memory snapshot cache.
func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{snapshots: make(map[int64]models.ProgressSnapshot)}
}

func (c *MemorySnapshots) Get(studentID int64) (models.ProgressSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[studentID]
	return snap, ok
}

func (c *MemorySnapshots) Put(studentID int64, snap models.ProgressSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[studentID] = snap
}

func (c *MemorySnapshots) Delete(studentID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, studentID)
}

// MemoryProfiles is an in-memory ProfileCache, used for session-scoped
// profiles and as a test double for the remember-me layer.
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[int64]models.Profile
}

// NewMemoryProfiles creates an empty in-memory profile cache.
func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: make(map[int64]models.Profile)}
}

func (c *MemoryProfiles) Get(studentID int64) (models.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	profile, ok := c.profiles[studentID]
	return profile, ok
}

func (c *MemoryProfiles) Put(studentID int64, profile models.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[studentID] = profile
}

func (c *MemoryProfiles) Delete(studentID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, studentID)
}
