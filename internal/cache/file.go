package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"vocaboplay/internal/models"
)

// FileSnapshots is a SnapshotCache persisted to a single JSON file so
// progress survives restarts. Writes are best-effort: a persistence
// failure is logged and the in-memory state stays authoritative until the
// next write.
type FileSnapshots struct {
	mu        sync.Mutex
	path      string
	snapshots map[string]models.ProgressSnapshot
}

// NewFileSnapshots loads (or creates) the snapshot cache at path.
func NewFileSnapshots(path string) (*FileSnapshots, error) {
	c := &FileSnapshots{
		path:      path,
		snapshots: make(map[string]models.ProgressSnapshot),
	}
	if err := loadJSONFile(path, &c.snapshots); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileSnapshots) Get(studentID int64) (models.ProgressSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snapshots[cacheKey(studentID)]
	return snap, ok
}

func (c *FileSnapshots) Put(studentID int64, snap models.ProgressSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[cacheKey(studentID)] = snap
	if err := writeJSONFile(c.path, c.snapshots); err != nil {
		log.Printf("Failed to persist snapshot cache: %v", err)
	}
}

func (c *FileSnapshots) Delete(studentID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, cacheKey(studentID))
	if err := writeJSONFile(c.path, c.snapshots); err != nil {
		log.Printf("Failed to persist snapshot cache: %v", err)
	}
}

// FileProfiles is a ProfileCache persisted to a single JSON file. It backs
// the remember-me layer of profile resolution.
type FileProfiles struct {
	mu       sync.Mutex
	path     string
	profiles map[string]models.Profile
}

// NewFileProfiles loads (or creates) the profile cache at path.
func NewFileProfiles(path string) (*FileProfiles, error) {
	c := &FileProfiles{
		path:     path,
		profiles: make(map[string]models.Profile),
	}
	if err := loadJSONFile(path, &c.profiles); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileProfiles) Get(studentID int64) (models.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile, ok := c.profiles[cacheKey(studentID)]
	return profile, ok
}

func (c *FileProfiles) Put(studentID int64, profile models.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[cacheKey(studentID)] = profile
	if err := writeJSONFile(c.path, c.profiles); err != nil {
		log.Printf("Failed to persist profile cache: %v", err)
	}
}

func (c *FileProfiles) Delete(studentID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, cacheKey(studentID))
	if err := writeJSONFile(c.path, c.profiles); err != nil {
		log.Printf("Failed to persist profile cache: %v", err)
	}
}

func cacheKey(studentID int64) string {
	return strconv.FormatInt(studentID, 10)
}

// loadJSONFile decodes path into target; a missing file is not an error.
func loadJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

// writeJSONFile writes target to path atomically via a temp file rename.
func writeJSONFile(path string, source interface{}) error {
	data, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
