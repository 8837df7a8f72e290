package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"vocaboplay/internal/cache"
	"vocaboplay/internal/events"
	"vocaboplay/internal/models"
	"vocaboplay/internal/repository"
	"vocaboplay/internal/service"
)

type memoryStore struct {
	mu   sync.Mutex
	docs map[int64]models.ProgressSnapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[int64]models.ProgressSnapshot)}
}

func (m *memoryStore) Get(studentID int64) (models.ProgressSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.docs[studentID]
	if !ok {
		return models.ProgressSnapshot{}, repository.ErrNotFound
	}
	return snap, nil
}

func (m *memoryStore) Set(studentID int64, snap models.ProgressSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[studentID] = snap
	return nil
}

func authedRequest(method, target, body string, student *models.Student) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(r.Context(), StudentContextKey, student)
	ctx = context.WithValue(ctx, SessionContextKey, &models.Session{ID: "test-session", StudentID: student.ID})
	return r.WithContext(ctx)
}

func TestRecordActivityMergesAndResponds(t *testing.T) {
	store := newMemoryStore()
	progressService := service.NewProgressService(store, cache.NewMemorySnapshots(), nil, events.NewBus())
	handler := NewActivityHandler(progressService)

	student := &models.Student{ID: 9, Name: "Kid"}
	body := `{"game":"quiz","xp":120,"gamesPlayed":1,"quiz":{"quizzesTaken":1,"bestScore":80}}`
	recorder := httptest.NewRecorder()

	handler.Record(recorder, authedRequest(http.MethodPost, "/api/activity", body, student))
	progressService.Flush()

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp struct {
		Success bool                    `json:"success"`
		Data    models.ProgressSnapshot `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success envelope")
	}
	if resp.Data.XP != 120 || resp.Data.Level != 2 {
		t.Errorf("expected xp=120 level=2, got xp=%d level=%d", resp.Data.XP, resp.Data.Level)
	}
	if !resp.Data.Achievements.FirstGame {
		t.Error("expected firstGame achievement after one game")
	}
	if resp.Data.Quiz.QuizzesTaken != 1 {
		t.Errorf("expected quiz stats replaced, got %+v", resp.Data.Quiz)
	}

	if remote, err := store.Get(9); err != nil || remote.XP != 120 {
		t.Errorf("expected remote store synced, got %+v err=%v", remote, err)
	}
}

func TestRecordActivityLeavesAbsentFieldsUntouched(t *testing.T) {
	store := newMemoryStore()
	store.docs[9] = models.ProgressSnapshot{Level: 2, XP: 150, Streak: 4, GamesPlayed: 3}
	progressService := service.NewProgressService(store, cache.NewMemorySnapshots(), nil, nil)
	handler := NewActivityHandler(progressService)

	student := &models.Student{ID: 9}
	recorder := httptest.NewRecorder()
	handler.Record(recorder, authedRequest(http.MethodPost, "/api/activity", `{"game":"","xp":200}`, student))
	progressService.Flush()

	var resp struct {
		Data models.ProgressSnapshot `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Streak != 4 || resp.Data.GamesPlayed != 3 {
		t.Errorf("expected untouched counters kept, got %+v", resp.Data)
	}
	if resp.Data.XP != 200 || resp.Data.Level != 3 {
		t.Errorf("expected xp replaced and level derived, got xp=%d level=%d", resp.Data.XP, resp.Data.Level)
	}
}

func TestRecordActivityRejectsMalformedBody(t *testing.T) {
	progressService := service.NewProgressService(newMemoryStore(), cache.NewMemorySnapshots(), nil, nil)
	handler := NewActivityHandler(progressService)

	recorder := httptest.NewRecorder()
	handler.Record(recorder, authedRequest(http.MethodPost, "/api/activity", `{"xp":"lots"}`, &models.Student{ID: 9}))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestProgressEndpointReturnsCurrentSnapshot(t *testing.T) {
	store := newMemoryStore()
	store.docs[9] = models.ProgressSnapshot{Level: 2, XP: 180}
	progressService := service.NewProgressService(store, cache.NewMemorySnapshots(), nil, nil)
	handler := NewActivityHandler(progressService)

	recorder := httptest.NewRecorder()
	handler.Progress(recorder, authedRequest(http.MethodGet, "/api/progress", "", &models.Student{ID: 9}))

	var resp struct {
		Data models.ProgressSnapshot `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.XP != 180 {
		t.Errorf("expected xp 180, got %d", resp.Data.XP)
	}
}
