package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vocaboplay/internal/models"
	"vocaboplay/internal/security"
)

func TestCSRFProtectAcceptsValidToken(t *testing.T) {
	csrf := security.NewCSRFGenerator("test-secret")
	m := NewMiddleware(nil, csrf, nil)

	session := &models.Session{ID: "sess-1", StudentID: 1}
	token, err := csrf.GenerateToken(session.ID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	called := false
	handler := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/profile", nil)
	r.Header.Set(CSRFHeaderName, token)
	r = r.WithContext(context.WithValue(r.Context(), SessionContextKey, session))

	recorder := httptest.NewRecorder()
	handler(recorder, r)

	if !called {
		t.Fatalf("expected handler to run, got status %d", recorder.Code)
	}
}

func TestCSRFProtectRejectsMissingOrForeignToken(t *testing.T) {
	csrf := security.NewCSRFGenerator("test-secret")
	m := NewMiddleware(nil, csrf, nil)

	session := &models.Session{ID: "sess-1", StudentID: 1}
	otherToken, err := csrf.GenerateToken("sess-2")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"token for another session", otherToken},
		{"garbage token", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not run")
			})

			r := httptest.NewRequest(http.MethodPost, "/api/profile", nil)
			if tt.token != "" {
				r.Header.Set(CSRFHeaderName, tt.token)
			}
			r = r.WithContext(context.WithValue(r.Context(), SessionContextKey, session))

			recorder := httptest.NewRecorder()
			handler(recorder, r)

			if recorder.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", recorder.Code)
			}
		})
	}
}

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	m := NewMiddleware(nil, nil, limiter)

	handler := m.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler(recorder, r)
		statuses = append(statuses, recorder.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("expected first two requests allowed, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request limited, got %v", statuses)
	}
}

func TestContextGettersReturnNilWhenAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetStudentFromContext(r.Context()) != nil {
		t.Error("expected nil student for empty context")
	}
	if GetSessionFromContext(r.Context()) != nil {
		t.Error("expected nil session for empty context")
	}
}
