package repository

import (
	"database/sql"
	"fmt"
	"time"

	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

// SessionRepository handles database operations for sessions
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(sessionID string, studentID int64, rememberMe bool, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, student_id, remember_me, expires_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, sessionID, studentID, rememberMe, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:         sessionID,
		StudentID:  studentID,
		RememberMe: rememberMe,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}, nil
}

// Get retrieves a session by ID; nil when absent
func (r *SessionRepository) Get(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, student_id, remember_me, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	var createdAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.StudentID,
		&session.RememberMe,
		&session.ExpiresAt,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if createdAt.Valid {
		session.CreatedAt = createdAt.Time
	}
	return session, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteForStudent removes all sessions belonging to a student, forcing
// re-authentication everywhere (used after password changes)
func (r *SessionRepository) DeleteForStudent(studentID int64) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE student_id = ?", studentID)
	return err
}

// DeleteExpired removes all expired sessions
func (r *SessionRepository) DeleteExpired() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	return err
}
