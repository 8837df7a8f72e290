package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// StudentRepository handles database operations for student accounts
type StudentRepository struct {
	db database.DBTX
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db database.DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, email, password_hash, name, avatar_color, bio, phone,
	oauth_provider, oauth_subject, is_admin, disabled, settings, created_at, updated_at`

// CreateStudent inserts a new student. The first account ever created
// becomes an admin.
func (r *StudentRepository) CreateStudent(email, passwordHash, name, avatarColor string) (*models.Student, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	isAdmin := count == 0

	settings := models.DefaultSettings()
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO students (email, password_hash, name, avatar_color, is_admin, settings)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name, avatarColor, isAdmin, string(settingsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return &models.Student{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		AvatarColor:  avatarColor,
		IsAdmin:      isAdmin,
		Settings:     settings,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetByEmail retrieves a student by email address; nil when absent
func (r *StudentRepository) GetByEmail(email string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE email = ?"
	return r.scanStudent(r.db.QueryRow(query, email))
}

// GetByID retrieves a student by ID; nil when absent
func (r *StudentRepository) GetByID(id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = ?"
	return r.scanStudent(r.db.QueryRow(query, id))
}

// GetByOAuth retrieves a student by linked OAuth identity; nil when absent
func (r *StudentRepository) GetByOAuth(provider, subject string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.scanStudent(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider attaches an OAuth identity to an existing account
func (r *StudentRepository) LinkOAuthProvider(studentID int64, provider, subject string) error {
	query := `
		UPDATE students
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, provider, subject, studentID)
	return err
}

// List returns all students, newest first, optionally filtered by a
// case-insensitive name/email search
func (r *StudentRepository) List(search string) ([]models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students"
	var args []interface{}
	if search != "" {
		query += " WHERE LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		student, err := r.scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

// UpdateProfile updates the editable profile fields
func (r *StudentRepository) UpdateProfile(id int64, name, avatarColor, bio, phone string, settings models.StudentSettings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		UPDATE students
		SET name = ?, avatar_color = ?, bio = ?, phone = ?, settings = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, name, avatarColor, bio, phone, string(settingsJSON), id)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return requireRowAffected(result)
}

// UpdatePassword replaces the stored password hash
func (r *StudentRepository) UpdatePassword(id int64, passwordHash string) error {
	query := "UPDATE students SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(result)
}

// SetDisabled enables or disables an account
func (r *StudentRepository) SetDisabled(id int64, disabled bool) error {
	query := "UPDATE students SET disabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, disabled, id)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a student account. Sessions and the progress document go
// with it via foreign key cascade.
func (r *StudentRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *StudentRepository) scanStudent(row *sql.Row) (*models.Student, error) {
	student, err := r.scanStudentRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return student, err
}

func (r *StudentRepository) scanStudentRow(row rowScanner) (*models.Student, error) {
	var student models.Student
	var settingsJSON string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&student.ID,
		&student.Email,
		&student.PasswordHash,
		&student.Name,
		&student.AvatarColor,
		&student.Bio,
		&student.Phone,
		&student.OAuthProvider,
		&student.OAuthSubject,
		&student.IsAdmin,
		&student.Disabled,
		&settingsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Missing or malformed settings fall back to documented defaults
	// rather than propagating a decode error into every caller.
	student.Settings = models.DefaultSettings()
	if settingsJSON != "" && settingsJSON != "{}" {
		if err := json.Unmarshal([]byte(settingsJSON), &student.Settings); err != nil {
			student.Settings = models.DefaultSettings()
		}
	}

	if createdAt.Valid {
		student.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		student.UpdatedAt = updatedAt.Time
	}

	return &student, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
