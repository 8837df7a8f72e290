package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"vocaboplay/internal/credentials"
	"vocaboplay/internal/models"
	"vocaboplay/internal/repository"
	"vocaboplay/internal/security"
	"vocaboplay/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	studentRepo        *repository.StudentRepository
	sessionRepo        *repository.SessionRepository
	sessionDuration    time.Duration
	rememberMeDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(studentRepo *repository.StudentRepository, sessionRepo *repository.SessionRepository, sessionDuration, rememberMeDuration time.Duration) *AuthService {
	return &AuthService{
		studentRepo:        studentRepo,
		sessionRepo:        sessionRepo,
		sessionDuration:    sessionDuration,
		rememberMeDuration: rememberMeDuration,
	}
}

// Register creates a new student account
func (s *AuthService) Register(email, password, confirmation, name string) (*models.Student, error) {
	// Validate inputs
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidatePasswordConfirmation(password, confirmation); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	// Check if email already exists
	existing, err := s.studentRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// Hash password
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatarColor, err := credentials.RandomAvatarColor()
	if err != nil {
		return nil, fmt.Errorf("failed to pick avatar color: %w", err)
	}

	student, err := s.studentRepo.CreateStudent(email, passwordHash, name, avatarColor)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}

// Login authenticates a student and creates a session. With rememberMe the
// session gets the long-lived expiry.
func (s *AuthService) Login(email, password string, rememberMe bool) (*models.Session, *models.Student, error) {
	student, err := s.studentRepo.GetByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, student.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if student.Disabled {
		return nil, nil, ErrAccountDisabled
	}

	session, err := s.createSession(student.ID, rememberMe)
	if err != nil {
		return nil, nil, err
	}

	return session, student, nil
}

// ValidateSession checks if a session is valid and returns the associated
// student along with the session record itself.
func (s *AuthService) ValidateSession(sessionID string) (*models.Student, *models.Session, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.sessionRepo.Delete(sessionID)
		return nil, nil, ErrSessionExpired
	}

	student, err := s.studentRepo.GetByID(session.StudentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, nil, ErrSessionNotFound
	}
	if student.Disabled {
		_ = s.sessionRepo.Delete(sessionID)
		return nil, nil, ErrAccountDisabled
	}

	return student, session, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ChangePassword re-authenticates with the current password, stores the new
// hash and revokes every existing session for the student. The caller is
// expected to issue a fresh session afterwards.
func (s *AuthService) ChangePassword(studentID int64, currentPassword, newPassword, confirmation string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrSessionNotFound
	}

	if !security.CheckPassword(currentPassword, student.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	if err := validation.ValidatePasswordConfirmation(newPassword, confirmation); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.studentRepo.UpdatePassword(studentID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	// All sessions are revoked on password change, including the current one
	if err := s.sessionRepo.DeleteForStudent(studentID); err != nil {
		return nil, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return student, nil
}

// CreateSessionFor issues a new session for an already-authenticated student.
// Used after password changes and OAuth callbacks.
func (s *AuthService) CreateSessionFor(studentID int64, rememberMe bool) (*models.Session, error) {
	return s.createSession(studentID, rememberMe)
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.sessionRepo.DeleteExpired(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a student using an OAuth provider
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Student, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	student, err := s.studentRepo.GetByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth student: %w", err)
	}

	if student == nil {
		existing, err := s.studentRepo.GetByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing student: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.studentRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			student = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			// OAuth accounts never use this hash, it just keeps the column non-empty
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			avatarColor, err := credentials.RandomAvatarColor()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to pick avatar color: %w", err)
			}
			created, err := s.studentRepo.CreateStudent(email, randomPasswordHash, name, avatarColor)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth student: %w", err)
			}
			if err := s.studentRepo.LinkOAuthProvider(created.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			student = created
		}
	}

	if student.Disabled {
		return nil, nil, ErrAccountDisabled
	}

	session, err := s.createSession(student.ID, false)
	if err != nil {
		return nil, nil, err
	}

	return session, student, nil
}

func (s *AuthService) createSession(studentID int64, rememberMe bool) (*models.Session, error) {
	duration := s.sessionDuration
	if rememberMe {
		duration = s.rememberMeDuration
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(duration)

	session, err := s.sessionRepo.Create(sessionID, studentID, rememberMe, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}
