package models

import "time"

// Student represents a learner account in the system
type Student struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	AvatarColor   string
	Bio           string
	Phone         string
	OAuthProvider string
	OAuthSubject  string
	IsAdmin       bool
	Disabled      bool
	Settings      StudentSettings
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StudentSettings holds per-student preferences stored alongside the account
type StudentSettings struct {
	SoundEnabled  bool   `json:"soundEnabled"`
	DailyGoalXP   int    `json:"dailyGoalXP"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
}

// DefaultSettings returns the settings applied to a brand-new account
func DefaultSettings() StudentSettings {
	return StudentSettings{
		SoundEnabled:  true,
		DailyGoalXP:   50,
		Language:      "en",
		Notifications: true,
	}
}

// Profile combines a student's identity with their current progress
type Profile struct {
	Student  Student
	Progress ProgressSnapshot
}

// Session represents an authenticated session
type Session struct {
	ID         string
	StudentID  int64
	RememberMe bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
