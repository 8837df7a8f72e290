package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"vocaboplay/internal/security"
	"vocaboplay/internal/service"
	"vocaboplay/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	profileService       *service.ProfileService
	emailService         *service.EmailService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, emailService *service.EmailService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		profileService:       profileService,
		emailService:         emailService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

type registerRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	Name                 string `json:"name"`
	RememberMe           bool   `json:"rememberMe"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"currentPassword"`
	NewPassword             string `json:"newPassword"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation"`
}

type sessionPayload struct {
	Profile   ProfileView `json:"profile"`
	CSRFToken string      `json:"csrfToken"`
}

// Register creates a new account and signs the student in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	student, err := h.authService.Register(req.Email, req.Password, req.PasswordConfirmation, req.Name)
	if err != nil {
		h.respondAuthError(w, err, "Registration failed")
		return
	}

	// Welcome email is best-effort; registration already succeeded
	go func() {
		if err := h.emailService.SendWelcomeEmail(context.Background(), student.Email, student.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", student.Email, err)
		}
	}()

	session, err := h.authService.CreateSessionFor(student.ID, req.RememberMe)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create session after registration", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	h.respondSession(w, r, http.StatusCreated, session.ID, req.RememberMe, student.ID)
}

// Login authenticates a student and issues a session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	session, student, err := h.authService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		h.respondAuthError(w, err, "Login failed")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	h.respondSession(w, r, http.StatusOK, session.ID, req.RememberMe, student.ID)
}

// Logout invalidates the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	student := GetStudentFromContext(r.Context())

	if err := h.authService.Logout(session.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Logout failed", err)
		return
	}
	h.profileService.EvictSession(student.ID)

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondMessage(w, http.StatusOK, "Logged out")
}

// Me returns the signed-in student's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	profile := h.profileService.ResolveProfile(student, session.RememberMe)
	respondSuccess(w, http.StatusOK, toProfileView(profile))
}

// CSRFToken returns a fresh CSRF token bound to the current session
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	token, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// ChangePassword re-authenticates, updates the password and issues a fresh
// session since all existing sessions are revoked.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	var req changePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	updated, err := h.authService.ChangePassword(student.ID, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		h.respondAuthError(w, err, "Password change failed")
		return
	}

	go func() {
		if err := h.emailService.SendPasswordChangedEmail(context.Background(), updated.Email, updated.Name); err != nil {
			log.Printf("Failed to send password change email to %s: %v", updated.Email, err)
		}
	}()

	newSession, err := h.authService.CreateSessionFor(student.ID, session.RememberMe)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create session after password change", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, newSession.ID, newSession.ExpiresAt))
	h.respondSession(w, r, http.StatusOK, newSession.ID, session.RememberMe, student.ID)
}

func (h *AuthHandler) respondSession(w http.ResponseWriter, r *http.Request, status int, sessionID string, rememberMe bool, studentID int64) {
	student := GetStudentFromContext(r.Context())
	if student == nil || student.ID != studentID {
		// Fresh login has no context yet; resolve from the auth service
		resolved, _, err := h.authService.ValidateSession(sessionID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load student after login", err)
			return
		}
		student = resolved
	}

	profile := h.profileService.ResolveProfile(student, rememberMe)

	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}

	respondSuccess(w, status, sessionPayload{
		Profile:   toProfileView(profile),
		CSRFToken: token,
	})
}

func (h *AuthHandler) respondAuthError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondValidationError(w, err)
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already taken", "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
	case errors.Is(err, service.ErrAccountDisabled):
		respondWithError(w, http.StatusForbidden, "Account disabled", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
