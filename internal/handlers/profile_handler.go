package handlers

import (
	"errors"
	"net/http"
	"vocaboplay/internal/models"
	"vocaboplay/internal/service"
	"vocaboplay/internal/validation"
)

// ProfileHandler handles profile viewing and editing
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type updateProfileRequest struct {
	Name        string                 `json:"name"`
	AvatarColor string                 `json:"avatarColor"`
	Bio         string                 `json:"bio"`
	Phone       string                 `json:"phone"`
	Settings    models.StudentSettings `json:"settings"`
}

// Get returns the signed-in student's profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	profile := h.profileService.ResolveProfile(student, session.RememberMe)
	respondSuccess(w, http.StatusOK, toProfileView(profile))
}

// Update applies profile edits with write-through to the store. A failed
// write keeps the local edit and reports the error so the client can retry.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	var req updateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(student, session.RememberMe, req.Name, req.AvatarColor, req.Bio, req.Phone, req.Settings)
	if err != nil {
		var validationErr validation.ValidationError
		if errors.As(err, &validationErr) {
			respondValidationError(w, err)
			return
		}
		respondWithError(w, http.StatusServiceUnavailable, "Profile saved locally but could not be stored; please retry", "Profile write-through failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, toProfileView(profile))
}
