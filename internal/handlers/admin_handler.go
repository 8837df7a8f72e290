package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"vocaboplay/internal/credentials"
	"vocaboplay/internal/models"
	"vocaboplay/internal/repository"
	"vocaboplay/internal/security"
	"vocaboplay/internal/service"
	"vocaboplay/internal/validation"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// AdminHandler handles the admin management API: students, games, words,
// stats resets and backups.
type AdminHandler struct {
	studentRepo     *repository.StudentRepository
	sessionRepo     *repository.SessionRepository
	wordRepo        *repository.WordRepository
	gameRepo        *repository.GameRepository
	progressService *service.ProgressService
	profileService  *service.ProfileService
	backupService   *service.BackupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(studentRepo *repository.StudentRepository, sessionRepo *repository.SessionRepository, wordRepo *repository.WordRepository, gameRepo *repository.GameRepository, progressService *service.ProgressService, profileService *service.ProfileService, backupService *service.BackupService) *AdminHandler {
	return &AdminHandler{
		studentRepo:     studentRepo,
		sessionRepo:     sessionRepo,
		wordRepo:        wordRepo,
		gameRepo:        gameRepo,
		progressService: progressService,
		profileService:  profileService,
		backupService:   backupService,
	}
}

// --- Students ---

// ListStudents returns all student accounts, optionally filtered by search text
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentRepo.List(r.URL.Query().Get("search"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list students", err)
		return
	}
	respondSuccess(w, http.StatusOK, toStudentViews(students))
}

type createStudentRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type createStudentResponse struct {
	Student      StudentView `json:"student"`
	TempPassword string      `json:"tempPassword"`
}

// CreateStudent creates an account with a generated temporary password. The
// password is returned exactly once for the admin to hand over.
func (h *AdminHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondValidationError(w, err)
		return
	}

	existing, err := h.studentRepo.GetByEmail(req.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to check existing student", err)
		return
	}
	if existing != nil {
		respondWithError(w, http.StatusConflict, "Email already taken", "", nil)
		return
	}

	tempPassword, err := credentials.GenerateTempPassword()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate password", err)
		return
	}
	passwordHash, err := security.HashPassword(tempPassword)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to hash password", err)
		return
	}
	avatarColor, err := credentials.RandomAvatarColor()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to pick avatar color", err)
		return
	}

	student, err := h.studentRepo.CreateStudent(req.Email, passwordHash, req.Name, avatarColor)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create student", err)
		return
	}

	respondSuccess(w, http.StatusCreated, createStudentResponse{
		Student:      toStudentView(*student),
		TempPassword: tempPassword,
	})
}

type setDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetStudentDisabled enables or disables an account. Disabling revokes all
// sessions and drops cached profiles; the student vanishes from leaderboards.
func (h *AdminHandler) SetStudentDisabled(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setDisabledRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.studentRepo.SetDisabled(id, req.Disabled); err != nil {
		respondRepoError(w, err, "Failed to update student")
		return
	}

	if req.Disabled {
		if err := h.sessionRepo.DeleteForStudent(id); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to revoke sessions", err)
			return
		}
		h.profileService.Forget(id)
	}

	respondMessage(w, http.StatusOK, "Student updated")
}

// DeleteStudent removes an account together with its sessions and progress
func (h *AdminHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	admin := GetStudentFromContext(r.Context())
	if admin != nil && admin.ID == id {
		respondWithError(w, http.StatusBadRequest, "Admins cannot delete their own account", "", nil)
		return
	}

	if err := h.studentRepo.Delete(id); err != nil {
		respondRepoError(w, err, "Failed to delete student")
		return
	}
	h.profileService.Forget(id)

	respondMessage(w, http.StatusOK, "Student deleted")
}

// ResetStudentStats replaces a student's progress with a fresh snapshot
func (h *AdminHandler) ResetStudentStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	student, err := h.studentRepo.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load student", err)
		return
	}
	if student == nil {
		respondWithError(w, http.StatusNotFound, ErrNotFoundMsg, "", nil)
		return
	}

	snapshot, err := h.progressService.ResetStats(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reset stats", err)
		return
	}
	respondSuccess(w, http.StatusOK, snapshot)
}

// --- Games ---

// ListGames returns every game in the catalog, including disabled ones
func (h *AdminHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameRepo.List(false)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list games", err)
		return
	}
	respondSuccess(w, http.StatusOK, toGameViews(games))
}

type gameRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

func (req *gameRequest) validate() error {
	if !slugPattern.MatchString(req.Slug) {
		return validation.ValidationError{Field: "slug", Message: "slug must be lowercase letters, digits and hyphens"}
	}
	return validation.ValidateName(req.Name)
}

// CreateGame adds a game to the catalog
func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	existing, err := h.gameRepo.GetBySlug(req.Slug)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to check game slug", err)
		return
	}
	if existing != nil {
		respondWithError(w, http.StatusConflict, "Game slug already in use", "", nil)
		return
	}

	game, err := h.gameRepo.Create(models.Game{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create game", err)
		return
	}
	respondSuccess(w, http.StatusCreated, toGameView(*game))
}

// UpdateGame edits a catalog game
func (h *AdminHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req gameRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	err := h.gameRepo.Update(models.Game{
		ID:          id,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		respondRepoError(w, err, "Failed to update game")
		return
	}
	respondMessage(w, http.StatusOK, "Game updated")
}

// DeleteGame removes a game from the catalog
func (h *AdminHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.gameRepo.Delete(id); err != nil {
		respondRepoError(w, err, "Failed to delete game")
		return
	}
	respondMessage(w, http.StatusOK, "Game deleted")
}

// --- Words ---

type wordRequest struct {
	Word            string `json:"word"`
	Translation     string `json:"translation"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"exampleSentence"`
	Category        string `json:"category"`
	DifficultyLevel int    `json:"difficultyLevel"`
}

func (req *wordRequest) validate() error {
	if req.Word == "" {
		return validation.ValidationError{Field: "word", Message: "word is required"}
	}
	if req.Translation == "" {
		return validation.ValidationError{Field: "translation", Message: "translation is required"}
	}
	if req.DifficultyLevel < 1 || req.DifficultyLevel > 5 {
		return validation.ValidationError{Field: "difficultyLevel", Message: "difficulty must be between 1 and 5"}
	}
	return nil
}

func (req *wordRequest) toModel(id int64) models.Word {
	return models.Word{
		ID:              id,
		WordText:        req.Word,
		Translation:     req.Translation,
		Definition:      req.Definition,
		ExampleSentence: req.ExampleSentence,
		Category:        req.Category,
		DifficultyLevel: req.DifficultyLevel,
	}
}

// CreateWord adds a word to the library
func (h *AdminHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	word, err := h.wordRepo.Create(req.toModel(0))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create word", err)
		return
	}
	respondSuccess(w, http.StatusCreated, toWordView(*word))
}

// UpdateWord edits a library word
func (h *AdminHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req wordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.wordRepo.Update(req.toModel(id)); err != nil {
		respondRepoError(w, err, "Failed to update word")
		return
	}
	respondMessage(w, http.StatusOK, "Word updated")
}

// DeleteWord removes a word from the library
func (h *AdminHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.wordRepo.Delete(id); err != nil {
		respondRepoError(w, err, "Failed to delete word")
		return
	}
	respondMessage(w, http.StatusOK, "Word deleted")
}

// --- Backup ---

// ExportBackup streams a full JSON backup of the database
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="vocaboplay-backup.json"`)
	if err := h.backupService.ExportToWriter(w); err != nil {
		// Headers are already sent; all we can do is log
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Backup export failed", err)
	}
}

// ImportBackup restores the database from an uploaded JSON backup
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Backup import failed", "", err)
		return
	}
	respondMessage(w, http.StatusOK, "Backup imported")
}

// --- helpers ---

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid id", "", nil)
		return 0, false
	}
	return id, true
}

func respondRepoError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrNotFoundMsg, "", nil)
		return
	}
	respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
}
