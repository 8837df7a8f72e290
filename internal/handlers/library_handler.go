package handlers

import (
	"net/http"
	"strconv"
	"vocaboplay/internal/models"
	"vocaboplay/internal/repository"
)

// LibraryHandler serves the word library and game catalog to students
type LibraryHandler struct {
	wordRepo *repository.WordRepository
	gameRepo *repository.GameRepository
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(wordRepo *repository.WordRepository, gameRepo *repository.GameRepository) *LibraryHandler {
	return &LibraryHandler{
		wordRepo: wordRepo,
		gameRepo: gameRepo,
	}
}

// ListWords returns vocabulary words, optionally filtered by search text,
// category and difficulty.
func (h *LibraryHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	filter := models.WordFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil || difficulty < 1 || difficulty > 5 {
			respondWithError(w, http.StatusBadRequest, "Difficulty must be between 1 and 5", "", nil)
			return
		}
		filter.Difficulty = difficulty
	}

	words, err := h.wordRepo.List(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list words", err)
		return
	}
	respondSuccess(w, http.StatusOK, toWordViews(words))
}

// Categories returns the distinct word categories
func (h *LibraryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.wordRepo.Categories()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list categories", err)
		return
	}
	respondSuccess(w, http.StatusOK, categories)
}

// ListGames returns the enabled games in the catalog
func (h *LibraryHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameRepo.List(true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list games", err)
		return
	}
	respondSuccess(w, http.StatusOK, toGameViews(games))
}
