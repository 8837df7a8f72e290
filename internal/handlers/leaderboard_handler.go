package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"vocaboplay/internal/repository"
)

const defaultLeaderboardLimit = 20

// LeaderboardHandler serves ranked student standings
type LeaderboardHandler struct {
	progressRepo *repository.ProgressRepository
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(progressRepo *repository.ProgressRepository) *LeaderboardHandler {
	return &LeaderboardHandler{progressRepo: progressRepo}
}

// Get returns the leaderboard ranked by the requested field. Supported
// fields: totalPoints (default), wordsLearned, streak, gamesPlayed.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("by")
	if field == "" {
		field = "totalPoints"
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "Limit must be between 1 and 100", "", nil)
			return
		}
		limit = parsed
	}

	entries, err := h.progressRepo.Leaderboard(field, limit)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownRanking) {
			respondWithError(w, http.StatusBadRequest, "Unknown ranking field", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to build leaderboard", err)
		return
	}

	respondSuccess(w, http.StatusOK, toLeaderboardViews(entries))
}
