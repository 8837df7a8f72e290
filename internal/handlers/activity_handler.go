package handlers

import (
	"net/http"
	"vocaboplay/internal/models"
	"vocaboplay/internal/service"
)

// ActivityHandler records game completions against student progress
type ActivityHandler struct {
	progressService *service.ProgressService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(progressService *service.ProgressService) *ActivityHandler {
	return &ActivityHandler{progressService: progressService}
}

// activityRequest carries the replacement values produced by a finished game
// round. Absent fields leave the corresponding snapshot fields untouched.
type activityRequest struct {
	Game string `json:"game"`

	XP             *int `json:"xp,omitempty"`
	TotalPoints    *int `json:"totalPoints,omitempty"`
	Streak         *int `json:"streak,omitempty"`
	GamesPlayed    *int `json:"gamesPlayed,omitempty"`
	WordsLearned   *int `json:"wordsLearned,omitempty"`
	CorrectAnswers *int `json:"correctAnswers,omitempty"`
	TotalAnswers   *int `json:"totalAnswers,omitempty"`

	Flashcards      *models.FlashcardStats       `json:"flashcards,omitempty"`
	Quiz            *models.QuizStats            `json:"quiz,omitempty"`
	Match           *models.MatchStats           `json:"match,omitempty"`
	GuessWhat       *models.GuessWhatStats       `json:"guessWhat,omitempty"`
	SentenceBuilder *models.SentenceBuilderStats `json:"sentenceBuilder,omitempty"`
	ShortStory      *models.ShortStoryStats      `json:"shortStory,omitempty"`

	PerfectScore bool `json:"perfectScore,omitempty"`
	SpeedRun     bool `json:"speedRun,omitempty"`
}

func (req *activityRequest) toUpdate() models.ProgressUpdate {
	return models.ProgressUpdate{
		XP:              req.XP,
		TotalPoints:     req.TotalPoints,
		Streak:          req.Streak,
		GamesPlayed:     req.GamesPlayed,
		WordsLearned:    req.WordsLearned,
		CorrectAnswers:  req.CorrectAnswers,
		TotalAnswers:    req.TotalAnswers,
		Flashcards:      req.Flashcards,
		Quiz:            req.Quiz,
		Match:           req.Match,
		GuessWhat:       req.GuessWhat,
		SentenceBuilder: req.SentenceBuilder,
		ShortStory:      req.ShortStory,
		PerfectScore:    req.PerfectScore,
		SpeedRun:        req.SpeedRun,
	}
}

// Record merges a finished activity into the student's progress and returns
// the updated snapshot. This always succeeds from the client's point of view;
// remote sync happens in the background.
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())

	var req activityRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	snapshot := h.progressService.RecordActivity(student.ID, req.Game, req.toUpdate())
	respondSuccess(w, http.StatusOK, snapshot)
}

// Progress returns the student's current progress snapshot
func (h *ActivityHandler) Progress(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	respondSuccess(w, http.StatusOK, h.progressService.CurrentSnapshot(student.ID))
}
