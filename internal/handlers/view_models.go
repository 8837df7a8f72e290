package handlers

import (
	"time"
	"vocaboplay/internal/models"
)

// StudentView is the API representation of a student account. The password
// hash and OAuth subject never leave the server.
type StudentView struct {
	ID            int64                  `json:"id"`
	Email         string                 `json:"email"`
	Name          string                 `json:"name"`
	AvatarColor   string                 `json:"avatarColor"`
	Bio           string                 `json:"bio,omitempty"`
	Phone         string                 `json:"phone,omitempty"`
	OAuthProvider string                 `json:"oauthProvider,omitempty"`
	IsAdmin       bool                   `json:"isAdmin"`
	Disabled      bool                   `json:"disabled"`
	Settings      models.StudentSettings `json:"settings"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ProfileView combines the student identity with their progress snapshot
type ProfileView struct {
	Student  StudentView             `json:"student"`
	Progress models.ProgressSnapshot `json:"progress"`
}

// GameView is the API representation of a catalog game
type GameView struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	PlayCount   int64  `json:"playCount"`
}

// WordView is the API representation of a vocabulary word
type WordView struct {
	ID              int64  `json:"id"`
	Word            string `json:"word"`
	Translation     string `json:"translation"`
	Definition      string `json:"definition,omitempty"`
	ExampleSentence string `json:"exampleSentence,omitempty"`
	Category        string `json:"category"`
	DifficultyLevel int    `json:"difficultyLevel"`
}

// LeaderboardEntryView is one ranked leaderboard row
type LeaderboardEntryView struct {
	Rank         int    `json:"rank"`
	StudentID    int64  `json:"studentId"`
	Name         string `json:"name"`
	AvatarColor  string `json:"avatarColor"`
	Level        int    `json:"level"`
	TotalPoints  int    `json:"totalPoints"`
	WordsLearned int    `json:"wordsLearned"`
	Streak       int    `json:"streak"`
	GamesPlayed  int    `json:"gamesPlayed"`
}

func toStudentView(student models.Student) StudentView {
	return StudentView{
		ID:            student.ID,
		Email:         student.Email,
		Name:          student.Name,
		AvatarColor:   student.AvatarColor,
		Bio:           student.Bio,
		Phone:         student.Phone,
		OAuthProvider: student.OAuthProvider,
		IsAdmin:       student.IsAdmin,
		Disabled:      student.Disabled,
		Settings:      student.Settings,
		CreatedAt:     student.CreatedAt,
	}
}

func toStudentViews(students []models.Student) []StudentView {
	views := make([]StudentView, 0, len(students))
	for _, st := range students {
		views = append(views, toStudentView(st))
	}
	return views
}

func toProfileView(profile models.Profile) ProfileView {
	return ProfileView{
		Student:  toStudentView(profile.Student),
		Progress: profile.Progress,
	}
}

func toGameView(game models.Game) GameView {
	return GameView{
		ID:          game.ID,
		Slug:        game.Slug,
		Name:        game.Name,
		Description: game.Description,
		Enabled:     game.Enabled,
		PlayCount:   game.PlayCount,
	}
}

func toGameViews(games []models.Game) []GameView {
	views := make([]GameView, 0, len(games))
	for _, g := range games {
		views = append(views, toGameView(g))
	}
	return views
}

func toWordView(word models.Word) WordView {
	return WordView{
		ID:              word.ID,
		Word:            word.WordText,
		Translation:     word.Translation,
		Definition:      word.Definition,
		ExampleSentence: word.ExampleSentence,
		Category:        word.Category,
		DifficultyLevel: word.DifficultyLevel,
	}
}

func toWordViews(words []models.Word) []WordView {
	views := make([]WordView, 0, len(words))
	for _, w := range words {
		views = append(views, toWordView(w))
	}
	return views
}

func toLeaderboardViews(entries []models.LeaderboardEntry) []LeaderboardEntryView {
	views := make([]LeaderboardEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, LeaderboardEntryView{
			Rank:         e.Rank,
			StudentID:    e.StudentID,
			Name:         e.Name,
			AvatarColor:  e.AvatarColor,
			Level:        e.Level,
			TotalPoints:  e.TotalPoints,
			WordsLearned: e.WordsLearned,
			Streak:       e.Streak,
			GamesPlayed:  e.GamesPlayed,
		})
	}
	return views
}
