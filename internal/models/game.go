package models

import "time"

// Game represents a learning activity in the catalog
type Game struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	Enabled     bool
	PlayCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LeaderboardEntry is one row of a ranked leaderboard
type LeaderboardEntry struct {
	Rank         int
	StudentID    int64
	Name         string
	AvatarColor  string
	Level        int
	TotalPoints  int
	WordsLearned int
	Streak       int
	GamesPlayed  int
}
