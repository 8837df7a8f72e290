package models

import "time"

// Word represents an entry in the vocabulary library
type Word struct {
	ID              int64
	WordText        string
	Translation     string
	Definition      string
	ExampleSentence string
	Category        string
	DifficultyLevel int // 1-5 scale
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WordFilter narrows word library listings. Zero values mean "no filter".
type WordFilter struct {
	Search     string
	Category   string
	Difficulty int
}
