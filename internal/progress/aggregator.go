package progress

import "vocaboplay/internal/models"

// XPPerLevel is the amount of xp needed to advance one level.
const XPPerLevel = 100

// NewSnapshot returns the all-zero snapshot used the first time a learner
// is observed.
func NewSnapshot() models.ProgressSnapshot {
	return models.ProgressSnapshot{Level: 1}
}

// LevelForXP derives the level for a given xp total: floor(xp/100)+1.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// Apply merges an update into the current snapshot and returns the new
// canonical snapshot. Update fields are replacement values, not deltas;
// nil fields leave the current value untouched. The input is never
// mutated. If current is nil a default all-zero snapshot is synthesized.
func Apply(current *models.ProgressSnapshot, update models.ProgressUpdate) models.ProgressSnapshot {
	var next models.ProgressSnapshot
	if current != nil {
		next = *current
		// KnownWords is the only reference-typed field; copy it so the
		// result shares nothing with the input.
		next.Flashcards.KnownWords = append([]string(nil), current.Flashcards.KnownWords...)
	} else {
		next = NewSnapshot()
	}

	if update.XP != nil {
		next.XP = *update.XP
	}
	if update.TotalPoints != nil {
		next.TotalPoints = *update.TotalPoints
	}
	if update.Streak != nil {
		next.Streak = *update.Streak
	}
	if update.GamesPlayed != nil {
		next.GamesPlayed = *update.GamesPlayed
	}
	if update.WordsLearned != nil {
		next.WordsLearned = *update.WordsLearned
	}
	if update.CorrectAnswers != nil {
		next.CorrectAnswers = *update.CorrectAnswers
	}
	if update.TotalAnswers != nil {
		next.TotalAnswers = *update.TotalAnswers
	}

	if update.Flashcards != nil {
		next.Flashcards = *update.Flashcards
		next.Flashcards.KnownWords = append([]string(nil), update.Flashcards.KnownWords...)
	}
	if update.Quiz != nil {
		next.Quiz = *update.Quiz
	}
	if update.Match != nil {
		next.Match = *update.Match
	}
	if update.GuessWhat != nil {
		next.GuessWhat = *update.GuessWhat
	}
	if update.SentenceBuilder != nil {
		next.SentenceBuilder = *update.SentenceBuilder
	}
	if update.ShortStory != nil {
		next.ShortStory = *update.ShortStory
	}

	next.Level = LevelForXP(next.XP)
	next.Achievements = evaluateAchievements(next, update)

	return next
}
