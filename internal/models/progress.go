package models

// Achievements is the set of one-way unlock flags for a student.
// Once a flag is true it is never reset by normal progress updates.
type Achievements struct {
	FirstGame        bool `json:"firstGame"`
	PerfectScore     bool `json:"perfectScore"`
	ThreeDayStreak   bool `json:"threeDayStreak"`
	TenWords         bool `json:"tenWords"`
	MasterLearner    bool `json:"masterLearner"`
	SpeedDemon       bool `json:"speedDemon"`
	VocabularyMaster bool `json:"vocabularyMaster"`
}

// FlashcardStats holds counters for the flashcard activity
type FlashcardStats struct {
	CardsViewed int      `json:"cardsViewed"`
	KnownWords  []string `json:"knownWords"`
	BestScore   int      `json:"bestScore"`
}

// QuizStats holds counters for the quiz activity
type QuizStats struct {
	QuizzesTaken int `json:"quizzesTaken"`
	BestScore    int `json:"bestScore"`
}

// MatchStats holds counters for the word-match activity
type MatchStats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	BestScore    int `json:"bestScore"`
	BestTimeMs   int `json:"bestTimeMs"`
}

// GuessWhatStats holds counters for the guess-what activity
type GuessWhatStats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	BestScore    int `json:"bestScore"`
}

// SentenceBuilderStats holds counters for the sentence-builder activity
type SentenceBuilderStats struct {
	SentencesBuilt int `json:"sentencesBuilt"`
	BestScore      int `json:"bestScore"`
}

// ShortStoryStats holds counters for the short-story activity
type ShortStoryStats struct {
	StoriesRead int `json:"storiesRead"`
	BestScore   int `json:"bestScore"`
}

// ProgressSnapshot is one learner's cumulative state. Level is always
// derived from XP (floor(xp/100)+1), never stored independently of it.
type ProgressSnapshot struct {
	Level          int `json:"level"`
	XP             int `json:"xp"`
	TotalPoints    int `json:"totalPoints"`
	Streak         int `json:"streak"`
	GamesPlayed    int `json:"gamesPlayed"`
	WordsLearned   int `json:"wordsLearned"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalAnswers   int `json:"totalAnswers"`

	Flashcards      FlashcardStats       `json:"flashcards"`
	Quiz            QuizStats            `json:"quiz"`
	Match           MatchStats           `json:"match"`
	GuessWhat       GuessWhatStats       `json:"guessWhat"`
	SentenceBuilder SentenceBuilderStats `json:"sentenceBuilder"`
	ShortStory      ShortStoryStats      `json:"shortStory"`

	Achievements Achievements `json:"achievements"`
}

// ProgressUpdate describes what changed after a completed activity.
// Numeric fields are replacement values for counters the caller has already
// incremented, not deltas; nil fields leave the current value untouched.
// PerfectScore and SpeedRun are event signals, only ever set explicitly by
// the caller.
type ProgressUpdate struct {
	XP             *int `json:"xp,omitempty"`
	TotalPoints    *int `json:"totalPoints,omitempty"`
	Streak         *int `json:"streak,omitempty"`
	GamesPlayed    *int `json:"gamesPlayed,omitempty"`
	WordsLearned   *int `json:"wordsLearned,omitempty"`
	CorrectAnswers *int `json:"correctAnswers,omitempty"`
	TotalAnswers   *int `json:"totalAnswers,omitempty"`

	Flashcards      *FlashcardStats       `json:"flashcards,omitempty"`
	Quiz            *QuizStats            `json:"quiz,omitempty"`
	Match           *MatchStats           `json:"match,omitempty"`
	GuessWhat       *GuessWhatStats       `json:"guessWhat,omitempty"`
	SentenceBuilder *SentenceBuilderStats `json:"sentenceBuilder,omitempty"`
	ShortStory      *ShortStoryStats      `json:"shortStory,omitempty"`

	PerfectScore bool `json:"perfectScore,omitempty"`
	SpeedRun     bool `json:"speedRun,omitempty"`
}
