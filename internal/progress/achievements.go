package progress

import "vocaboplay/internal/models"

// AchievementDef describes a single achievement for display purposes.
type AchievementDef struct {
	Key         string
	Name        string
	Description string
}

// Definitions lists every achievement in the order dashboards show them.
var Definitions = []AchievementDef{
	{Key: "firstGame", Name: "First Steps", Description: "Play your first game"},
	{Key: "perfectScore", Name: "Flawless", Description: "Finish a game with a perfect score"},
	{Key: "threeDayStreak", Name: "On a Roll", Description: "Practice three days in a row"},
	{Key: "tenWords", Name: "Word Collector", Description: "Learn 10 words"},
	{Key: "masterLearner", Name: "Master Learner", Description: "Reach level 5"},
	{Key: "speedDemon", Name: "Speed Demon", Description: "Beat a timed game under the par time"},
	{Key: "vocabularyMaster", Name: "Vocabulary Master", Description: "Learn 50 words"},
}

// evaluateAchievements runs every unlock predicate against the merged
// snapshot. Flags only ever go from false to true; a predicate that is no
// longer satisfied never clears an earned flag. PerfectScore and SpeedDemon
// are unlocked only by an explicit event signal in the update, never
// derived from counters.
func evaluateAchievements(snap models.ProgressSnapshot, update models.ProgressUpdate) models.Achievements {
	a := snap.Achievements

	if snap.GamesPlayed >= 1 {
		a.FirstGame = true
	}
	if snap.WordsLearned >= 10 {
		a.TenWords = true
	}
	if snap.WordsLearned >= 50 {
		a.VocabularyMaster = true
	}
	if snap.Streak >= 3 {
		a.ThreeDayStreak = true
	}
	if snap.Level >= 5 {
		a.MasterLearner = true
	}
	if update.PerfectScore {
		a.PerfectScore = true
	}
	if update.SpeedRun {
		a.SpeedDemon = true
	}

	return a
}

// Unlocked returns the keys of every earned achievement, in display order.
func Unlocked(a models.Achievements) []string {
	flags := map[string]bool{
		"firstGame":        a.FirstGame,
		"perfectScore":     a.PerfectScore,
		"threeDayStreak":   a.ThreeDayStreak,
		"tenWords":         a.TenWords,
		"masterLearner":    a.MasterLearner,
		"speedDemon":       a.SpeedDemon,
		"vocabularyMaster": a.VocabularyMaster,
	}

	var keys []string
	for _, def := range Definitions {
		if flags[def.Key] {
			keys = append(keys, def.Key)
		}
	}
	return keys
}
