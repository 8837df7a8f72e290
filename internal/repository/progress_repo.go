package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

// ErrUnknownRanking is returned for leaderboard fields outside the
// denormalized column whitelist.
var ErrUnknownRanking = errors.New("unknown ranking field")

// ProgressRepository is the remote progress store adapter. Each student
// has exactly one progress document, written by full overwrite with
// last-write-wins semantics. Ranking fields are denormalized into indexed
// columns alongside the JSON document to support leaderboard queries.
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves a student's progress document. Returns ErrNotFound when
// no document exists yet.
func (r *ProgressRepository) Get(studentID int64) (models.ProgressSnapshot, error) {
	var doc string
	err := r.db.QueryRow("SELECT doc FROM progress_documents WHERE student_id = ?", studentID).Scan(&doc)
	if err == sql.ErrNoRows {
		return models.ProgressSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to get progress: %w", err)
	}

	var snap models.ProgressSnapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to decode progress document: %w", err)
	}
	return snap, nil
}

// Set overwrites a student's progress document in full
func (r *ProgressRepository) Set(studentID int64, snap models.ProgressSnapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode progress document: %w", err)
	}

	now := time.Now()

	// Portable upsert: update first, insert on zero rows affected.
	update := `
		UPDATE progress_documents
		SET doc = ?, level = ?, total_points = ?, words_learned = ?, streak = ?, games_played = ?, updated_at = ?
		WHERE student_id = ?
	`
	result, err := r.db.Exec(update,
		string(doc), snap.Level, snap.TotalPoints, snap.WordsLearned,
		snap.Streak, snap.GamesPlayed, now, studentID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insert := `
		INSERT INTO progress_documents (student_id, doc, level, total_points, words_learned, streak, games_played, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(insert,
		studentID, string(doc), snap.Level, snap.TotalPoints, snap.WordsLearned,
		snap.Streak, snap.GamesPlayed, now); err != nil {
		return fmt.Errorf("failed to insert progress: %w", err)
	}
	return nil
}

// Delete removes a student's progress document
func (r *ProgressRepository) Delete(studentID int64) error {
	_, err := r.db.Exec("DELETE FROM progress_documents WHERE student_id = ?", studentID)
	return err
}

// leaderboardColumns whitelists the rankable fields
var leaderboardColumns = map[string]string{
	"totalPoints":  "total_points",
	"wordsLearned": "words_learned",
	"streak":       "streak",
	"gamesPlayed":  "games_played",
}

// Leaderboard returns the top students ranked by field, descending.
// Ties break by student id ascending (the store's natural order), so
// ranking is deterministic.
func (r *ProgressRepository) Leaderboard(field string, limit int) ([]models.LeaderboardEntry, error) {
	column, ok := leaderboardColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRanking, field)
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.avatar_color,
		       p.level, p.total_points, p.words_learned, p.streak, p.games_played
		FROM progress_documents p
		JOIN students s ON s.id = p.student_id
		WHERE s.disabled = ?
		ORDER BY p.%s DESC, s.id ASC
		LIMIT ?
	`, column)

	rows, err := r.db.Query(query, false, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		rank++
		entry := models.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(
			&entry.StudentID,
			&entry.Name,
			&entry.AvatarColor,
			&entry.Level,
			&entry.TotalPoints,
			&entry.WordsLearned,
			&entry.Streak,
			&entry.GamesPlayed,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
