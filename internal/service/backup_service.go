package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"vocaboplay/internal/database"
)

// BackupData represents the complete database backup structure. Sessions are
// deliberately excluded; they are re-issued on login.
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Students   []StudentBackup  `json:"students"`
	Games      []GameBackup     `json:"games"`
	Words      []WordBackup     `json:"words"`
	Progress   []ProgressBackup `json:"progress"`
}

// StudentBackup represents a student record for backup
type StudentBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	AvatarColor   string    `json:"avatar_color"`
	Bio           string    `json:"bio"`
	Phone         string    `json:"phone"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	Disabled      bool      `json:"disabled"`
	Settings      string    `json:"settings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GameBackup represents a game record for backup
type GameBackup struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	PlayCount   int64  `json:"play_count"`
}

// WordBackup represents a word record for backup
type WordBackup struct {
	ID              int64  `json:"id"`
	WordText        string `json:"word_text"`
	Translation     string `json:"translation"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"example_sentence"`
	Category        string `json:"category"`
	DifficultyLevel int    `json:"difficulty_level"`
}

// ProgressBackup carries one progress document with its ranking columns. The
// doc column is copied verbatim so unknown fields survive a round trip.
type ProgressBackup struct {
	StudentID    int64     `json:"student_id"`
	Doc          string    `json:"doc"`
	Level        int       `json:"level"`
	TotalPoints  int       `json:"total_points"`
	WordsLearned int       `json:"words_learned"`
	Streak       int       `json:"streak"`
	GamesPlayed  int       `json:"games_played"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackupService exports and imports the full database as JSON
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup to the given file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a complete backup to the given writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportStudents(backup); err != nil {
		return fmt.Errorf("failed to export students: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}
	if err := s.exportWords(backup); err != nil {
		return fmt.Errorf("failed to export words: %w", err)
	}
	if err := s.exportProgress(backup); err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d students, %d games, %d words, %d progress documents",
		len(backup.Students), len(backup.Games), len(backup.Words), len(backup.Progress))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importStudents(backup.Students); err != nil {
		return fmt.Errorf("failed to import students: %w", err)
	}
	if err := s.importGames(backup.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}
	if err := s.importWords(backup.Words); err != nil {
		return fmt.Errorf("failed to import words: %w", err)
	}
	if err := s.importProgress(backup.Progress); err != nil {
		return fmt.Errorf("failed to import progress: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportStudents(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, email, password_hash, name, avatar_color, bio, phone,
		oauth_provider, oauth_subject, is_admin, disabled, settings,
		created_at, updated_at FROM students ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StudentBackup
		if err := rows.Scan(&st.ID, &st.Email, &st.PasswordHash, &st.Name, &st.AvatarColor,
			&st.Bio, &st.Phone, &st.OAuthProvider, &st.OAuthSubject, &st.IsAdmin, &st.Disabled,
			&st.Settings, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return err
		}
		backup.Students = append(backup.Students, st)
	}
	return rows.Err()
}

func (s *BackupService) exportGames(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, slug, name, description, enabled, play_count FROM games ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GameBackup
		if err := rows.Scan(&g.ID, &g.Slug, &g.Name, &g.Description, &g.Enabled, &g.PlayCount); err != nil {
			return err
		}
		backup.Games = append(backup.Games, g)
	}
	return rows.Err()
}

func (s *BackupService) exportWords(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, word_text, translation, definition, example_sentence,
		category, difficulty_level FROM words ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var w WordBackup
		if err := rows.Scan(&w.ID, &w.WordText, &w.Translation, &w.Definition,
			&w.ExampleSentence, &w.Category, &w.DifficultyLevel); err != nil {
			return err
		}
		backup.Words = append(backup.Words, w)
	}
	return rows.Err()
}

func (s *BackupService) exportProgress(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT student_id, doc, level, total_points, words_learned,
		streak, games_played, updated_at FROM progress_documents ORDER BY student_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProgressBackup
		if err := rows.Scan(&p.StudentID, &p.Doc, &p.Level, &p.TotalPoints,
			&p.WordsLearned, &p.Streak, &p.GamesPlayed, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Progress = append(backup.Progress, p)
	}
	return rows.Err()
}

func (s *BackupService) importStudents(students []StudentBackup) error {
	log.Printf("Importing %d students...", len(students))
	for _, st := range students {
		query := `INSERT INTO students (id, email, password_hash, name, avatar_color, bio, phone,
			oauth_provider, oauth_subject, is_admin, disabled, settings, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, st.ID, st.Email, st.PasswordHash, st.Name, st.AvatarColor,
			st.Bio, st.Phone, st.OAuthProvider, st.OAuthSubject,
			st.IsAdmin, st.Disabled, st.Settings, st.CreatedAt, st.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import student %d: %w", st.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGames(games []GameBackup) error {
	log.Printf("Importing %d games...", len(games))
	for _, g := range games {
		query := `INSERT INTO games (id, slug, name, description, enabled, play_count) VALUES (?, ?, ?, ?, ?, ?)`
		if _, err := s.db.Exec(query, g.ID, g.Slug, g.Name, g.Description, g.Enabled, g.PlayCount); err != nil {
			return fmt.Errorf("failed to import game %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importWords(words []WordBackup) error {
	log.Printf("Importing %d words...", len(words))
	for _, w := range words {
		query := `INSERT INTO words (id, word_text, translation, definition, example_sentence,
			category, difficulty_level) VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := s.db.Exec(query, w.ID, w.WordText, w.Translation, w.Definition,
			w.ExampleSentence, w.Category, w.DifficultyLevel); err != nil {
			return fmt.Errorf("failed to import word %d: %w", w.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProgress(progress []ProgressBackup) error {
	log.Printf("Importing %d progress documents...", len(progress))
	for _, p := range progress {
		query := `INSERT INTO progress_documents (student_id, doc, level, total_points,
			words_learned, streak, games_played, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := s.db.Exec(query, p.StudentID, p.Doc, p.Level, p.TotalPoints,
			p.WordsLearned, p.Streak, p.GamesPlayed, p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import progress for student %d: %w", p.StudentID, err)
		}
	}
	return nil
}
