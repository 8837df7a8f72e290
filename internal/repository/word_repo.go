package repository

import (
	"database/sql"
	"fmt"

	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

// WordRepository handles database operations for the word library
type WordRepository struct {
	db database.DBTX
}

// NewWordRepository creates a new word repository
func NewWordRepository(db database.DBTX) *WordRepository {
	return &WordRepository{db: db}
}

const wordColumns = `id, word_text, translation, definition, example_sentence,
	category, difficulty_level, created_at, updated_at`

// List returns library words matching the filter, alphabetically
func (r *WordRepository) List(filter models.WordFilter) ([]models.Word, error) {
	query := "SELECT " + wordColumns + " FROM words"
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		clauses = append(clauses, "LOWER(word_text) LIKE LOWER(?)")
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Difficulty > 0 {
		clauses = append(clauses, "difficulty_level = ?")
		args = append(args, filter.Difficulty)
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY word_text ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&word.ID,
			&word.WordText,
			&word.Translation,
			&word.Definition,
			&word.ExampleSentence,
			&word.Category,
			&word.DifficultyLevel,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			word.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			word.UpdatedAt = updatedAt.Time
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// GetByID retrieves a word by ID; nil when absent
func (r *WordRepository) GetByID(id int64) (*models.Word, error) {
	query := "SELECT " + wordColumns + " FROM words WHERE id = ?"

	var word models.Word
	var createdAt, updatedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&word.ID,
		&word.WordText,
		&word.Translation,
		&word.Definition,
		&word.ExampleSentence,
		&word.Category,
		&word.DifficultyLevel,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}

	if createdAt.Valid {
		word.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		word.UpdatedAt = updatedAt.Time
	}
	return &word, nil
}

// Create inserts a new library word
func (r *WordRepository) Create(word models.Word) (*models.Word, error) {
	query := `
		INSERT INTO words (word_text, translation, definition, example_sentence, category, difficulty_level)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		word.WordText, word.Translation, word.Definition,
		word.ExampleSentence, word.Category, word.DifficultyLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	word.ID = id
	return &word, nil
}

// Update replaces the editable fields of a library word
func (r *WordRepository) Update(word models.Word) error {
	query := `
		UPDATE words
		SET word_text = ?, translation = ?, definition = ?, example_sentence = ?,
		    category = ?, difficulty_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		word.WordText, word.Translation, word.Definition,
		word.ExampleSentence, word.Category, word.DifficultyLevel, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a library word
func (r *WordRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM words WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return requireRowAffected(result)
}

// Categories returns the distinct non-empty categories in the library
func (r *WordRepository) Categories() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT category FROM words WHERE category != '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
