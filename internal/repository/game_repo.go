package repository

import (
	"database/sql"
	"fmt"

	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

// GameRepository handles database operations for the game catalog
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = "id, slug, name, description, enabled, play_count, created_at, updated_at"

// List returns the game catalog, optionally restricted to enabled games
func (r *GameRepository) List(enabledOnly bool) ([]models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games"
	if enabledOnly {
		query += " WHERE enabled = ?"
	}
	query += " ORDER BY name ASC"

	var rows *sql.Rows
	var err error
	if enabledOnly {
		rows, err = r.db.Query(query, true)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// GetBySlug retrieves a game by slug; nil when absent
func (r *GameRepository) GetBySlug(slug string) (*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE slug = ?"
	game, err := scanGame(r.db.QueryRow(query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return game, err
}

// GetByID retrieves a game by ID; nil when absent
func (r *GameRepository) GetByID(id int64) (*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE id = ?"
	game, err := scanGame(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return game, err
}

// Create inserts a new game into the catalog
func (r *GameRepository) Create(game models.Game) (*models.Game, error) {
	query := `
		INSERT INTO games (slug, name, description, enabled)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, game.Slug, game.Name, game.Description, game.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	game.ID = id
	return &game, nil
}

// Update replaces the editable fields of a game
func (r *GameRepository) Update(game models.Game) error {
	query := `
		UPDATE games
		SET slug = ?, name = ?, description = ?, enabled = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, game.Slug, game.Name, game.Description, game.Enabled, game.ID)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a game from the catalog
func (r *GameRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return requireRowAffected(result)
}

// IncrementPlayCount bumps a game's play counter by slug. Unknown slugs
// are ignored so activity recording never fails on catalog drift.
func (r *GameRepository) IncrementPlayCount(slug string) error {
	query := "UPDATE games SET play_count = play_count + 1 WHERE slug = ?"
	_, err := r.db.Exec(query, slug)
	return err
}

func scanGame(row rowScanner) (*models.Game, error) {
	var game models.Game
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&game.ID,
		&game.Slug,
		&game.Name,
		&game.Description,
		&game.Enabled,
		&game.PlayCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		game.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		game.UpdatedAt = updatedAt.Time
	}
	return &game, nil
}
