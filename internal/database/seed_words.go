package database

import (
	"fmt"
	"log"
)

type seedWord struct {
	text       string
	definition string
	example    string
	category   string
	difficulty int
}

// starterWords is the built-in vocabulary used to bootstrap an empty word
// library so new installs have something to play with immediately.
var starterWords = []seedWord{
	{"apple", "A round fruit with red or green skin", "She ate an apple with her lunch.", "food", 1},
	{"house", "A building where people live", "They painted their house blue.", "places", 1},
	{"happy", "Feeling or showing pleasure", "The puppy was happy to see us.", "feelings", 1},
	{"river", "A large natural stream of water", "We crossed the river by boat.", "nature", 1},
	{"friend", "A person you know well and like", "My best friend lives next door.", "people", 1},
	{"bright", "Giving out a lot of light", "The bright sun warmed the beach.", "descriptions", 2},
	{"journey", "An act of travelling from one place to another", "The journey took three days.", "travel", 2},
	{"whisper", "To speak very softly", "She had to whisper in the library.", "actions", 2},
	{"ancient", "Belonging to the very distant past", "They explored the ancient ruins.", "descriptions", 3},
	{"curious", "Eager to know or learn something", "The curious cat opened the cupboard.", "feelings", 3},
	{"gather", "To come together or collect", "We gather leaves every autumn.", "actions", 2},
	{"shelter", "A place giving protection from weather or danger", "The hikers found shelter in a cave.", "places", 3},
	{"fragile", "Easily broken or damaged", "The fragile vase survived the move.", "descriptions", 3},
	{"triumph", "A great victory or achievement", "Finishing the race was a personal triumph.", "feelings", 4},
	{"navigate", "To plan and direct a route", "Sailors navigate by the stars.", "actions", 4},
	{"abundant", "Existing in large quantities", "The valley had abundant wildflowers.", "descriptions", 4},
	{"reluctant", "Unwilling and hesitant", "He was reluctant to leave the party.", "feelings", 4},
	{"horizon", "The line where the earth seems to meet the sky", "A ship appeared on the horizon.", "nature", 4},
	{"meticulous", "Showing great attention to detail", "Her notes were meticulous and color-coded.", "descriptions", 5},
	{"ephemeral", "Lasting for a very short time", "The morning frost was ephemeral.", "descriptions", 5},
	{"resilient", "Able to recover quickly from difficulties", "The resilient team won after losing twice.", "descriptions", 5},
	{"eloquent", "Fluent and persuasive in speaking", "The speech was brief but eloquent.", "descriptions", 5},
	{"venture", "A risky or daring journey or undertaking", "Their venture into the jungle began at dawn.", "travel", 5},
	{"serene", "Calm, peaceful and untroubled", "The lake was serene at sunrise.", "descriptions", 5},
}

// SeedWordLibrary populates the word library with the starter vocabulary
// when the words table is empty.
func (db *DB) SeedWordLibrary() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check word count: %w", err)
	}

	if count > 0 {
		log.Printf("Word library already populated with %d words", count)
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO words (word_text, definition, example_sentence, category, difficulty_level)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, w := range starterWords {
		if _, err := tx.Exec(query, w.text, w.definition, w.example, w.category, w.difficulty); err != nil {
			return fmt.Errorf("failed to seed word %q: %w", w.text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit word seed: %w", err)
	}

	log.Printf("Seeded word library with %d starter words", len(starterWords))
	return nil
}
