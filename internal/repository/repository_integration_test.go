package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
	"vocaboplay/internal/config"
	"vocaboplay/internal/database"
	"vocaboplay/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.Config{
		DatabaseType:   "sqlite",
		DatabasePath:   filepath.Join(t.TempDir(), "test.db"),
		MigrationsPath: "../../migrations",
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestFirstStudentBecomesAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)

	first, err := repo.CreateStudent("first@example.com", "hash", "First", "#ff6b6b")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if !first.IsAdmin {
		t.Error("expected first student to be admin")
	}

	second, err := repo.CreateStudent("second@example.com", "hash", "Second", "#4ecdc4")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if second.IsAdmin {
		t.Error("expected second student not to be admin")
	}

	loaded, err := repo.GetByEmail("first@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if loaded == nil || loaded.ID != first.ID {
		t.Fatalf("expected to load created student, got %+v", loaded)
	}
	if loaded.Settings != models.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", loaded.Settings)
	}

	missing, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestStudentProfileUpdateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)

	student, err := repo.CreateStudent("kid@example.com", "hash", "Kid", "#ff6b6b")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	settings := models.StudentSettings{SoundEnabled: false, DailyGoalXP: 200, Language: "es", Notifications: false}
	if err := repo.UpdateProfile(student.ID, "Renamed", "#1a535c", "hi there", "555-0101", settings); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	loaded, err := repo.GetByID(student.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Name != "Renamed" || loaded.Bio != "hi there" || loaded.Settings != settings {
		t.Errorf("unexpected profile after update: %+v", loaded)
	}

	if err := repo.UpdateProfile(99999, "x", "", "", "", settings); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown student, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	students := NewStudentRepository(db)
	sessions := NewSessionRepository(db)

	student, err := students.CreateStudent("kid@example.com", "hash", "Kid", "#ff6b6b")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	session, err := sessions.Create("sess-1", student.ID, true, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	if !session.RememberMe {
		t.Error("expected remember-me flag persisted")
	}

	loaded, err := sessions.Get("sess-1")
	if err != nil {
		t.Fatalf("Get session: %v", err)
	}
	if loaded == nil || loaded.StudentID != student.ID || !loaded.RememberMe {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	// Expired sessions get swept
	if _, err := sessions.Create("sess-old", student.ID, false, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Create expired session: %v", err)
	}
	if err := sessions.DeleteExpired(); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if old, _ := sessions.Get("sess-old"); old != nil {
		t.Error("expected expired session removed")
	}
	if kept, _ := sessions.Get("sess-1"); kept == nil {
		t.Error("expected live session kept")
	}

	if err := sessions.DeleteForStudent(student.ID); err != nil {
		t.Fatalf("DeleteForStudent: %v", err)
	}
	if gone, _ := sessions.Get("sess-1"); gone != nil {
		t.Error("expected all sessions revoked")
	}
}

func TestProgressDocumentUpsert(t *testing.T) {
	db := newTestDB(t)
	students := NewStudentRepository(db)
	progress := NewProgressRepository(db)

	student, err := students.CreateStudent("kid@example.com", "hash", "Kid", "#ff6b6b")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	if _, err := progress.Get(student.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	snap := models.ProgressSnapshot{Level: 2, XP: 150, TotalPoints: 300, WordsLearned: 12, Streak: 3, GamesPlayed: 5}
	snap.Flashcards.KnownWords = []string{"cat", "dog"}
	if err := progress.Set(student.ID, snap); err != nil {
		t.Fatalf("Set: %v", err)
	}

	loaded, err := progress.Get(student.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.XP != 150 || len(loaded.Flashcards.KnownWords) != 2 {
		t.Errorf("unexpected snapshot: %+v", loaded)
	}

	// Second write overwrites the whole document
	snap.XP = 240
	snap.TotalPoints = 480
	if err := progress.Set(student.ID, snap); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	loaded, err = progress.Get(student.ID)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if loaded.XP != 240 {
		t.Errorf("expected overwritten xp 240, got %d", loaded.XP)
	}

	var docCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM progress_documents").Scan(&docCount); err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if docCount != 1 {
		t.Errorf("expected a single document per student, got %d", docCount)
	}
}

func TestLeaderboardRankingAndExclusions(t *testing.T) {
	db := newTestDB(t)
	students := NewStudentRepository(db)
	progress := NewProgressRepository(db)

	writeStudent := func(email, name string, points int) int64 {
		t.Helper()
		student, err := students.CreateStudent(email, "hash", name, "#ff6b6b")
		if err != nil {
			t.Fatalf("CreateStudent: %v", err)
		}
		if err := progress.Set(student.ID, models.ProgressSnapshot{Level: 1, TotalPoints: points}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		return student.ID
	}

	alice := writeStudent("alice@example.com", "Alice", 300)
	bob := writeStudent("bob@example.com", "Bob", 500)
	carol := writeStudent("carol@example.com", "Carol", 300)
	dave := writeStudent("dave@example.com", "Dave", 900)

	if err := students.SetDisabled(dave, true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}

	entries, err := progress.Leaderboard("totalPoints", 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (disabled excluded), got %d", len(entries))
	}
	if entries[0].StudentID != bob {
		t.Errorf("expected Bob first, got %+v", entries[0])
	}
	// Alice and Carol tie on points; earlier account wins
	if entries[1].StudentID != alice || entries[2].StudentID != carol {
		t.Errorf("expected deterministic tie-break Alice then Carol, got %+v then %+v", entries[1], entries[2])
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, entry.Rank)
		}
	}

	if _, err := progress.Leaderboard("xp", 10); !errors.Is(err, ErrUnknownRanking) {
		t.Errorf("expected ErrUnknownRanking for non-denormalized field, got %v", err)
	}
}

func TestWordFiltering(t *testing.T) {
	db := newTestDB(t)
	words := NewWordRepository(db)

	seed := []models.Word{
		{WordText: "apple", Translation: "manzana", Category: "food", DifficultyLevel: 1},
		{WordText: "apricot", Translation: "albaricoque", Category: "food", DifficultyLevel: 3},
		{WordText: "airport", Translation: "aeropuerto", Category: "travel", DifficultyLevel: 2},
	}
	for _, word := range seed {
		if _, err := words.Create(word); err != nil {
			t.Fatalf("Create word: %v", err)
		}
	}

	food, err := words.List(models.WordFilter{Category: "food"})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(food) != 2 {
		t.Errorf("expected 2 food words, got %d", len(food))
	}

	hard, err := words.List(models.WordFilter{Difficulty: 3})
	if err != nil {
		t.Fatalf("List by difficulty: %v", err)
	}
	if len(hard) != 1 || hard[0].WordText != "apricot" {
		t.Errorf("expected only apricot at difficulty 3, got %+v", hard)
	}

	ap, err := words.List(models.WordFilter{Search: "ap"})
	if err != nil {
		t.Fatalf("List by search: %v", err)
	}
	if len(ap) != 2 {
		t.Errorf("expected 2 matches for 'ap', got %d", len(ap))
	}

	categories, err := words.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %v", categories)
	}
}

func TestGamePlayCount(t *testing.T) {
	db := newTestDB(t)
	games := NewGameRepository(db)

	game, err := games.Create(models.Game{Slug: "quiz", Name: "Quiz", Enabled: true})
	if err != nil {
		t.Fatalf("Create game: %v", err)
	}

	if err := games.IncrementPlayCount("quiz"); err != nil {
		t.Fatalf("IncrementPlayCount: %v", err)
	}
	if err := games.IncrementPlayCount("quiz"); err != nil {
		t.Fatalf("IncrementPlayCount: %v", err)
	}

	// Unknown slugs are ignored, not errors
	if err := games.IncrementPlayCount("no-such-game"); err != nil {
		t.Fatalf("IncrementPlayCount unknown slug: %v", err)
	}

	loaded, err := games.GetByID(game.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.PlayCount != 2 {
		t.Errorf("expected play count 2, got %d", loaded.PlayCount)
	}

	enabledOnly, err := games.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enabledOnly) != 1 {
		t.Errorf("expected 1 enabled game, got %d", len(enabledOnly))
	}
}
