package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocaboplay/internal/cache"
	"vocaboplay/internal/config"
	"vocaboplay/internal/database"
	"vocaboplay/internal/events"
	"vocaboplay/internal/handlers"
	"vocaboplay/internal/repository"
	"vocaboplay/internal/security"
	"vocaboplay/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the starter word library
	if err := db.SeedWordLibrary(); err != nil {
		log.Printf("Warning: Failed to seed word library: %v", err)
	}

	// Local caches: progress snapshots and remembered profiles survive
	// restarts, session profiles do not
	snapshots, err := cache.NewFileSnapshots(cfg.ProgressCachePath)
	if err != nil {
		log.Fatalf("Failed to open progress cache: %v", err)
	}
	rememberProfiles, err := cache.NewFileProfiles(cfg.ProfileCachePath)
	if err != nil {
		log.Fatalf("Failed to open profile cache: %v", err)
	}
	sessionProfiles := cache.NewMemoryProfiles()

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	wordRepo := repository.NewWordRepository(db)
	gameRepo := repository.NewGameRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	bus := events.NewBus()
	authService := service.NewAuthService(studentRepo, sessionRepo, cfg.SessionDuration, cfg.RememberMeDuration)
	progressService := service.NewProgressService(progressRepo, snapshots, gameRepo, bus)
	profileService := service.NewProfileService(studentRepo, progressRepo, rememberProfiles, sessionProfiles)
	backupService := service.NewBackupService(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Cached profiles follow progress updates
	bus.Subscribe(profileService.ApplyProgress)

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, limiter)

	oauthProviders := handlers.NewOAuthProviders(cfg)
	authHandler := handlers.NewAuthHandler(authService, profileService, emailService, csrf, oauthProviders, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL)
	profileHandler := handlers.NewProfileHandler(profileService)
	activityHandler := handlers.NewActivityHandler(progressService)
	libraryHandler := handlers.NewLibraryHandler(wordRepo, gameRepo)
	leaderboardHandler := handlers.NewLeaderboardHandler(progressRepo)
	adminHandler := handlers.NewAdminHandler(studentRepo, sessionRepo, wordRepo, gameRepo, progressService, profileService, backupService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/providers", authHandler.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Authenticated routes
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/auth/csrf", middleware.RequireAuth(authHandler.CSRFToken))
	mux.HandleFunc("POST /api/auth/change-password", middleware.RequireAuth(middleware.CSRFProtect(authHandler.ChangePassword)))

	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profileHandler.Get))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(middleware.CSRFProtect(profileHandler.Update)))

	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(activityHandler.Progress))
	mux.HandleFunc("POST /api/activity", middleware.RequireAuth(middleware.CSRFProtect(activityHandler.Record)))

	mux.HandleFunc("GET /api/words", middleware.RequireAuth(libraryHandler.ListWords))
	mux.HandleFunc("GET /api/words/categories", middleware.RequireAuth(libraryHandler.Categories))
	mux.HandleFunc("GET /api/games", middleware.RequireAuth(libraryHandler.ListGames))
	mux.HandleFunc("GET /api/leaderboard", middleware.RequireAuth(leaderboardHandler.Get))

	// Admin routes
	mux.HandleFunc("GET /api/admin/students", middleware.RequireAdmin(adminHandler.ListStudents))
	mux.HandleFunc("POST /api/admin/students", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateStudent)))
	mux.HandleFunc("PUT /api/admin/students/{id}/disabled", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SetStudentDisabled)))
	mux.HandleFunc("DELETE /api/admin/students/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteStudent)))
	mux.HandleFunc("POST /api/admin/students/{id}/reset-stats", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ResetStudentStats)))

	mux.HandleFunc("GET /api/admin/games", middleware.RequireAdmin(adminHandler.ListGames))
	mux.HandleFunc("POST /api/admin/games", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateGame)))
	mux.HandleFunc("PUT /api/admin/games/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateGame)))
	mux.HandleFunc("DELETE /api/admin/games/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteGame)))

	mux.HandleFunc("POST /api/admin/words", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateWord)))
	mux.HandleFunc("PUT /api/admin/words/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateWord)))
	mux.HandleFunc("DELETE /api/admin/words/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteWord)))

	mux.HandleFunc("GET /api/admin/backup", middleware.RequireAdmin(adminHandler.ExportBackup))
	mux.HandleFunc("POST /api/admin/backup", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ImportBackup)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	stopCleanup := make(chan struct{})
	go cleanupExpiredSessions(authService, stopCleanup)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	// Let pending progress writes finish before closing the database
	progressService.Flush()
	log.Println("Server stopped")
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := authService.CleanupExpiredSessions(); err != nil {
				log.Printf("Session cleanup failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}
