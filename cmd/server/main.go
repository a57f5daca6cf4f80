package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/DooMeul/DB-Notice-Board/internal/config"
	"github.com/DooMeul/DB-Notice-Board/internal/db"
	"github.com/DooMeul/DB-Notice-Board/internal/handlers"
	"github.com/DooMeul/DB-Notice-Board/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := log.New(os.Stdout, "board: ", log.LstdFlags|log.Lshortfile)

	// Initialize repository
	repo, err := db.NewRepository(cfg)
	if err != nil {
		logger.Fatalf("Database initialization error: %v", err)
	}
	defer repo.Close()

	// Run migrations
	if err := repo.RunMigrations(); err != nil {
		logger.Fatalf("Migration error: %v", err)
	}

	// Start periodic session cleanup
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := repo.CleanExpiredSessions(); err != nil {
				logger.Printf("Session cleanup error: %v", err)
			}
		}
	}()

	// Create handlers
	authHandler := handlers.NewAuthHandler(repo, logger, cfg)
	postHandler := handlers.NewPostHandler(repo, logger, cfg)
	commentHandler := handlers.NewCommentHandler(repo, logger, cfg)
	adminHandler := handlers.NewAdminHandler(repo, logger, cfg)

	requireAuth := middleware.AuthMiddleware(repo, logger)

	// Set up routes
	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	r.Get("/", postHandler.List)
	r.Get("/register", authHandler.Register)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.Login)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.With(requireAuth).Get("/new", postHandler.NewForm)
		r.With(requireAuth).Post("/", postHandler.Create)
		r.Get("/{id}", postHandler.Detail)
		r.With(requireAuth).Get("/{id}/edit", postHandler.EditForm)
		r.With(requireAuth).Post("/{id}/edit", postHandler.Update)
		r.With(requireAuth).Post("/{id}/delete", postHandler.Delete)
		r.With(requireAuth).Post("/{id}/comments", commentHandler.Add)
	})

	r.With(requireAuth).Post("/comments/{id}/delete", commentHandler.Delete)

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", adminHandler.Users)
		r.Post("/users/{id}/purge", adminHandler.PurgeUser)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(cfg.ProjectRoot, "static")))))

	// Start server
	logger.Printf("Server started at http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatalf("Server start error: %v", err)
	}
}
