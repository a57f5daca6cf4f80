package db

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/DooMeul/DB-Notice-Board/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Sentinel errors returned by repository lookups.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrSessionNotFound = errors.New("session not found")
)

// PageSize is the number of posts per listing page.
const PageSize = 5

// Repository provides methods for working with the database.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database and creates a new repository.
func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// RunMigrations applies the embedded goose migrations.
func (r *Repository) RunMigrations() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(r.db, "migrations")
}
