package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"movie-personalization-service/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		// Movie ids span two provider namespaces (box office codes and
		// catalog ids), so the key is TEXT rather than an integer.
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			release_date TEXT,
			runtime INTEGER,
			genres TEXT[] NOT NULL DEFAULT '{}',
			directors TEXT[] NOT NULL DEFAULT '{}',
			actors TEXT[] NOT NULL DEFAULT '{}',
			synopsis TEXT NOT NULL DEFAULT '',
			poster_url TEXT,
			backdrop_url TEXT,
			emotional_tags TEXT[] NOT NULL DEFAULT '{}',
			keywords TEXT[] NOT NULL DEFAULT '{}',
			watch_link TEXT NOT NULL DEFAULT '',
			watch_providers JSONB NOT NULL DEFAULT '[]',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_ratings (
			user_id UUID NOT NULL,
			movie_id TEXT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT,
			source TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_likes (
			user_id UUID NOT NULL,
			movie_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS cached_lists (
			list_type TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_user_ratings_user ON user_ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_likes_user ON user_likes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_last_updated ON movies(last_updated)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
