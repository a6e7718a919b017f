package database

import (
	"database/sql"
	"fmt"

	"pricescout/logger"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitDatabase opens the Postgres connection.
func InitDatabase(dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Successfully connected to database")
	return nil
}

// CreateTables creates the necessary tables if they don't exist.
func CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS deals (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			price TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			store TEXT NOT NULL,
			fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_store ON deals(store)`,
	}

	for _, query := range queries {
		if _, err := DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	logger.Log.Info("Database tables ready")
	return nil
}

// CloseDatabase closes the database connection.
func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}
