package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const driverName = "postgres"

// schema stays within the SQL subset shared by Postgres and SQLite so the
// repositories can be exercised against an in-memory database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		external_id TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		message_type TEXT NOT NULL DEFAULT 'chat',
		sent_at TIMESTAMP NOT NULL,
		sender_name TEXT NOT NULL,
		sender_number TEXT NOT NULL DEFAULT '',
		sender_id TEXT NOT NULL DEFAULT '',
		chat_id TEXT NOT NULL DEFAULT '',
		chat_name TEXT NOT NULL DEFAULT '',
		is_group BOOLEAN NOT NULL DEFAULT FALSE,
		participants_count INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL,
		confidence INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_category_sent_at ON messages (category, sent_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender_name ON messages (sender_name)`,
	`CREATE TABLE IF NOT EXISTS training_examples (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		category TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
}

func New() (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// FormatDSN builds a lib/pq connection string from the DB_* variables.
func FormatDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "maxbot"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
