package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/six-degrees/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					email TEXT UNIQUE NOT NULL,
					name TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS companies (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					domain TEXT UNIQUE,
					description TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS people (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					email TEXT,
					name TEXT NOT NULL,
					role TEXT,
					company_id INTEGER,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(user_id, email),
					FOREIGN KEY (user_id) REFERENCES users(id),
					FOREIGN KEY (company_id) REFERENCES companies(id)
				)`,
				`CREATE INDEX idx_people_user ON people(user_id)`,

				`CREATE TABLE IF NOT EXISTS expertise_areas (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					description TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS person_expertise (
					person_id INTEGER NOT NULL,
					expertise_id INTEGER NOT NULL,
					confidence REAL DEFAULT 0,
					evidence TEXT,
					PRIMARY KEY (person_id, expertise_id),
					FOREIGN KEY (person_id) REFERENCES people(id),
					FOREIGN KEY (expertise_id) REFERENCES expertise_areas(id)
				)`,

				`CREATE TABLE IF NOT EXISTS interactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					message_id TEXT NOT NULL,
					thread_id TEXT,
					subject TEXT,
					summary TEXT,
					kind TEXT NOT NULL DEFAULT 'email',
					date DATE NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(user_id, message_id),
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_interactions_date ON interactions(date)`,

				`CREATE TABLE IF NOT EXISTS interaction_participants (
					interaction_id INTEGER NOT NULL,
					person_id INTEGER NOT NULL,
					role TEXT,
					PRIMARY KEY (interaction_id, person_id),
					FOREIGN KEY (interaction_id) REFERENCES interactions(id),
					FOREIGN KEY (person_id) REFERENCES people(id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Track processed and filtered messages",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS processed_messages (
					user_id INTEGER NOT NULL,
					message_id TEXT NOT NULL,
					thread_id TEXT,
					filtered INTEGER NOT NULL DEFAULT 0,
					filter_reason TEXT,
					processed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, message_id),
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_processed_messages_thread ON processed_messages(thread_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d",
			common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
