package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateOrGetUser returns the id of the account holder row for the given
// email, creating it on first sight. The email is the natural key.
func (s *SQLiteStorage) CreateOrGetUser(ctx context.Context, email, name string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(email, "email"); err != nil {
		return 0, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, name)
		VALUES (?, ?)
		ON CONFLICT(email) DO NOTHING
	`, email, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	if id, err = result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	// Lost the insert to a concurrent writer; the row exists now.
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read user: %w", err)
	}
	return id, nil
}
