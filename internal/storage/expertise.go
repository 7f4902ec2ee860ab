package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateOrGetExpertiseArea returns the id of the expertise vocabulary row for
// the given name, creating it on first sight.
func (s *SQLiteStorage) CreateOrGetExpertiseArea(ctx context.Context, name, description string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(name, "name"); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM expertise_areas WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up expertise area: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO expertise_areas (name, description)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, nullString(description))
	if err != nil {
		return 0, fmt.Errorf("failed to create expertise area: %w", err)
	}

	if id, err = result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	if err := s.db.QueryRowContext(ctx, `SELECT id FROM expertise_areas WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read expertise area: %w", err)
	}
	return id, nil
}

// AddPersonExpertise links a person to an expertise area. Replaying the same
// link keeps the original confidence and evidence.
func (s *SQLiteStorage) AddPersonExpertise(ctx context.Context, personID, areaID int64, confidence float64, evidence string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(personID, "personID"); err != nil {
		return err
	}
	if err := validateID(areaID, "areaID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO person_expertise (person_id, expertise_id, confidence, evidence)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(person_id, expertise_id) DO NOTHING
	`, personID, areaID, confidence, nullString(evidence))
	if err != nil {
		return fmt.Errorf("failed to add person expertise: %w", err)
	}
	return nil
}
