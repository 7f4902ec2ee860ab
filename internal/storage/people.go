package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/six-degrees/internal/model"
)

// CreateOrGetPerson returns the id of the contact row matching the candidate
// within the given user's graph, creating it on first sight. The email is the
// natural key; people without an email are keyed on name. Pass companyID 0
// when the person has no known employer.
func (s *SQLiteStorage) CreateOrGetPerson(ctx context.Context, userID int64, person model.PersonCandidate, companyID int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateString(person.Name, "person.Name"); err != nil {
		return 0, err
	}

	email := strings.ToLower(strings.TrimSpace(person.Email))

	var (
		id  int64
		err error
	)
	if email != "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM people WHERE user_id = ? AND email = ?`, userID, email).Scan(&id)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM people WHERE user_id = ? AND email IS NULL AND name = ?`, userID, person.Name).Scan(&id)
	}
	if err == nil {
		return id, s.backfillPerson(ctx, id, person.Role, companyID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up person: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO people (user_id, email, name, role, company_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, email) DO NOTHING
	`, userID, nullString(email), person.Name, nullString(person.Role), nullID(companyID))
	if err != nil {
		return 0, fmt.Errorf("failed to create person: %w", err)
	}

	if id, err = result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM people WHERE user_id = ? AND email = ?`, userID, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read person: %w", err)
	}
	return id, nil
}

// backfillPerson fills role and company on an existing row when they are
// still unknown. Values already present win over later observations.
func (s *SQLiteStorage) backfillPerson(ctx context.Context, personID int64, role string, companyID int64) error {
	if strings.TrimSpace(role) == "" && companyID <= 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE people
		SET role = COALESCE(role, ?),
		    company_id = COALESCE(company_id, ?)
		WHERE id = ?
	`, nullString(role), nullID(companyID), personID)
	if err != nil {
		return fmt.Errorf("failed to backfill person: %w", err)
	}
	return nil
}

// GetPeople returns all contacts in the given user's graph ordered by name.
func (s *SQLiteStorage) GetPeople(ctx context.Context, userID int64) ([]model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(email, ''), name, COALESCE(role, ''), COALESCE(company_id, 0), created_at
		FROM people
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []model.Person
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.UserID, &p.Email, &p.Name, &p.Role, &p.CompanyID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// nullID maps a non-positive id to NULL for optional foreign keys.
func nullID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
