package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/six-degrees/internal/model"
)

// CreateOrGetCompany returns the id of the company row matching the
// candidate, creating it on first sight. The domain is the natural key;
// companies without a domain are keyed on name.
func (s *SQLiteStorage) CreateOrGetCompany(ctx context.Context, company model.CompanyCandidate) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(company.Name, "company.Name"); err != nil {
		return 0, err
	}

	domain := strings.ToLower(strings.TrimSpace(company.Domain))

	var (
		id  int64
		err error
	)
	if domain != "" {
		err = s.db.QueryRowContext(ctx, `SELECT id FROM companies WHERE domain = ?`, domain).Scan(&id)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM companies WHERE domain IS NULL AND name = ?`, company.Name).Scan(&id)
	}
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up company: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (name, domain, description)
		VALUES (?, ?, ?)
		ON CONFLICT(domain) DO NOTHING
	`, company.Name, nullString(domain), nullString(company.Context))
	if err != nil {
		return 0, fmt.Errorf("failed to create company: %w", err)
	}

	if id, err = result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	if err := s.db.QueryRowContext(ctx, `SELECT id FROM companies WHERE domain = ?`, domain).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read company: %w", err)
	}
	return id, nil
}

// GetCompanies returns all known companies ordered by name.
func (s *SQLiteStorage) GetCompanies(ctx context.Context) ([]model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(domain, ''), COALESCE(description, ''), created_at
		FROM companies
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Domain, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, nil
}

// nullString maps an empty string to NULL so unique indexes treat absent
// values as distinct.
func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
