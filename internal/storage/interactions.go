package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/six-degrees/internal/model"
	"github.com/Veraticus/six-degrees/internal/service"
)

// CreateInteraction records one interaction within the given user's graph.
// The (user, message id) pair is the natural key, so replaying a batch
// returns the existing row's id instead of duplicating it.
func (s *SQLiteStorage) CreateInteraction(ctx context.Context, userID int64, interaction model.InteractionRecord) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateString(interaction.MessageID, "interaction.MessageID"); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM interactions WHERE user_id = ? AND message_id = ?`,
		userID, interaction.MessageID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up interaction: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (user_id, message_id, thread_id, subject, summary, kind, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, message_id) DO NOTHING
	`, userID, interaction.MessageID, nullString(interaction.ThreadID),
		nullString(interaction.Subject), interaction.Summary,
		string(interaction.Kind), interaction.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to create interaction: %w", err)
	}

	if id, err = result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM interactions WHERE user_id = ? AND message_id = ?`,
		userID, interaction.MessageID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read interaction: %w", err)
	}
	return id, nil
}

// AddParticipant links a person to an interaction. Replaying the same link
// is a no-op.
func (s *SQLiteStorage) AddParticipant(ctx context.Context, interactionID, personID int64, role string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(interactionID, "interactionID"); err != nil {
		return err
	}
	if err := validateID(personID, "personID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interaction_participants (interaction_id, person_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT(interaction_id, person_id) DO NOTHING
	`, interactionID, personID, nullString(role))
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// GetInteractions returns a user's interactions newest first, narrowed by the
// optional filter fields.
func (s *SQLiteStorage) GetInteractions(ctx context.Context, userID int64, filter service.InteractionFilter) ([]model.StoredInteraction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		conditions = []string{"i.user_id = ?"}
		args       = []any{userID}
	)
	if filter.StartDate != nil {
		conditions = append(conditions, "i.date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "i.date <= ?")
		args = append(args, *filter.EndDate)
	}

	query := `
		SELECT i.id, i.user_id, i.message_id, COALESCE(i.thread_id, ''),
		       COALESCE(i.subject, ''), i.summary, i.kind, i.date
		FROM interactions i`
	if filter.PersonID > 0 {
		query += `
		JOIN interaction_participants ip ON ip.interaction_id = i.id AND ip.person_id = ?`
		args = append([]any{filter.PersonID}, args...)
	}
	query += `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY i.date DESC, i.id DESC`
	if filter.Limit > 0 {
		query += `
		LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []model.StoredInteraction
	for rows.Next() {
		var i model.StoredInteraction
		if err := rows.Scan(&i.ID, &i.UserID, &i.MessageID, &i.ThreadID,
			&i.Subject, &i.Summary, &i.Kind, &i.Date); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return interactions, nil
}
