package storage

import (
	"context"
	"fmt"
)

// MarkMessageProcessed records that a message made it through extraction for
// the given user. Replaying a message keeps the original row.
func (s *SQLiteStorage) MarkMessageProcessed(ctx context.Context, userID int64, messageID, threadID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_messages (user_id, message_id, thread_id, filtered)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(user_id, message_id) DO NOTHING
	`, userID, messageID, nullString(threadID))
	if err != nil {
		return fmt.Errorf("failed to mark message processed: %w", err)
	}
	return nil
}

// MarkMessageFiltered records that a message was dropped before extraction
// along with the reason it was dropped.
func (s *SQLiteStorage) MarkMessageFiltered(ctx context.Context, userID int64, messageID, reason string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_messages (user_id, message_id, filtered, filter_reason)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(user_id, message_id) DO NOTHING
	`, userID, messageID, nullString(reason))
	if err != nil {
		return fmt.Errorf("failed to mark message filtered: %w", err)
	}
	return nil
}

// IsMessageProcessed reports whether the message has already been seen for
// the given user, whether it was extracted or filtered.
func (s *SQLiteStorage) IsMessageProcessed(ctx context.Context, userID int64, messageID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(userID, "userID"); err != nil {
		return false, err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processed_messages WHERE user_id = ? AND message_id = ?`,
		userID, messageID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check processed message: %w", err)
	}
	return count > 0, nil
}
