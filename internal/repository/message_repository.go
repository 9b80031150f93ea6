package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ecinar/unified-inbox/internal/domain"
)

// MessageRepository handles database operations for messages.
type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetByProviderSid looks up a message by the provider-assigned delivery
// id. Returns nil when no message has been ingested for that id.
func (r *MessageRepository) GetByProviderSid(ctx context.Context, providerSid string) (*domain.Message, error) {
	query := `
		SELECT id, thread_id, direction, channel, body, media, from_addr, to_addr,
		       status, channel_meta, provider_sid, received_at, created_at
		FROM messages
		WHERE provider_sid = ?
	`

	var message domain.Message
	if err := r.db.GetContext(ctx, &message, query, providerSid); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message by provider sid: %w", err)
	}

	return &message, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `
		SELECT id, thread_id, direction, channel, body, media, from_addr, to_addr,
		       status, channel_meta, provider_sid, received_at, created_at
		FROM messages
		WHERE id = ?
	`

	var message domain.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

// CreateInbound persists an inbound message and the owning thread's
// unread/last-activity flags in one transaction, so a redelivered
// webhook can never observe the message without the thread update.
// Returns ErrDuplicate when the provider sid is already ingested.
func (r *MessageRepository) CreateInbound(ctx context.Context, msg *domain.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
		INSERT INTO messages
			(id, thread_id, direction, channel, body, media, from_addr, to_addr,
			 status, channel_meta, provider_sid, received_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	_, err = tx.ExecContext(ctx, insertQuery,
		msg.ID, msg.ThreadID, msg.Direction, msg.Channel, msg.Body, msg.Media,
		msg.From, msg.To, msg.Status, msg.ChannelMeta, msg.ProviderSid, msg.ReceivedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create inbound message: %w", err)
	}

	threadQuery := `
		UPDATE threads
		SET unread = TRUE, last_message_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := tx.ExecContext(ctx, threadQuery, msg.ReceivedAt, msg.ThreadID); err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inbound message: %w", err)
	}

	return nil
}

// CreateOutbound persists a message produced by an immediate or
// scheduled send and bumps the thread's last activity.
func (r *MessageRepository) CreateOutbound(ctx context.Context, msg *domain.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
		INSERT INTO messages
			(id, thread_id, direction, channel, body, media, from_addr, to_addr,
			 status, channel_meta, provider_sid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	_, err = tx.ExecContext(ctx, insertQuery,
		msg.ID, msg.ThreadID, msg.Direction, msg.Channel, msg.Body, msg.Media,
		msg.From, msg.To, msg.Status, msg.ChannelMeta, msg.ProviderSid,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create outbound message: %w", err)
	}

	threadQuery := `
		UPDATE threads
		SET last_message_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := tx.ExecContext(ctx, threadQuery, msg.ThreadID); err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outbound message: %w", err)
	}

	return nil
}

func (r *MessageRepository) ListByThread(
	ctx context.Context,
	threadID string,
	page, pageSize int,
) ([]domain.Message, int64, error) {
	offset := (page - 1) * pageSize

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM messages WHERE thread_id = ?"
	if err := r.db.GetContext(ctx, &totalCount, countQuery, threadID); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT id, thread_id, direction, channel, body, media, from_addr, to_addr,
		       status, channel_meta, provider_sid, received_at, created_at
		FROM messages
		WHERE thread_id = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?
	`

	var messages []domain.Message
	if err := r.db.SelectContext(ctx, &messages, query, threadID, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, totalCount, nil
}

func (r *MessageRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM messages"); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (r *MessageRepository) CountByChannel(ctx context.Context) ([]domain.ChannelCount, error) {
	query := `
		SELECT channel, COUNT(*) AS count
		FROM messages
		GROUP BY channel
		ORDER BY count DESC
	`

	var counts []domain.ChannelCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count messages by channel: %w", err)
	}

	return counts, nil
}

func (r *MessageRepository) CountByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS date, COUNT(*) AS count
		FROM messages
		WHERE created_at >= ?
		GROUP BY date
		ORDER BY date ASC
	`

	var counts []domain.DailyCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("failed to count messages by day: %w", err)
	}

	return counts, nil
}
