package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ecinar/unified-inbox/internal/domain"
)

// ThreadRepository handles database operations for threads.
type ThreadRepository struct {
	db *sqlx.DB
}

func NewThreadRepository(db *sqlx.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*domain.Thread, error) {
	query := `
		SELECT id, contact_id, channel, unread, last_message_at, created_at, updated_at
		FROM threads
		WHERE id = ?
	`

	var thread domain.Thread
	if err := r.db.GetContext(ctx, &thread, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return &thread, nil
}

// GetByContactAndChannel returns the thread for a (contact, channel)
// pair. The unique key on (contact_id, channel) guarantees at most one.
func (r *ThreadRepository) GetByContactAndChannel(
	ctx context.Context,
	contactID string,
	channel domain.Channel,
) (*domain.Thread, error) {
	query := `
		SELECT id, contact_id, channel, unread, last_message_at, created_at, updated_at
		FROM threads
		WHERE contact_id = ? AND channel = ?
	`

	var thread domain.Thread
	if err := r.db.GetContext(ctx, &thread, query, contactID, channel); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thread by contact and channel: %w", err)
	}

	return &thread, nil
}

// ListByContact returns every thread belonging to a contact, most
// recently active first.
func (r *ThreadRepository) ListByContact(ctx context.Context, contactID string) ([]domain.Thread, error) {
	query := `
		SELECT id, contact_id, channel, unread, last_message_at, created_at, updated_at
		FROM threads
		WHERE contact_id = ?
		ORDER BY COALESCE(last_message_at, created_at) DESC
	`

	var threads []domain.Thread
	if err := r.db.SelectContext(ctx, &threads, query, contactID); err != nil {
		return nil, fmt.Errorf("failed to list threads for contact: %w", err)
	}

	return threads, nil
}

// Create inserts a new thread. Returns ErrDuplicate when a concurrent
// ingestion already created one for the same (contact, channel).
func (r *ThreadRepository) Create(
	ctx context.Context,
	contactID string,
	channel domain.Channel,
) (*domain.Thread, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO threads (id, contact_id, channel, unread, created_at, updated_at)
		VALUES (?, ?, ?, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, id, contactID, channel); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	return r.GetByID(ctx, id)
}
