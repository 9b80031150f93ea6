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

// ScheduledRepository is the durable queue of pending sends.
type ScheduledRepository struct {
	db *sqlx.DB
}

func NewScheduledRepository(db *sqlx.DB) *ScheduledRepository {
	return &ScheduledRepository{db: db}
}

// Enqueue creates a new PENDING job. Repeated calls with identical
// content create distinct jobs; scheduling is an explicit user action.
func (r *ScheduledRepository) Enqueue(
	ctx context.Context,
	threadID *string,
	contactID string,
	channel domain.Channel,
	body string,
	media domain.MediaList,
	scheduledAt time.Time,
) (*domain.ScheduledMessage, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO scheduled_messages
			(id, thread_id, contact_id, channel, body, media, scheduled_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'PENDING', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, id, threadID, contactID, channel, body, media, scheduledAt); err != nil {
		return nil, fmt.Errorf("failed to enqueue scheduled message: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *ScheduledRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledMessage, error) {
	query := `
		SELECT id, thread_id, contact_id, channel, body, media, scheduled_at, status, created_at, updated_at
		FROM scheduled_messages
		WHERE id = ?
	`

	var job domain.ScheduledMessage
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scheduled message: %w", err)
	}

	return &job, nil
}

// ClaimDue returns up to limit PENDING jobs due at or before now,
// earliest first. Claiming is not atomic across the batch; the per-job
// Transition is what prevents double-processing.
func (r *ScheduledRepository) ClaimDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]domain.ScheduledMessage, error) {
	query := `
		SELECT id, thread_id, contact_id, channel, body, media, scheduled_at, status, created_at, updated_at
		FROM scheduled_messages
		WHERE status = 'PENDING' AND scheduled_at <= ?
		ORDER BY scheduled_at ASC
		LIMIT ?
	`

	var jobs []domain.ScheduledMessage
	if err := r.db.SelectContext(ctx, &jobs, query, now, limit); err != nil {
		return nil, fmt.Errorf("failed to claim due scheduled messages: %w", err)
	}

	return jobs, nil
}

// Transition conditionally moves a job between statuses as a single
// row-level compare-and-swap. Returns false without error when the
// current status no longer matches fromStatus.
func (r *ScheduledRepository) Transition(
	ctx context.Context,
	id string,
	fromStatus, toStatus domain.ScheduledStatus,
) (bool, error) {
	query := `
		UPDATE scheduled_messages
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, toStatus, id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to transition scheduled message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *ScheduledRepository) ListByThread(ctx context.Context, threadID string) ([]domain.ScheduledMessage, error) {
	query := `
		SELECT id, thread_id, contact_id, channel, body, media, scheduled_at, status, created_at, updated_at
		FROM scheduled_messages
		WHERE thread_id = ?
		ORDER BY scheduled_at ASC
	`

	var jobs []domain.ScheduledMessage
	if err := r.db.SelectContext(ctx, &jobs, query, threadID); err != nil {
		return nil, fmt.Errorf("failed to list scheduled messages: %w", err)
	}

	return jobs, nil
}

// ReclaimStuck requeues jobs left RUNNING past the grace period, which
// happens when a dispatcher crashed between claim and resolve. The
// requeued job may be re-sent; that is the accepted at-least-once cost.
func (r *ScheduledRepository) ReclaimStuck(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		UPDATE scheduled_messages
		SET status = 'PENDING', updated_at = CURRENT_TIMESTAMP
		WHERE status = 'RUNNING' AND updated_at < ?
	`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim stuck scheduled messages: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
