package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ecinar/unified-inbox/internal/domain"
)

// ContactRepository handles database operations for contacts.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM contacts
		WHERE id = ?
	`

	var contact domain.Contact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

func (r *ContactRepository) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM contacts
		WHERE phone = ?
	`

	var contact domain.Contact
	if err := r.db.GetContext(ctx, &contact, query, phone); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact by phone: %w", err)
	}

	return &contact, nil
}

// CreateWithPhone inserts a bare contact carrying only a phone number,
// as used by inbound ingestion. Returns ErrDuplicate when the unique
// phone constraint fires so the caller can re-fetch the winner.
func (r *ContactRepository) CreateWithPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO contacts (id, phone, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, id, phone); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Create inserts a fully described contact from the contacts API.
func (r *ContactRepository) Create(ctx context.Context, name string, phone, email *string) (*domain.Contact, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO contacts (id, name, phone, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, id, name, phone, email); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return r.GetByID(ctx, id)
}

// ExistsByPhoneOrEmail reports whether any contact already owns either
// identifier. Used by the explicit-create path to return a conflict.
func (r *ContactRepository) ExistsByPhoneOrEmail(ctx context.Context, phone, email *string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM contacts
		WHERE (? IS NOT NULL AND phone = ?)
		   OR (? IS NOT NULL AND email = ?)
	`

	if err := r.db.GetContext(ctx, &count, query, phone, phone, email, email); err != nil {
		return false, fmt.Errorf("failed to check for existing contact: %w", err)
	}

	return count > 0, nil
}

// ListWithLatestThread returns contacts newest first, each with its most
// recently created thread when one exists.
func (r *ContactRepository) ListWithLatestThread(ctx context.Context, limit int) ([]domain.ContactWithThread, error) {
	query := `
		SELECT c.id, c.name, c.phone, c.email, c.created_at, c.updated_at,
		       t.id AS latest_thread_id, t.channel AS latest_channel, t.last_message_at
		FROM contacts c
		LEFT JOIN threads t ON t.id = (
			SELECT t2.id FROM threads t2
			WHERE t2.contact_id = c.id
			ORDER BY t2.created_at DESC
			LIMIT 1
		)
		ORDER BY c.created_at DESC
		LIMIT ?
	`

	var contacts []domain.ContactWithThread
	if err := r.db.SelectContext(ctx, &contacts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (r *ContactRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts"); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}
