package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ecinar/unified-inbox/internal/domain"
)

// NoteRepository handles database operations for thread notes.
type NoteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(
	ctx context.Context,
	threadID, authorID, content string,
	isPrivate bool,
) (*domain.Note, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO notes (id, thread_id, author_id, content, is_private, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, id, threadID, authorID, content, isPrivate); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `
		SELECT id, thread_id, author_id, content, is_private, created_at
		FROM notes
		WHERE id = ?
	`

	var note domain.Note
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

func (r *NoteRepository) ListByThread(ctx context.Context, threadID string) ([]domain.Note, error) {
	query := `
		SELECT id, thread_id, author_id, content, is_private, created_at
		FROM notes
		WHERE thread_id = ?
		ORDER BY created_at DESC
	`

	var notes []domain.Note
	if err := r.db.SelectContext(ctx, &notes, query, threadID); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}
