package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecinar/unified-inbox/internal/domain"
)

const maxNoteLength = 2000

type noteRepository interface {
	Create(ctx context.Context, threadID, authorID, content string, isPrivate bool) (*domain.Note, error)
	ListByThread(ctx context.Context, threadID string) ([]domain.Note, error)
}

// NoteService manages team annotations on threads.
type NoteService struct {
	notes noteRepository
}

func NewNoteService(notes noteRepository) *NoteService {
	return &NoteService{notes: notes}
}

func (s *NoteService) Create(
	ctx context.Context,
	threadID, authorID, content string,
	isPrivate bool,
) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("note content required")
	}
	if len(content) > maxNoteLength {
		return nil, fmt.Errorf("note content too long (max %d characters)", maxNoteLength)
	}

	return s.notes.Create(ctx, threadID, authorID, content, isPrivate)
}

func (s *NoteService) ListByThread(ctx context.Context, threadID string) ([]domain.Note, error) {
	return s.notes.ListByThread(ctx, threadID)
}
