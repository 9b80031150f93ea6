package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/repository"
)

// ErrContactExists is returned when an explicit create collides with an
// existing phone or email. Unlike the resolver path, the contacts API
// surfaces this as a conflict.
var ErrContactExists = errors.New("contact already exists")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type contactRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Create(ctx context.Context, name string, phone, email *string) (*domain.Contact, error)
	ExistsByPhoneOrEmail(ctx context.Context, phone, email *string) (bool, error)
	ListWithLatestThread(ctx context.Context, limit int) ([]domain.ContactWithThread, error)
}

type contactThreadLister interface {
	ListByContact(ctx context.Context, contactID string) ([]domain.Thread, error)
}

// ContactService handles the explicit contacts API.
type ContactService struct {
	contacts contactRepository
	threads  contactThreadLister
}

func NewContactService(contacts contactRepository, threads contactThreadLister) *ContactService {
	return &ContactService{contacts: contacts, threads: threads}
}

const maxContactNameLength = 100

// Create validates, sanitizes, and stores a contact. At least one of
// phone/email must be present.
func (s *ContactService) Create(ctx context.Context, name, phone, email string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > maxContactNameLength {
		name = name[:maxContactNameLength]
	}

	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("at least one of phone or email is required")
	}

	var phonePtr, emailPtr *string

	if phone != "" {
		sanitized := SanitizePhone(phone)
		if len(sanitized) < 10 || len(sanitized) > 15 {
			return nil, fmt.Errorf("invalid phone number")
		}
		phonePtr = &sanitized
	}

	if email != "" {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if !emailPattern.MatchString(normalized) {
			return nil, fmt.Errorf("invalid email format")
		}
		emailPtr = &normalized
	}

	exists, err := s.contacts.ExistsByPhoneOrEmail(ctx, phonePtr, emailPtr)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing contact: %w", err)
	}
	if exists {
		return nil, ErrContactExists
	}

	contact, err := s.contacts.Create(ctx, name, phonePtr, emailPtr)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactExists
		}
		return nil, err
	}

	return contact, nil
}

func (s *ContactService) List(ctx context.Context, limit int) ([]domain.ContactWithThread, error) {
	return s.contacts.ListWithLatestThread(ctx, limit)
}

// GetDetail returns one contact together with all of its threads, or
// nil when no contact owns the id.
func (s *ContactService) GetDetail(ctx context.Context, id string) (*domain.ContactDetail, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, nil
	}

	threads, err := s.threads.ListByContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact threads: %w", err)
	}
	if threads == nil {
		threads = []domain.Thread{}
	}

	return &domain.ContactDetail{Contact: *contact, Threads: threads}, nil
}
