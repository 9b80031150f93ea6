package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/repository"
	"github.com/ecinar/unified-inbox/internal/roles"
)

// ErrUserExists is returned when a create collides with an existing email.
var ErrUserExists = errors.New("user already exists")

type userRepository interface {
	Create(ctx context.Context, email, firstName, lastName *string, role string) (*domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
}

// UserService manages dashboard team members. Roles here only control
// what the dashboard API permits; authentication itself lives upstream.
type UserService struct {
	users userRepository
}

func NewUserService(users userRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, email, firstName, lastName, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}

	// Unknown role strings degrade to VIEWER, same as the request headers.
	normalizedRole := string(roles.Parse(role))

	var firstPtr, lastPtr *string
	if v := strings.TrimSpace(firstName); v != "" {
		firstPtr = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		lastPtr = &v
	}

	user, err := s.users.Create(ctx, &email, firstPtr, lastPtr, normalizedRole)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context, limit int) ([]domain.User, error) {
	return s.users.List(ctx, limit)
}
