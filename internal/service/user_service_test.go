package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/repository"
)

type fakeUserRepo struct {
	createErr error
	created   []*domain.User
}

func (f *fakeUserRepo) Create(
	ctx context.Context,
	email, firstName, lastName *string,
	role string,
) (*domain.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	user := &domain.User{ID: "user-1", Email: email, FirstName: firstName, LastName: lastName, Role: role}
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserRepo) List(ctx context.Context, limit int) ([]domain.User, error) {
	return nil, nil
}

func TestUserCreate_NormalizesEmailAndRole(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), "  Team@Example.COM ", "Sam", "", "EDITOR")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if user.Email == nil || *user.Email != "team@example.com" {
		t.Errorf("expected lowercased email, got %v", user.Email)
	}
	if user.Role != "EDITOR" {
		t.Errorf("expected EDITOR role, got %q", user.Role)
	}
	if user.LastName != nil {
		t.Errorf("expected empty last name to stay nil, got %v", user.LastName)
	}
}

func TestUserCreate_UnknownRoleDegradesToViewer(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), "team@example.com", "", "", "ROOT")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if user.Role != "VIEWER" {
		t.Errorf("expected VIEWER fallback, got %q", user.Role)
	}
}

func TestUserCreate_RequiresValidEmail(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	if _, err := svc.Create(context.Background(), "", "", "", ""); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if _, err := svc.Create(context.Background(), "not-an-email", "", "", ""); err == nil {
		t.Fatalf("expected error for malformed email")
	}
}

func TestUserCreate_DuplicateEmailConflicts(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{createErr: repository.ErrDuplicate})

	_, err := svc.Create(context.Background(), "team@example.com", "", "", "ADMIN")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}
