package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
)

// memContactRepo backs the contact service for handler tests.
type memContactRepo struct {
	byID map[string]*domain.Contact
}

func (m *memContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	return m.byID[id], nil
}

func (m *memContactRepo) Create(ctx context.Context, name string, phone, email *string) (*domain.Contact, error) {
	return &domain.Contact{ID: "contact-new", Name: &name, Phone: phone, Email: email}, nil
}

func (m *memContactRepo) ExistsByPhoneOrEmail(ctx context.Context, phone, email *string) (bool, error) {
	return false, nil
}

func (m *memContactRepo) ListWithLatestThread(ctx context.Context, limit int) ([]domain.ContactWithThread, error) {
	return nil, nil
}

type memThreadLister struct {
	byContact map[string][]domain.Thread
}

func (m *memThreadLister) ListByContact(ctx context.Context, contactID string) ([]domain.Thread, error) {
	return m.byContact[contactID], nil
}

func TestGetContact_ReturnsDetailWithThreads(t *testing.T) {
	e := echo.New()

	name := "Jamie Doe"
	repo := &memContactRepo{byID: map[string]*domain.Contact{
		"contact-1": {ID: "contact-1", Name: &name},
	}}
	threads := &memThreadLister{byContact: map[string][]domain.Thread{
		"contact-1": {{ID: "thread-1", ContactID: "contact-1", Channel: domain.ChannelSMS}},
	}}
	handler := NewContactHandler(service.NewContactService(repo, threads))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts/contact-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("contact-1")

	if err := handler.GetContact(c); err != nil {
		t.Fatalf("GetContact returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Success bool                 `json:"success"`
		Data    domain.ContactDetail `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if !resp.Success {
		t.Fatalf("expected Success=true")
	}
	if resp.Data.ID != "contact-1" {
		t.Errorf("expected contact-1, got %q", resp.Data.ID)
	}
	if len(resp.Data.Threads) != 1 || resp.Data.Threads[0].ID != "thread-1" {
		t.Errorf("expected thread-1 in detail, got %+v", resp.Data.Threads)
	}
}

func TestGetContact_UnknownContactIs404(t *testing.T) {
	e := echo.New()

	handler := NewContactHandler(service.NewContactService(&memContactRepo{}, &memThreadLister{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts/no-such-id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("no-such-id")

	if err := handler.GetContact(c); err != nil {
		t.Fatalf("GetContact returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected Success=false")
	}
}
