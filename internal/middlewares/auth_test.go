package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/roles"
	"github.com/ecinar/unified-inbox/pkg/response"
)

func newEchoContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAPIKeyAuth_MissingServerKeyReturns500(t *testing.T) {
	mw := APIKeyAuth("") // server misconfigured

	// Next handler should never be reached
	c, rec := newEchoContext(http.MethodGet, "/test")
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
	if body.Error == "" {
		t.Errorf("expected error message, got empty string")
	}
}

func TestAPIKeyAuth_MissingClientKeyReturns401(t *testing.T) {
	const serverKey = "secret"
	mw := APIKeyAuth(serverKey)

	c, rec := newEchoContext(http.MethodGet, "/test")
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// No x-inbox-auth-key header
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_InvalidClientKeyReturns401(t *testing.T) {
	const serverKey = "secret"
	mw := APIKeyAuth(serverKey)

	c, rec := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(APIKeyHeader, "wrong-key")

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_ValidKeyPassesThrough(t *testing.T) {
	const serverKey = "secret"
	mw := APIKeyAuth(serverKey)

	c, rec := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(APIKeyHeader, serverKey)

	handlerCalled := false
	handler := mw(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !handlerCalled {
		t.Fatalf("expected next handler to be called")
	}
}

func TestCronSecretAuth_MismatchReturns403(t *testing.T) {
	mw := CronSecretAuth("cron-secret")

	c, rec := newEchoContext(http.MethodGet, "/jobs/send-scheduled")
	c.Request().Header.Set(CronSecretHeader, "wrong-secret")

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["ok"] != false {
		t.Errorf("expected ok=false, got %v", body["ok"])
	}
}

func TestCronSecretAuth_MissingHeaderReturns403(t *testing.T) {
	mw := CronSecretAuth("cron-secret")

	c, rec := newEchoContext(http.MethodGet, "/jobs/send-scheduled")
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestCronSecretAuth_ValidSecretPassesThrough(t *testing.T) {
	mw := CronSecretAuth("cron-secret")

	c, rec := newEchoContext(http.MethodGet, "/jobs/send-scheduled")
	c.Request().Header.Set(CronSecretHeader, "cron-secret")

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestResolveRole_ParsesHeadersIntoContext(t *testing.T) {
	mw := ResolveRole()

	c, _ := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(RoleHeader, "EDITOR")
	c.Request().Header.Set(UserIDHeader, "user-42")

	var gotRole roles.Role
	var gotUserID string
	handler := mw(func(c echo.Context) error {
		gotRole = RoleFromContext(c)
		gotUserID = UserIDFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if gotRole != roles.RoleEditor {
		t.Errorf("expected EDITOR role, got %s", gotRole)
	}
	if gotUserID != "user-42" {
		t.Errorf("expected user-42, got %q", gotUserID)
	}
}

func TestResolveRole_UnknownRoleDegradesToViewer(t *testing.T) {
	mw := ResolveRole()

	c, _ := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(RoleHeader, "SUPERUSER")

	var gotRole roles.Role
	handler := mw(func(c echo.Context) error {
		gotRole = RoleFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if gotRole != roles.RoleViewer {
		t.Errorf("expected fallback to VIEWER, got %s", gotRole)
	}
}

func TestRequirePermission_ViewerCannotSend(t *testing.T) {
	mw := RequirePermission(roles.PermSendMessages)

	c, rec := newEchoContext(http.MethodPost, "/messages")
	c.Set("userRole", roles.RoleViewer)

	handlerCalled := false
	handler := mw(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if handlerCalled {
		t.Fatalf("expected next handler to be blocked")
	}
}

func TestRequirePermission_EditorCanSend(t *testing.T) {
	mw := RequirePermission(roles.PermSendMessages)

	c, rec := newEchoContext(http.MethodPost, "/messages")
	c.Set("userRole", roles.RoleEditor)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequirePermission_MissingRoleDefaultsToViewer(t *testing.T) {
	mw := RequirePermission(roles.PermEdit)

	c, rec := newEchoContext(http.MethodPost, "/contacts")

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
