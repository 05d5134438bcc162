package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/service"
)

func newTestTokens(t *testing.T, now func() time.Time) *service.TokenService {
	t.Helper()
	ts, err := service.NewTokenService("middleware-test-secret", time.Hour, service.WithClock(now))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return ts
}

func runAuth(t *testing.T, verifier *service.TokenService, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(verifier)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	ts := newTestTokens(t, time.Now)
	token, err := ts.Issue("nurse-1", domain.RoleNurse)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(ts)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFromContext(c.Request().Context())
		if !ok || p.ID != "nurse-1" || p.Role != domain.RoleNurse {
			t.Fatalf("principal not set on request context: %+v", p)
		}
		if fromEcho, ok := Principal(c); !ok || fromEcho != p {
			t.Fatalf("Principal(c) disagrees with request context: %+v", fromEcho)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	old := newTestTokens(t, func() time.Time { return issuedAt })
	expired, err := old.Issue("client-1", domain.RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := service.NewTokenService("some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	foreign, err := other.Issue("client-1", domain.RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ts := newTestTokens(t, func() time.Time { return issuedAt.Add(2 * time.Hour) })

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"foreign signature", "Bearer " + foreign},
		{"expired", "Bearer " + expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := runAuth(t, ts, tc.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredAndForgedLookAlike(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	old := newTestTokens(t, func() time.Time { return issuedAt })
	expired, _ := old.Issue("client-1", domain.RoleClient)

	ts := newTestTokens(t, func() time.Time { return issuedAt.Add(2 * time.Hour) })

	expiredRec, _ := runAuth(t, ts, "Bearer "+expired)
	forgedRec, _ := runAuth(t, ts, "Bearer "+expired[:len(expired)-2]+"xx")

	if expiredRec.Body.String() != forgedRec.Body.String() {
		t.Fatalf("expected identical bodies, got %q and %q", expiredRec.Body.String(), forgedRec.Body.String())
	}
}
