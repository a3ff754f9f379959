package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/domain"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

func newTestApp(tm *TokenManager, revocations RevocationStore, gate fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message, "code": de.Code})
		},
	})
	mw := NewAuthMiddleware(tm, revocations)
	app.Get("/protected", mw.Handle, gate, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.Username)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", time.Hour)
	revocations := NewMemoryRevocationStore()
	app := newTestApp(tm, revocations, RequireRole())

	staffToken, _ := tm.GenerateToken("staff", domain.RoleStaff)

	if code := doRequest(t, app, ""); code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", code)
	}
	if code := doRequest(t, app, "Basic abc"); code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: expected 401, got %d", code)
	}
	if code := doRequest(t, app, "Bearer not-a-token"); code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", code)
	}
	if code := doRequest(t, app, "Bearer "+staffToken.Token); code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", code)
	}

	if err := revocations.Revoke(context.Background(), staffToken.TokenID, staffToken.ExpiresAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if code := doRequest(t, app, "Bearer "+staffToken.Token); code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", code)
	}
}

func TestRequireSupervisor(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", time.Hour)
	app := newTestApp(tm, nil, RequireSupervisor())

	cases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleStaff, http.StatusForbidden},
		{domain.RoleSupervisor, http.StatusOK},
		{domain.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		issued, _ := tm.GenerateToken("someone", tc.role)
		if code := doRequest(t, app, "Bearer "+issued.Token); code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.role, tc.want, code)
		}
	}
}

func TestMemoryRevocationStoreExpires(t *testing.T) {
	store := NewMemoryRevocationStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.Revoke(context.Background(), "a", now.Add(time.Minute))
	_ = store.Revoke(context.Background(), "b", now.Add(-time.Minute))

	if revoked, _ := store.IsRevoked(context.Background(), "a"); !revoked {
		t.Fatal("expected a revoked")
	}
	if revoked, _ := store.IsRevoked(context.Background(), "b"); revoked {
		t.Fatal("expected already-expired id to be ignored")
	}

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	if revoked, _ := store.IsRevoked(context.Background(), "a"); revoked {
		t.Fatal("expected revocation to lapse with the token")
	}
}
