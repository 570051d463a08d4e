package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/middleware"
)

func newGuardedApp(issuer *auth.TokenIssuer) *fiber.App {
	app := fiber.New()
	app.Get("/private", middleware.RequireAuth(issuer), func(c *fiber.Ctx) error {
		id := c.Locals("accountID").(int64)
		return c.JSON(fiber.Map{"account_id": id})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	app := newGuardedApp(issuer)

	token, _, err := issuer.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusForbidden},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"raw token without scheme", token, http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}
}

func TestRequireAuthRejectsExpired(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), -time.Minute)
	app := newGuardedApp(issuer)

	token, _, err := issuer.Issue(7, "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for expired token, got %d", resp.StatusCode)
	}
}
