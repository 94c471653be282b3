package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/repository/memory"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, *domain.Account, *domain.Account) {
	t.Helper()
	store := memory.NewStore()
	user := &domain.Account{Email: "bob@students.riphah.edu.pk", Username: "bob", Role: domain.RoleUser}
	admin := &domain.Account{Email: "root@admin.riphah.edu.pk", Username: "root", Role: domain.RoleAdmin}
	for _, a := range []*domain.Account{user, admin} {
		if err := store.Accounts().Create(context.Background(), a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tokens := NewTokenManager("secret", 60)
	mw := NewAuthMiddleware(tokens, store.Accounts())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
		},
	})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"username": p.Account.Username})
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tokens, user, admin
}

func doGet(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg, _ := body["message"].(string)
	return resp.StatusCode, msg
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens, user, admin := newTestApp(t)
	userToken, _ := tokens.GenerateToken(user)
	adminToken, _ := tokens.GenerateToken(admin)
	forged, _ := NewTokenManager("other", 60).GenerateToken(user)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{"missing token", "/me", "", http.StatusUnauthorized, "Access token required"},
		{"forged token", "/me", forged.Value, http.StatusForbidden, "Invalid token"},
		{"valid user", "/me", userToken.Value, http.StatusOK, ""},
		{"user on admin route", "/admin", userToken.Value, http.StatusForbidden, "Access denied"},
		{"admin on admin route", "/admin", adminToken.Value, http.StatusNoContent, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := doGet(t, app, tc.path, tc.token)
			if status != tc.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tc.wantStatus, status, msg)
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestAuthMiddlewareRejectsUnknownAccount(t *testing.T) {
	app, tokens, _, _ := newTestApp(t)
	ghost, _ := tokens.GenerateToken(&domain.Account{ID: "ghost", Role: domain.RoleUser})

	status, msg := doGet(t, app, "/me", ghost.Value)
	if status != http.StatusForbidden || msg != "Invalid token" {
		t.Fatalf("expected 403 Invalid token, got %d %q", status, msg)
	}
}
