package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/foundit/lostfound-service/internal/domain"
)

func TestRegisterAssignsRoleByDomain(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	user, err := env.identity.Register(ctx, "Alice@Students.Riphah.edu.pk", "secret1")
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	if user.Account.Role != domain.RoleUser || user.Account.Email != "alice@students.riphah.edu.pk" {
		t.Fatalf("unexpected account %+v", user.Account)
	}
	if user.Token.Value == "" {
		t.Fatal("expected token")
	}

	// admins skip the length rule
	admin, err := env.identity.Register(ctx, "warden@admin.riphah.edu.pk", "abc")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if admin.Account.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Account.Role)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"foreign domain", "bob@gmail.com", "secret1"},
		{"short password", "bob@students.riphah.edu.pk", "12345"},
		{"empty email", "", "secret1"},
		{"empty password", "bob@students.riphah.edu.pk", ""},
		{"empty admin password", "x@admin.riphah.edu.pk", ""},
		{"no local part", "@students.riphah.edu.pk", "secret1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.identity.Register(context.Background(), tc.email, tc.password)
			assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest, "Invalid email or password")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "alice@students.riphah.edu.pk")

	_, err := env.identity.Register(context.Background(), "alice@students.riphah.edu.pk", "secret1")
	assertDomainError(t, err, "CONFLICT", http.StatusBadRequest, "User already exists")

	env.register(t, "boss@admin.riphah.edu.pk")
	_, err = env.identity.Register(context.Background(), "boss@admin.riphah.edu.pk", "secret1")
	assertDomainError(t, err, "CONFLICT", http.StatusBadRequest, "Admin already exists")
}

func TestRegisterDerivesUniqueUsernames(t *testing.T) {
	env := newTestEnv(t, nil)
	emails := []string{
		"alice@students.riphah.edu.pk",
		"alice@faculty.riphah.edu.pk",
		"alice@admin.riphah.edu.pk",
	}
	want := []string{"alice", "alice1", "alice2"}

	seen := map[string]bool{}
	for i, email := range emails {
		account := env.register(t, email)
		if account.Username != want[i] {
			t.Fatalf("expected username %q, got %q", want[i], account.Username)
		}
		if seen[account.Username] {
			t.Fatalf("duplicate username %q", account.Username)
		}
		seen[account.Username] = true
	}
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "alice@students.riphah.edu.pk")
	ctx := context.Background()

	if _, err := env.identity.Login(ctx, "alice@students.riphah.edu.pk", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, wrongPassword := env.identity.Login(ctx, "alice@students.riphah.edu.pk", "nope123")
	assertDomainError(t, wrongPassword, "UNAUTHORIZED", http.StatusUnauthorized, "Invalid credentials")

	_, unknown := env.identity.Login(ctx, "ghost@students.riphah.edu.pk", "secret1")
	assertDomainError(t, unknown, "UNAUTHORIZED", http.StatusUnauthorized, "Invalid credentials")
}

func TestNotificationInbox(t *testing.T) {
	env := newTestEnv(t, nil)
	account := env.register(t, "alice@students.riphah.edu.pk")
	ctx := context.Background()

	for _, msg := range []string{"first", "second"} {
		if _, err := env.identity.AppendNotification(ctx, account.ID, msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	profile, err := env.identity.Profile(ctx, account.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.Notifications) != 2 || profile.Notifications[0].Message != "first" {
		t.Fatalf("unexpected inbox %+v", profile.Notifications)
	}

	if err := env.identity.ClearNotifications(ctx, account.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	profile, _ = env.identity.Profile(ctx, account.ID)
	if len(profile.Notifications) != 0 {
		t.Fatalf("expected empty inbox, got %d", len(profile.Notifications))
	}

	_, err = env.identity.AppendNotification(ctx, "missing", "hello")
	assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound, "User not found")
}
