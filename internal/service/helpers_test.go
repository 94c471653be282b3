package service

import (
	"context"
	"testing"

	"github.com/foundit/lostfound-service/internal/config"
	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/repository"
	"github.com/foundit/lostfound-service/internal/repository/memory"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{
		App:  config.AppConfig{Env: "development"},
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
		Identity: config.IdentityConfig{
			AdminDomains:      []string{"@admin.riphah.edu.pk"},
			UserDomains:       []string{"@students.riphah.edu.pk", "@faculty.riphah.edu.pk"},
			MinPasswordLength: 6,
		},
		Notification: config.NotificationConfig{MaxPerAccount: 100},
	}
}

type testEnv struct {
	store      *memory.Store
	dispatcher events.Dispatcher
	identity   *IdentityService
	posts      *PostService
	claims     *ClaimService
}

func newTestEnv(t *testing.T, notifications repository.NotificationRepository) *testEnv {
	t.Helper()
	store := memory.NewStore()
	if notifications == nil {
		notifications = store.Notifications()
	}
	dispatcher := events.NewInMemoryDispatcher()
	identity := NewIdentityService(testConfig(), IdentityDependencies{
		AccountRepo:      store.Accounts(),
		NotificationRepo: notifications,
		Dispatcher:       dispatcher,
	})
	return &testEnv{
		store:      store,
		dispatcher: dispatcher,
		identity:   identity,
		posts:      NewPostService(PostDependencies{PostRepo: store.Posts(), Dispatcher: dispatcher}),
		claims: NewClaimService(ClaimDependencies{
			Transactor: store,
			ClaimRepo:  store.Claims(),
			PostRepo:   store.Posts(),
			Inbox:      identity,
			Dispatcher: dispatcher,
		}),
	}
}

func (e *testEnv) register(t *testing.T, email string) *domain.Account {
	t.Helper()
	reg, err := e.identity.Register(context.Background(), email, "secret1")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return reg.Account
}

func (e *testEnv) foundPost(t *testing.T, owner *domain.Account, item string) *domain.Post {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), owner, PostCreateInput{
		Name: item, Item: item, Desc: "desc", Status: domain.PostStatusFound,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func assertDomainError(t *testing.T, err error, code string, status int, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	de := apperrors.ToDomainError(err)
	if de.Code != code || de.HTTPStatus != status {
		t.Fatalf("expected %s/%d, got %s/%d (%v)", code, status, de.Code, de.HTTPStatus, err)
	}
	if message != "" && de.Message != message {
		t.Fatalf("expected message %q, got %q", message, de.Message)
	}
}
