//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/persistence"
	"github.com/foundit/lostfound-service/internal/repository"
)

// Run with: POSTGRES_TEST_DSN=postgres://... go test -tags integration ./internal/repository/
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE notifications, claims, posts, accounts`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func createAccount(t *testing.T, pool *pgxpool.Pool, username string, role domain.Role) *domain.Account {
	t.Helper()
	account := &domain.Account{Email: username + "@students.riphah.edu.pk", Username: username, PasswordHash: "x", Role: role}
	if err := repository.NewAccountRepository(pool).Create(context.Background(), account); err != nil {
		t.Fatalf("create account %s: %v", username, err)
	}
	return account
}

func createPost(t *testing.T, pool *pgxpool.Pool, owner *domain.Account, item string) *domain.Post {
	t.Helper()
	post := &domain.Post{Name: item, Item: item, Desc: "d", Status: domain.PostStatusFound, UserID: owner.ID}
	if err := repository.NewPostRepository(pool).Create(context.Background(), post); err != nil {
		t.Fatalf("create post %s: %v", item, err)
	}
	return post
}

func TestPostgresUniqueAndMissingMapping(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	accounts := repository.NewAccountRepository(pool)
	alice := createAccount(t, pool, "alice", domain.RoleUser)

	err := accounts.Create(ctx, &domain.Account{Email: alice.Email, Username: "other", PasswordHash: "x", Role: domain.RoleUser})
	if !repository.IsUniqueViolation(err, repository.ConstraintAccountEmail) {
		t.Fatalf("expected email violation, got %v", err)
	}
	err = accounts.Create(ctx, &domain.Account{Email: "x@students.riphah.edu.pk", Username: "alice", PasswordHash: "x", Role: domain.RoleUser})
	if !repository.IsUniqueViolation(err, repository.ConstraintAccountUsername) {
		t.Fatalf("expected username violation, got %v", err)
	}

	// malformed uuids surface as not found rather than a driver error
	if _, err := repository.NewPostRepository(pool).GetByID(ctx, "not-a-uuid"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := accounts.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	claim := &domain.Claim{PostID: "00000000-0000-0000-0000-000000000000", ClaimantID: alice.ID, Status: domain.ClaimStatusPending}
	if err := repository.NewClaimRepository(pool).Create(ctx, claim); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling post, got %v", err)
	}
}

func TestPostgresNotificationTrimKeepsNewest(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	notifications := repository.NewNotificationRepository(pool)
	alice := createAccount(t, pool, "alice", domain.RoleUser)
	bob := createAccount(t, pool, "bob", domain.RoleUser)

	if err := notifications.Append(ctx, &domain.Notification{AccountID: bob.ID, Message: "bob-1"}, 2); err != nil {
		t.Fatalf("append: %v", err)
	}
	for _, msg := range []string{"one", "two", "three", "four"} {
		if err := notifications.Append(ctx, &domain.Notification{AccountID: alice.ID, Message: msg}, 2); err != nil {
			t.Fatalf("append %s: %v", msg, err)
		}
	}

	list, err := notifications.ListByAccount(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Message != "three" || list[1].Message != "four" {
		t.Fatalf("unexpected inbox %+v", list)
	}
	other, _ := notifications.ListByAccount(ctx, bob.ID)
	if len(other) != 1 {
		t.Fatalf("trim touched another account: %+v", other)
	}

	cleared, err := notifications.ClearByAccount(ctx, alice.ID)
	if err != nil || cleared != 2 {
		t.Fatalf("clear: %d %v", cleared, err)
	}
}

func TestPostgresClaimListingAndCounts(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	claims := repository.NewClaimRepository(pool)
	owner := createAccount(t, pool, "owner", domain.RoleUser)
	bob := createAccount(t, pool, "bob", domain.RoleUser)
	carol := createAccount(t, pool, "carol", domain.RoleUser)
	post := createPost(t, pool, owner, "Wallet")

	first := &domain.Claim{PostID: post.ID, ClaimantID: bob.ID, Status: domain.ClaimStatusPending}
	if err := claims.Create(ctx, first); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := claims.Create(ctx, &domain.Claim{PostID: post.ID, ClaimantID: carol.ID, Status: domain.ClaimStatusPending}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	err := claims.Create(ctx, &domain.Claim{PostID: post.ID, ClaimantID: bob.ID, Status: domain.ClaimStatusPending})
	if !repository.IsUniqueViolation(err, repository.ConstraintClaimPostClaimer) {
		t.Fatalf("expected claim violation, got %v", err)
	}
	if err := claims.UpdateStatus(ctx, first.ID, domain.ClaimStatusApproved); err != nil {
		t.Fatalf("update: %v", err)
	}

	counts := []struct {
		statuses []domain.ClaimStatus
		want     int64
	}{
		{nil, 2},
		{[]domain.ClaimStatus{domain.ClaimStatusPending}, 1},
		{[]domain.ClaimStatus{domain.ClaimStatusApproved, domain.ClaimStatusDenied}, 1},
	}
	for _, tc := range counts {
		got, err := claims.CountByStatus(ctx, tc.statuses...)
		if err != nil || got != tc.want {
			t.Fatalf("count %v: got %d (%v), want %d", tc.statuses, got, err, tc.want)
		}
	}

	details, err := claims.ListDetailed(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(details))
	}
	for _, d := range details {
		if d.Post == nil || d.Post.Item != "Wallet" || d.Post.Poster.Username != "owner" {
			t.Fatalf("post not joined: %+v", d.Post)
		}
		if d.Claimant == nil || (d.Claimant.Username != "bob" && d.Claimant.Username != "carol") {
			t.Fatalf("claimant not joined: %+v", d.Claimant)
		}
	}
}

func TestPostgresTransactorRollsBack(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	posts := repository.NewPostRepository(pool)
	owner := createAccount(t, pool, "owner", domain.RoleUser)
	post := createPost(t, pool, owner, "Keys")

	boom := errors.New("boom")
	err := repository.NewTransactor(pool).WithinTx(ctx, func(ctx context.Context) error {
		if err := posts.UpdateStatus(ctx, post.ID, domain.PostStatusClaimed); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := posts.GetByID(ctx, post.ID)
	if err != nil || got.Status != domain.PostStatusFound {
		t.Fatalf("expected rollback to found, got %+v %v", got, err)
	}

	newest := createPost(t, pool, owner, "Umbrella")
	list, _ := posts.ListByOwner(ctx, owner.ID)
	if len(list) != 2 || list[0].ID != newest.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
}
