// Package memory provides an in-process implementation of the repository
// interfaces for local development and tests. A transaction holds a
// store-wide lock that calls outside it wait on; a failed callback restores
// the snapshot taken when it began.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/repository"
)

type state struct {
	accounts      []domain.Account
	posts         []domain.Post
	claims        []domain.Claim
	notifications []domain.Notification
}

func (s state) clone() state {
	return state{
		accounts:      slices.Clone(s.accounts),
		posts:         slices.Clone(s.posts),
		claims:        slices.Clone(s.claims),
		notifications: slices.Clone(s.notifications),
	}
}

// Store holds every collection behind one lock. An open transaction holds
// txMu exclusively, so calls outside it wait until it commits or rolls back.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	data state
	now  func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

type txKey struct{}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// enter admits a call made outside a transaction once no transaction is open.
// Calls made with a transaction's ctx already run under its lock.
func (s *Store) enter(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.txMu.RLock()
	return s.txMu.RUnlock
}

// Accounts returns the account repository view.
func (s *Store) Accounts() repository.AccountRepository { return accounts{s} }

// Posts returns the post repository view.
func (s *Store) Posts() repository.PostRepository { return posts{s} }

// Claims returns the claim repository view.
func (s *Store) Claims() repository.ClaimRepository { return claims{s} }

// Notifications returns the notification repository view.
func (s *Store) Notifications() repository.NotificationRepository { return notifications{s} }

func (s *Store) summary(accountID string) *domain.AccountSummary {
	for _, a := range s.data.accounts {
		if a.ID == accountID {
			return &domain.AccountSummary{ID: a.ID, Username: a.Username, Email: a.Email}
		}
	}
	return &domain.AccountSummary{ID: accountID}
}

func (s *Store) postIndex(id string) int {
	return slices.IndexFunc(s.data.posts, func(p domain.Post) bool { return p.ID == id })
}

func (s *Store) claimIndex(id string) int {
	return slices.IndexFunc(s.data.claims, func(c domain.Claim) bool { return c.ID == id })
}

type accounts struct{ s *Store }

func (r accounts) Create(ctx context.Context, account *domain.Account) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return &repository.UniqueViolation{Constraint: repository.ConstraintAccountEmail}
		}
		if existing.Username == account.Username {
			return &repository.UniqueViolation{Constraint: repository.ConstraintAccountUsername}
		}
	}
	account.ID = uuid.NewString()
	account.CreatedAt = r.s.now()
	r.s.data.accounts = append(r.s.data.accounts, *account)
	return nil
}

func (r accounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	defer r.s.enter(ctx)()
	return r.find(func(a domain.Account) bool { return a.ID == id })
}

func (r accounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	defer r.s.enter(ctx)()
	return r.find(func(a domain.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r accounts) find(match func(domain.Account) bool) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.data.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

type posts struct{ s *Store }

func (r posts) Create(ctx context.Context, post *domain.Post) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.data.accounts, func(a domain.Account) bool { return a.ID == post.UserID }) {
		return repository.ErrNotFound
	}
	post.ID = uuid.NewString()
	post.Date = r.s.now()
	stored := *post
	stored.Poster = nil
	r.s.data.posts = append(r.s.data.posts, stored)
	return nil
}

func (r posts) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := r.s.postIndex(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	post := r.s.data.posts[idx]
	post.Poster = r.s.summary(post.UserID)
	return &post, nil
}

func (r posts) List(ctx context.Context) ([]domain.Post, error) {
	defer r.s.enter(ctx)()
	return r.newestFirst(func(domain.Post) bool { return true }), nil
}

func (r posts) ListByOwner(ctx context.Context, userID string) ([]domain.Post, error) {
	defer r.s.enter(ctx)()
	return r.newestFirst(func(p domain.Post) bool { return p.UserID == userID }), nil
}

func (r posts) newestFirst(match func(domain.Post) bool) []domain.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Post{}
	for i := len(r.s.data.posts) - 1; i >= 0; i-- {
		post := r.s.data.posts[i]
		if !match(post) {
			continue
		}
		post.Poster = r.s.summary(post.UserID)
		result = append(result, post)
	}
	return result
}

func (r posts) UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.postIndex(id)
	if idx < 0 {
		return repository.ErrNotFound
	}
	r.s.data.posts[idx].Status = status
	return nil
}

func (r posts) Count(ctx context.Context) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.data.posts)), nil
}

type claims struct{ s *Store }

func (r claims) Create(ctx context.Context, claim *domain.Claim) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.postIndex(claim.PostID) < 0 {
		return repository.ErrNotFound
	}
	for _, existing := range r.s.data.claims {
		if existing.PostID == claim.PostID && existing.ClaimantID == claim.ClaimantID {
			return &repository.UniqueViolation{Constraint: repository.ConstraintClaimPostClaimer}
		}
	}
	claim.ID = uuid.NewString()
	claim.ClaimedAt = r.s.now()
	r.s.data.claims = append(r.s.data.claims, *claim)
	return nil
}

func (r claims) GetForUpdate(ctx context.Context, id string) (*domain.Claim, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx := r.s.claimIndex(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	claim := r.s.data.claims[idx]
	return &claim, nil
}

func (r claims) UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.claimIndex(id)
	if idx < 0 {
		return repository.ErrNotFound
	}
	r.s.data.claims[idx].Status = status
	return nil
}

func (r claims) ListDetailed(ctx context.Context) ([]domain.ClaimDetail, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.ClaimDetail{}
	for i := len(r.s.data.claims) - 1; i >= 0; i-- {
		claim := r.s.data.claims[i]
		detail := domain.ClaimDetail{Claim: claim, Claimant: r.s.summary(claim.ClaimantID)}
		if idx := r.s.postIndex(claim.PostID); idx >= 0 {
			post := r.s.data.posts[idx]
			post.Poster = r.s.summary(post.UserID)
			detail.Post = &post
		}
		result = append(result, detail)
	}
	return result, nil
}

func (r claims) CountByStatus(ctx context.Context, statuses ...domain.ClaimStatus) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, claim := range r.s.data.claims {
		if len(statuses) == 0 || slices.Contains(statuses, claim.Status) {
			total++
		}
	}
	return total, nil
}

type notifications struct{ s *Store }

func (r notifications) Append(ctx context.Context, n *domain.Notification, keep int) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.data.accounts, func(a domain.Account) bool { return a.ID == n.AccountID }) {
		return repository.ErrNotFound
	}
	n.ID = uuid.NewString()
	n.Date = r.s.now()
	r.s.data.notifications = append(r.s.data.notifications, *n)

	if keep <= 0 {
		return nil
	}
	var owned int
	for _, existing := range r.s.data.notifications {
		if existing.AccountID == n.AccountID {
			owned++
		}
	}
	drop := owned - keep
	if drop <= 0 {
		return nil
	}
	r.s.data.notifications = slices.DeleteFunc(r.s.data.notifications, func(existing domain.Notification) bool {
		if drop > 0 && existing.AccountID == n.AccountID {
			drop--
			return true
		}
		return false
	})
	return nil
}

func (r notifications) ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Notification{}
	for _, n := range r.s.data.notifications {
		if n.AccountID == accountID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r notifications) ClearByAccount(ctx context.Context, accountID string) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := len(r.s.data.notifications)
	r.s.data.notifications = slices.DeleteFunc(r.s.data.notifications, func(n domain.Notification) bool {
		return n.AccountID == accountID
	})
	return int64(before - len(r.s.data.notifications)), nil
}
