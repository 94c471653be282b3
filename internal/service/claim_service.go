package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/repository"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// ClaimMetrics counts committed claim transitions.
type ClaimMetrics interface {
	RecordClaimTransition(status string)
}

// ClaimService runs the claim lifecycle: pending -> approved | denied.
type ClaimService struct {
	tx         repository.Transactor
	claims     repository.ClaimRepository
	posts      repository.PostRepository
	inbox      *IdentityService
	dispatcher events.Dispatcher
	metrics    ClaimMetrics
	logger     *zap.Logger
}

// ClaimDependencies bundles collaborators for the claim service.
type ClaimDependencies struct {
	Transactor repository.Transactor
	ClaimRepo  repository.ClaimRepository
	PostRepo   repository.PostRepository
	Inbox      *IdentityService
	Dispatcher events.Dispatcher
	Metrics    ClaimMetrics
	Logger     *zap.Logger
}

// NewClaimService constructs the service.
func NewClaimService(deps ClaimDependencies) *ClaimService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaimService{
		tx:         deps.Transactor,
		claims:     deps.ClaimRepo,
		posts:      deps.PostRepo,
		inbox:      deps.Inbox,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreateClaim files a pending claim by claimant on a post. The store's
// unique (post, claimant) constraint turns a repeat into a conflict.
func (s *ClaimService) CreateClaim(ctx context.Context, postID string, claimant *domain.Account) (*domain.Claim, error) {
	if claimant.IsAdmin() {
		return nil, apperrors.NewForbidden("Admins cannot claim items")
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Post", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	claim := &domain.Claim{
		PostID:     post.ID,
		ClaimantID: claimant.ID,
		Status:     domain.ClaimStatusPending,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		switch {
		case repository.IsUniqueViolation(err, repository.ConstraintClaimPostClaimer):
			return nil, apperrors.NewConflict("Already claimed", nil)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("Post", nil)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.recordTransition(ctx, events.EventClaimCreated, claimant, claim, post.Item)
	return claim, nil
}

// ApproveClaim marks the claim approved, the post claimed and notifies the
// claimant, all in one transaction. Repeating an approval re-applies every
// effect, so the claimant receives another notification.
func (s *ClaimService) ApproveClaim(ctx context.Context, claimID string, actor *domain.Account) (*domain.Claim, error) {
	return s.resolve(ctx, claimID, domain.ClaimStatusApproved, actor)
}

// DenyClaim marks the claim denied and notifies the claimant in one transaction.
func (s *ClaimService) DenyClaim(ctx context.Context, claimID string, actor *domain.Account) (*domain.Claim, error) {
	return s.resolve(ctx, claimID, domain.ClaimStatusDenied, actor)
}

func (s *ClaimService) resolve(ctx context.Context, claimID string, next domain.ClaimStatus, actor *domain.Account) (*domain.Claim, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("Access denied")
	}

	var (
		claim *domain.Claim
		item  string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		claim, err = s.claims.GetForUpdate(ctx, claimID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("Claim", nil)
			}
			return err
		}
		if !claim.CanTransitionTo(next) {
			return apperrors.NewConflict("Claim already resolved", map[string]any{"status": claim.Status})
		}

		post, err := s.posts.GetByID(ctx, claim.PostID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("Post", nil)
			}
			return err
		}
		item = post.Item

		if err := s.claims.UpdateStatus(ctx, claim.ID, next); err != nil {
			return err
		}
		claim.Status = next

		if next == domain.ClaimStatusApproved {
			if err := s.posts.UpdateStatus(ctx, post.ID, domain.PostStatusClaimed); err != nil {
				return err
			}
		}

		_, err = s.inbox.AppendNotification(ctx, claim.ClaimantID, claimMessage(next, item))
		return err
	})
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, apperrors.NewInternalError(err)
	}

	eventType := events.EventClaimApproved
	if next == domain.ClaimStatusDenied {
		eventType = events.EventClaimDenied
	}
	s.recordTransition(ctx, eventType, actor, claim, item)
	return claim, nil
}

// ClaimStats counts posts, pending claims and resolved claims concurrently.
func (s *ClaimService) ClaimStats(ctx context.Context) (*domain.ClaimStats, error) {
	var stats domain.ClaimStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalPosts, err = s.posts.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingClaims, err = s.claims.CountByStatus(gctx, domain.ClaimStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.ResolvedClaims, err = s.claims.CountByStatus(gctx, domain.ClaimStatusApproved, domain.ClaimStatusDenied)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &stats, nil
}

// ListClaims returns every claim joined with its post and claimant, newest first.
func (s *ClaimService) ListClaims(ctx context.Context) ([]domain.ClaimDetail, error) {
	claims, err := s.claims.ListDetailed(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return claims, nil
}

func (s *ClaimService) recordTransition(ctx context.Context, eventType events.EventType, actor *domain.Account, claim *domain.Claim, item string) {
	if s.metrics != nil {
		s.metrics.RecordClaimTransition(string(claim.Status))
	}
	if s.dispatcher == nil {
		return
	}
	event := events.New(eventType,
		events.Actor{AccountID: actor.ID, Role: actor.Role},
		events.ClaimPayload{
			ClaimID:    claim.ID,
			PostID:     claim.PostID,
			ClaimantID: claim.ClaimantID,
			Item:       item,
			Status:     claim.Status,
		})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func claimMessage(status domain.ClaimStatus, item string) string {
	if status == domain.ClaimStatusApproved {
		return fmt.Sprintf(`Your claim for "%s" has been approved!`, item)
	}
	return fmt.Sprintf(`Your claim for "%s" was denied.`, item)
}
