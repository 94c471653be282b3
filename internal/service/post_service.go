package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/repository"
	"github.com/foundit/lostfound-service/internal/storage"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, upload storage.Upload) (string, error)
	Remove(ctx context.Context, url string) error
}

// PostService coordinates post workflows.
type PostService struct {
	posts      repository.PostRepository
	images     ImageStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Images     ImageStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Name     string
	Item     string
	Desc     string
	Status   domain.PostStatus
	Contact  string
	Location string
	Image    *storage.Upload
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		posts:      deps.PostRepo,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreatePost validates and stores a post owned by owner. The image is written
// only after the fields validate and is removed again if the insert fails.
func (s *PostService) CreatePost(ctx context.Context, owner *domain.Account, input PostCreateInput) (*domain.Post, error) {
	post := &domain.Post{
		Name:     strings.TrimSpace(input.Name),
		Item:     strings.TrimSpace(input.Item),
		Desc:     strings.TrimSpace(input.Desc),
		Status:   domain.PostStatus(strings.ToLower(strings.TrimSpace(string(input.Status)))),
		Location: strings.TrimSpace(input.Location),
		UserID:   owner.ID,
	}
	if post.Name == "" || post.Item == "" || post.Desc == "" {
		return nil, apperrors.NewValidationError("Name, item, and description are required", nil)
	}
	if post.Status == "" {
		post.Status = domain.PostStatusLost
	}
	if post.Status != domain.PostStatusLost && post.Status != domain.PostStatusFound {
		return nil, apperrors.NewValidationError("Status must be lost or found", nil)
	}
	if post.Status == domain.PostStatusLost {
		post.Contact = strings.TrimSpace(input.Contact)
		if post.Contact == "" {
			return nil, apperrors.NewValidationError("Contact is required for lost items", nil)
		}
	}

	if input.Image != nil {
		if s.images == nil {
			return nil, apperrors.NewInternalError(errors.New("image store not configured"))
		}
		url, err := s.images.Save(ctx, *input.Image)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) {
				return nil, apperrors.NewValidationError("Only images allowed", nil)
			}
			if errors.Is(err, storage.ErrImageTooLarge) {
				return nil, apperrors.NewValidationError("Image is too large", nil)
			}
			return nil, apperrors.NewInternalError(err)
		}
		post.ImageURL = &url
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if post.ImageURL != nil {
			if rmErr := s.images.Remove(ctx, *post.ImageURL); rmErr != nil {
				s.logger.Warn("failed to remove orphaned image", zap.String("url", *post.ImageURL), zap.Error(rmErr))
			}
		}
		return nil, apperrors.NewInternalError(err)
	}
	post.Poster = &domain.AccountSummary{ID: owner.ID, Username: owner.Username, Email: owner.Email}

	if s.dispatcher != nil {
		event := events.New(events.EventPostCreated,
			events.Actor{AccountID: owner.ID, Role: owner.Role},
			events.PostCreatedPayload{PostID: post.ID, Item: post.Item, Status: post.Status})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return post, nil
}

// ListPosts returns every post, newest first, with poster fields joined.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return posts, nil
}

// GetPost fetches a post by id.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Post", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return post, nil
}

// ListPostsByOwner returns the owner's posts, newest first.
func (s *PostService) ListPostsByOwner(ctx context.Context, userID string) ([]domain.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return posts, nil
}
