package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/api/dto"
	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/service"
	"github.com/foundit/lostfound-service/internal/storage"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

const imageField = "image"

// PostsHandler serves the lost/found listings.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// ListPosts GET /api/posts.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.posts.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostList(posts))
}

// GetPost GET /api/posts/:id.
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.posts.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(post))
}

// CreatePost POST /api/posts. Accepts multipart with an optional image, or JSON.
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Name, item, and description are required", nil)
	}

	input := service.PostCreateInput{
		Name:     req.Name,
		Item:     req.Item,
		Desc:     req.Desc,
		Status:   domain.PostStatus(req.Status),
		Contact:  req.Contact,
		Location: req.Location,
	}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("Invalid multipart form", nil)
		}
		if files := form.File[imageField]; len(files) > 0 {
			file, err := files[0].Open()
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			defer file.Close()
			input.Image = newUpload(files[0], file)
		}
	}

	post, err := h.posts.CreatePost(c.UserContext(), principal.Account, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPostResponse(post))
}

// ListOwnPosts GET /api/profile/posts.
func (h *PostsHandler) ListOwnPosts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	posts, err := h.posts.ListPostsByOwner(c.UserContext(), principal.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostList(posts))
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

func newUpload(header *multipart.FileHeader, file multipart.File) *storage.Upload {
	return &storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Reader:      file,
	}
}
