package dto

import (
	"time"

	"github.com/foundit/lostfound-service/internal/domain"
)

// CreatePostRequest carries the text fields of a post. Multipart forms and
// JSON bodies bind to the same struct.
type CreatePostRequest struct {
	Name     string `json:"name" form:"name"`
	Item     string `json:"item" form:"item"`
	Desc     string `json:"desc" form:"desc"`
	Status   string `json:"status" form:"status"`
	Contact  string `json:"contact" form:"contact"`
	Location string `json:"location" form:"location"`
}

// PosterResponse is the public owner view joined onto a post.
type PosterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// PostResponse is the API view of a post.
type PostResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Item     string            `json:"item"`
	Desc     string            `json:"desc"`
	ImageURL *string           `json:"imageUrl"`
	Status   domain.PostStatus `json:"status"`
	Contact  string            `json:"contact"`
	Location string            `json:"location"`
	Date     time.Time         `json:"date"`
	UserID   string            `json:"userId"`
	Poster   *PosterResponse   `json:"poster,omitempty"`
}

// NewPostResponse maps a post to its API view.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:       p.ID,
		Name:     p.Name,
		Item:     p.Item,
		Desc:     p.Desc,
		ImageURL: p.ImageURL,
		Status:   p.Status,
		Contact:  p.Contact,
		Location: p.Location,
		Date:     p.Date,
		UserID:   p.UserID,
		Poster:   newPoster(p.Poster),
	}
}

// NewPostList maps a slice of posts, never returning nil.
func NewPostList(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}

func newPoster(s *domain.AccountSummary) *PosterResponse {
	if s == nil {
		return nil
	}
	return &PosterResponse{ID: s.ID, Username: s.Username, Email: s.Email}
}
