package dto

import (
	"time"

	"github.com/foundit/lostfound-service/internal/domain"
)

// ClaimResponse is the API view of a claim. Post and Claimant are set on
// admin listings only.
type ClaimResponse struct {
	ID         string             `json:"id"`
	PostID     string             `json:"postId"`
	ClaimantID string             `json:"claimantId"`
	Status     domain.ClaimStatus `json:"status"`
	ClaimedAt  time.Time          `json:"claimedAt"`
	Post       *PostResponse      `json:"post,omitempty"`
	Claimant   *PosterResponse    `json:"claimant,omitempty"`
}

// ClaimCreatedResponse acknowledges a new claim.
type ClaimCreatedResponse struct {
	Message string        `json:"message"`
	Claim   ClaimResponse `json:"claim"`
}

// ClaimStatsResponse holds the admin dashboard counts.
type ClaimStatsResponse struct {
	TotalPosts     int64 `json:"totalPosts"`
	PendingClaims  int64 `json:"pendingClaims"`
	ResolvedClaims int64 `json:"resolvedClaims"`
}

// NewClaimResponse maps a bare claim.
func NewClaimResponse(c *domain.Claim) ClaimResponse {
	return ClaimResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		ClaimantID: c.ClaimantID,
		Status:     c.Status,
		ClaimedAt:  c.ClaimedAt,
	}
}

// NewClaimList maps joined claims for the admin listing.
func NewClaimList(claims []domain.ClaimDetail) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for i := range claims {
		resp := NewClaimResponse(&claims[i].Claim)
		if claims[i].Post != nil {
			post := NewPostResponse(claims[i].Post)
			resp.Post = &post
		}
		resp.Claimant = newPoster(claims[i].Claimant)
		out = append(out, resp)
	}
	return out
}

// NewClaimStatsResponse maps aggregate counts.
func NewClaimStatsResponse(s *domain.ClaimStats) ClaimStatsResponse {
	return ClaimStatsResponse{
		TotalPosts:     s.TotalPosts,
		PendingClaims:  s.PendingClaims,
		ResolvedClaims: s.ResolvedClaims,
	}
}
