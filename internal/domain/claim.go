package domain

import "time"

// ClaimStatus enumerates claim states. Approved and denied are terminal.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusDenied   ClaimStatus = "denied"
)

// Claim records a claimant's assertion on a post.
type Claim struct {
	ID         string
	PostID     string
	ClaimantID string
	Status     ClaimStatus
	ClaimedAt  time.Time
}

// CanTransitionTo reports whether the claim may move to next. Re-applying the
// current terminal state is allowed so an admin can repeat an approval.
func (c *Claim) CanTransitionTo(next ClaimStatus) bool {
	switch c.Status {
	case ClaimStatusPending:
		return next == ClaimStatusApproved || next == ClaimStatusDenied
	case ClaimStatusApproved, ClaimStatusDenied:
		return next == c.Status
	default:
		return false
	}
}

// ClaimDetail is a claim joined with its post and claimant for admin listings.
type ClaimDetail struct {
	Claim
	Post     *Post
	Claimant *AccountSummary
}

// ClaimStats aggregates post and claim counts.
type ClaimStats struct {
	TotalPosts     int64
	PendingClaims  int64
	ResolvedClaims int64
}
