package domain

import "time"

// PostStatus enumerates lifecycle states for a lost/found posting.
type PostStatus string

const (
	PostStatusLost    PostStatus = "lost"
	PostStatusFound   PostStatus = "found"
	PostStatusClaimed PostStatus = "claimed"
)

// Post is a lost or found item listing.
type Post struct {
	ID       string
	Name     string
	Item     string
	Desc     string
	ImageURL *string
	Status   PostStatus
	Contact  string
	Location string
	Date     time.Time
	UserID   string
	// Poster is populated by list/get queries that join the owning account.
	Poster *AccountSummary
}
