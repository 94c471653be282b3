package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/foundit/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventPostCreated       EventType = "post_created"
	EventClaimCreated      EventType = "claim_created"
	EventClaimApproved     EventType = "claim_approved"
	EventClaimDenied       EventType = "claim_denied"
)

// AllEventTypes lists every type, in publication order of a typical claim.
var AllEventTypes = []EventType{
	EventAccountRegistered,
	EventPostCreated,
	EventClaimCreated,
	EventClaimApproved,
	EventClaimDenied,
}

// Actor identifies who caused an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a committed domain fact emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	AccountID string      `json:"account_id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	PostID string            `json:"post_id"`
	Item   string            `json:"item"`
	Status domain.PostStatus `json:"status"`
}

// ClaimPayload is shared by claim lifecycle events.
type ClaimPayload struct {
	ClaimID    string             `json:"claim_id"`
	PostID     string             `json:"post_id"`
	ClaimantID string             `json:"claimant_id"`
	Item       string             `json:"item,omitempty"`
	Status     domain.ClaimStatus `json:"status"`
}
