package dto

import (
	"time"

	"github.com/foundit/lostfound-service/internal/domain"
)

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// ProfileResponse is the caller's own profile.
type ProfileResponse struct {
	Username      string                 `json:"username"`
	CreatedAt     time.Time              `json:"createdAt"`
	Notifications []NotificationResponse `json:"notifications"`
}

// NewProfileResponse maps an account and its inbox.
func NewProfileResponse(account *domain.Account, inbox []domain.Notification) ProfileResponse {
	items := make([]NotificationResponse, 0, len(inbox))
	for _, n := range inbox {
		items = append(items, NotificationResponse{Message: n.Message, Date: n.Date})
	}
	return ProfileResponse{Username: account.Username, CreatedAt: account.CreatedAt, Notifications: items}
}
