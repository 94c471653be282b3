package domain

import "time"

// Notification is one inbox entry for an account.
type Notification struct {
	ID        string
	AccountID string
	Message   string
	Date      time.Time
}
