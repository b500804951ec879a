package models

import "time"

// Notification types
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

type Notification struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Message    string    `json:"message" db:"message"`
	Type       string    `json:"type" db:"type"`
	BinID      *string   `json:"bin_id,omitempty" db:"bin_id"`
	ReadStatus bool      `json:"read_status" db:"read_status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NotificationFilters narrows GET /api/notifications
type NotificationFilters struct {
	ReadStatus *bool
	Limit      int
	Offset     int
}

// CreateNotificationRequest is the body of POST /api/notifications
type CreateNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	BinID   string `json:"bin_id"`
}

// IsValidNotificationType reports whether t is a known notification type
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}
