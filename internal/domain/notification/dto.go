package notification

import (
	"time"
)

// ============= Request DTOs =============

// CreateNotificationRequest carries everything needed to persist one
// notification. Data is the type-specific payload.
type CreateNotificationRequest struct {
	UserID    string
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
	ActionURL *string
}

// MarkAsReadRequest marks one or more notifications as read.
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1"`
}

// ============= Response DTOs =============

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ActionURL *string                `json:"action_url,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResponse is a paginated list. UnreadCount is the server
// truth clients reconcile their local counter against.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// UnreadCountResponse is the unread-count widget payload.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// StreamTokenResponse carries a short-lived token for the SSE stream.
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
