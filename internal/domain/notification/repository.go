package notification

import (
	"context"
	"time"
)

// Repository defines the notification persistence interface.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) (int, error)
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string, userID string) error

	// DeleteOldRead removes read notifications created before cutoff and
	// returns the number removed. Unread notifications are never touched.
	DeleteOldRead(ctx context.Context, cutoff time.Time) (int, error)
}
