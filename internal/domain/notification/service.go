package notification

import (
	"context"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// Service defines the notification operations: the generic persistence
// primitive, one generation helper per domain event, the query/mutation API,
// and the stream subscription.
//
// Helper failures must be treated as non-fatal by the triggering business
// mutation: notifications are best-effort side effects, not part of the
// mutation's transactional contract.
type Service interface {
	// Create persists a notification with IsRead=false and pushes it to the
	// user's live stream subscribers immediately after persistence.
	Create(ctx context.Context, req CreateNotificationRequest) (*Notification, error)

	// Generation helpers, one per domain event.
	InvoiceCreated(ctx context.Context, inv *invoice.Invoice) error
	InvoiceUpdated(ctx context.Context, inv *invoice.Invoice) error
	InvoiceDeleted(ctx context.Context, userID, invoiceNumber, customerName string) error
	InvoicePaid(ctx context.Context, inv *invoice.Invoice) error
	InvoiceOverdue(ctx context.Context, inv *invoice.Invoice) error
	InvoiceReminder(ctx context.Context, inv *invoice.Invoice, daysBefore int) error
	PaymentReceived(ctx context.Context, inv *invoice.Invoice, amount decimal.Decimal) error
	CustomerCreated(ctx context.Context, c *customer.Customer) error
	CustomerUpdated(ctx context.Context, c *customer.Customer) error
	CustomerDeleted(ctx context.Context, userID, name string) error
	SettingsUpdated(ctx context.Context, userID string) error

	// Query and mutation API.
	List(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// CleanupOld deletes read notifications older than daysOld and returns
	// the number removed. Unread notifications are never auto-deleted.
	CleanupOld(ctx context.Context, daysOld int) (int, error)

	// Subscribe attaches a live stream for userID; the returned cleanup must
	// be called when the consumer disconnects.
	Subscribe(ctx context.Context, userID string) (<-chan StreamEvent, func())
}

// StreamEvent is one server-to-client push on the notification stream.
type StreamEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}
