package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRetentionDays is how long read notifications are kept before the
// cleanup sweep removes them.
const DefaultRetentionDays = 30

type service struct {
	repo notification.Repository
	hub  *sse.Hub
	now  func() time.Time
}

// NewNotificationService creates the notification service. Notifications are
// persisted synchronously and pushed to the owner's live subscribers
// immediately after the insert commits.
func NewNotificationService(repo notification.Repository, hub *sse.Hub) notification.Service {
	return &service{
		repo: repo,
		hub:  hub,
		now:  time.Now,
	}
}

// Create persists a notification with IsRead=false, then publishes it on the
// user's stream. A persistence failure propagates to the caller; business
// mutations treat it as non-fatal.
func (s *service) Create(ctx context.Context, req notification.CreateNotificationRequest) (*notification.Notification, error) {
	if !req.Type.IsValid() {
		return nil, notification.ErrInvalidType
	}

	now := s.now()
	n := &notification.Notification{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		IsRead:    false,
		ActionURL: req.ActionURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.hub.Publish(n.UserID, sse.EventNotification, toResponse(n))
	return n, nil
}

// ============= Generation helpers =============

func invoiceActionURL(id string) *string {
	url := "/dashboard/invoices/" + id
	return &url
}

func customerActionURL(id string) *string {
	url := "/dashboard/customers/" + id
	return &url
}

// InvoiceCreated notifies the owner that an invoice was created.
func (s *service) InvoiceCreated(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypeInvoiceCreated,
		Title:   "New Invoice Created",
		Message: fmt.Sprintf("Invoice %s for %s has been created", inv.InvoiceNumber, inv.CustomerName),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"total":          inv.Total,
			"due_date":       inv.DueDate,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// InvoiceUpdated notifies the owner that an invoice changed.
func (s *service) InvoiceUpdated(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypeInvoiceUpdated,
		Title:   "Invoice Updated",
		Message: fmt.Sprintf("Invoice %s for %s has been updated", inv.InvoiceNumber, inv.CustomerName),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"total":          inv.Total,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// InvoiceDeleted notifies the owner that an invoice was removed. The entity
// no longer exists, so there is no action URL.
func (s *service) InvoiceDeleted(ctx context.Context, userID, invoiceNumber, customerName string) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  userID,
		Type:    notification.TypeInvoiceDeleted,
		Title:   "Invoice Deleted",
		Message: fmt.Sprintf("Invoice %s for %s has been deleted", invoiceNumber, customerName),
		Data: map[string]interface{}{
			"invoice_number": invoiceNumber,
			"customer_name":  customerName,
		},
	})
	return err
}

// InvoicePaid notifies the owner that an invoice was settled in full.
func (s *service) InvoicePaid(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypeInvoicePaid,
		Title:   "Invoice Paid",
		Message: fmt.Sprintf("Invoice %s for %s has been paid", inv.InvoiceNumber, inv.CustomerName),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"total":          inv.Total,
			"paid_at":        inv.PaidAt,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// InvoiceOverdue notifies the owner that an invoice passed its due date.
func (s *service) InvoiceOverdue(ctx context.Context, inv *invoice.Invoice) error {
	daysPastDue := inv.DaysPastDue(s.now())
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypeInvoiceOverdue,
		Title:   "Invoice Overdue",
		Message: fmt.Sprintf("Invoice %s for %s is %d day(s) overdue", inv.InvoiceNumber, inv.CustomerName, daysPastDue),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"total":          inv.Total,
			"due_date":       inv.DueDate,
			"days_past_due":  daysPastDue,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// InvoiceReminder notifies the owner that an invoice comes due soon.
// daysBefore is supplied by the scheduler per invoice.
func (s *service) InvoiceReminder(ctx context.Context, inv *invoice.Invoice, daysBefore int) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypeInvoiceReminder,
		Title:   "Upcoming Invoice Due",
		Message: fmt.Sprintf("Invoice %s for %s is due in %d day(s)", inv.InvoiceNumber, inv.CustomerName, daysBefore),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"total":          inv.Total,
			"due_date":       inv.DueDate,
			"days_until_due": daysBefore,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// PaymentReceived notifies the owner of an incoming payment.
func (s *service) PaymentReceived(ctx context.Context, inv *invoice.Invoice, amount decimal.Decimal) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  inv.UserID,
		Type:    notification.TypePaymentReceived,
		Title:   "Payment Received",
		Message: fmt.Sprintf("Payment of %s received for invoice %s", amount.StringFixed(2), inv.InvoiceNumber),
		Data: map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"customer_name":  inv.CustomerName,
			"amount":         amount,
		},
		ActionURL: invoiceActionURL(inv.ID),
	})
	return err
}

// CustomerCreated notifies the owner that a customer was added.
func (s *service) CustomerCreated(ctx context.Context, c *customer.Customer) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  c.UserID,
		Type:    notification.TypeCustomerCreated,
		Title:   "New Customer Added",
		Message: fmt.Sprintf("Customer %s has been added", c.Name),
		Data: map[string]interface{}{
			"customer_id":   c.ID,
			"customer_name": c.Name,
			"email":         c.Email,
		},
		ActionURL: customerActionURL(c.ID),
	})
	return err
}

// CustomerUpdated notifies the owner that a customer changed.
func (s *service) CustomerUpdated(ctx context.Context, c *customer.Customer) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  c.UserID,
		Type:    notification.TypeCustomerUpdated,
		Title:   "Customer Updated",
		Message: fmt.Sprintf("Customer %s has been updated", c.Name),
		Data: map[string]interface{}{
			"customer_id":   c.ID,
			"customer_name": c.Name,
		},
		ActionURL: customerActionURL(c.ID),
	})
	return err
}

// CustomerDeleted notifies the owner that a customer was removed. No action
// URL since the entity is gone.
func (s *service) CustomerDeleted(ctx context.Context, userID, name string) error {
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:  userID,
		Type:    notification.TypeCustomerDeleted,
		Title:   "Customer Deleted",
		Message: fmt.Sprintf("Customer %s has been deleted", name),
		Data: map[string]interface{}{
			"customer_name": name,
		},
	})
	return err
}

// SettingsUpdated notifies the owner that the business profile changed.
func (s *service) SettingsUpdated(ctx context.Context, userID string) error {
	url := "/dashboard/settings"
	_, err := s.Create(ctx, notification.CreateNotificationRequest{
		UserID:    userID,
		Type:      notification.TypeSettingsUpdated,
		Title:     "Settings Updated",
		Message:   "Your business settings have been updated",
		ActionURL: &url,
	})
	return err
}

// ============= Query and mutation API =============

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt,
	}
}

// List retrieves paginated notifications plus the authoritative unread count.
func (s *service) List(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// UnreadCount returns the count of unread notifications.
func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks the given notifications read and pushes a
// notification_read control event per id so other open sessions stay in sync.
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if _, err := s.repo.MarkAsRead(ctx, req.NotificationIDs, userID); err != nil {
		return err
	}

	for _, id := range req.NotificationIDs {
		s.hub.Publish(userID, sse.EventNotificationRead, map[string]string{"id": id})
	}
	return nil
}

// MarkAllAsRead marks every notification read and broadcasts the bulk
// control event.
func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}

	s.hub.Publish(userID, sse.EventNotificationsReadAll, nil)
	return nil
}

// Delete removes one notification owned by userID.
func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, userID)
}

// CleanupOld deletes read notifications older than daysOld days.
func (s *service) CleanupOld(ctx context.Context, daysOld int) (int, error) {
	if daysOld <= 0 {
		daysOld = DefaultRetentionDays
	}

	cutoff := s.now().AddDate(0, 0, -daysOld)
	return s.repo.DeleteOldRead(ctx, cutoff)
}

// Subscribe attaches a live stream for userID, translating hub events into
// the wire contract's stream events until ctx ends or cleanup is called.
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.StreamEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.StreamEvent, 16)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- notification.StreamEvent{Event: event.Name, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}
