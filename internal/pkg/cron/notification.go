package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
)

// DefaultRetentionDays is how long read notifications are kept when no
// retention is configured.
const DefaultRetentionDays = 30

// NotificationJobs holds the scheduled notification maintenance work.
type NotificationJobs struct {
	svc           notification.Service
	retentionDays int
}

// NewNotificationJobs creates the notification cron jobs. A retentionDays of
// zero or less falls back to DefaultRetentionDays.
func NewNotificationJobs(svc notification.Service, retentionDays int) *NotificationJobs {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &NotificationJobs{svc: svc, retentionDays: retentionDays}
}

// CleanupOldNotifications removes read notifications older than the
// configured retention.
func (j *NotificationJobs) CleanupOldNotifications(ctx context.Context) (int, error) {
	removed, err := j.svc.CleanupOld(ctx, j.retentionDays)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		slog.Info("notification cleanup completed", "removed", removed)
	}
	return removed, nil
}

// RegisterJobs wires the invoice and notification maintenance jobs onto the
// scheduler with their intervals.
func RegisterJobs(s *Scheduler, invoiceJobs *InvoiceJobs, notificationJobs *NotificationJobs, overdueInterval, reminderInterval, cleanupInterval time.Duration) {
	s.AddJob("check-overdue-invoices", overdueInterval, func(ctx context.Context) error {
		_, err := invoiceJobs.CheckOverdueInvoices(ctx)
		return err
	})
	s.AddJob("send-upcoming-reminders", reminderInterval, func(ctx context.Context) error {
		_, err := invoiceJobs.SendUpcomingReminders(ctx)
		return err
	})
	s.AddJob("cleanup-old-notifications", cleanupInterval, func(ctx context.Context) error {
		_, err := notificationJobs.CleanupOldNotifications(ctx)
		return err
	})
}
