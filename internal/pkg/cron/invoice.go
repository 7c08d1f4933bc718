package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
)

// ReminderWindowDays is how many days ahead the upcoming-due reminder looks.
const ReminderWindowDays = 3

// InvoiceJobs holds the scheduled invoice maintenance work.
type InvoiceJobs struct {
	repo     invoice.Repository
	notifier notification.Service
	now      func() time.Time
}

// NewInvoiceJobs creates the invoice cron jobs.
func NewInvoiceJobs(repo invoice.Repository, notifier notification.Service) *InvoiceJobs {
	return &InvoiceJobs{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// CheckOverdueInvoices transitions SENT invoices past their due date to
// OVERDUE and notifies the owner once per transition. The status guard in
// MarkOverdue makes repeated runs idempotent: an invoice already flipped is
// skipped without a second notification.
func (j *InvoiceJobs) CheckOverdueInvoices(ctx context.Context) (int, error) {
	now := j.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	candidates, err := j.repo.FindOverdueCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	transitioned := 0
	for _, inv := range candidates {
		changed, err := j.repo.MarkOverdue(ctx, inv.ID)
		if err != nil {
			slog.Error("overdue transition failed", "invoice_id", inv.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}

		transitioned++
		inv.Status = invoice.StatusOverdue
		if err := j.notifier.InvoiceOverdue(ctx, inv); err != nil {
			slog.Warn("overdue notification failed", "invoice_id", inv.ID, "error", err)
		}
	}

	if transitioned > 0 {
		slog.Info("overdue sweep completed", "transitioned", transitioned, "candidates", len(candidates))
	}
	return transitioned, nil
}

// SendUpcomingReminders notifies owners of SENT invoices due within the next
// ReminderWindowDays. It never mutates invoice status.
func (j *InvoiceJobs) SendUpcomingReminders(ctx context.Context) (int, error) {
	now := j.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, ReminderWindowDays).Add(-time.Second)

	due, err := j.repo.FindDueBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	reminded := 0
	for _, inv := range due {
		daysUntilDue := int(inv.DueDate.Sub(now).Hours()/24) + 1
		if err := j.notifier.InvoiceReminder(ctx, inv, daysUntilDue); err != nil {
			slog.Warn("reminder notification failed", "invoice_id", inv.ID, "error", err)
			continue
		}
		reminded++
	}
	return reminded, nil
}
