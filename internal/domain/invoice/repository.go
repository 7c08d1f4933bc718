package invoice

import (
	"context"
	"time"
)

// Repository defines the invoice persistence interface.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string, userID string) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, userID string, req ListInvoicesRequest) ([]*Invoice, int, error)

	// FindOverdueCandidates returns invoices with status SENT and a due date
	// strictly before cutoff, across all users. The status filter keeps the
	// overdue sweep idempotent.
	FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]*Invoice, error)

	// MarkOverdue transitions a SENT invoice to OVERDUE and reports whether a
	// row actually changed.
	MarkOverdue(ctx context.Context, id string) (bool, error)

	// FindDueBetween returns SENT invoices due within [from, to], across all
	// users, for upcoming-due reminders.
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*Invoice, error)

	MarkPaid(ctx context.Context, id string, paidAt time.Time) error

	GetStats(ctx context.Context, userID string) (*Stats, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
}
