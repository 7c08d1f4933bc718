package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Item is a single invoice line.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is an issued invoice owned by a user. The overdue sweep transitions
// SENT invoices past their due date to OVERDUE; the status filter in that
// query makes repeated sweeps idempotent.
type Invoice struct {
	ID            string
	UserID        string
	CustomerID    string
	CustomerName  string
	InvoiceNumber string
	Status        Status
	Items         []Item
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Total         decimal.Decimal
	IssueDate     time.Time
	DueDate       time.Time
	PaidAt        *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DaysPastDue returns floor((now - dueDate) / 1 day), non-negative.
func (i *Invoice) DaysPastDue(now time.Time) int {
	days := int(now.Sub(i.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
