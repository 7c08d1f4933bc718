package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============= Request DTOs =============

// ItemInput is one invoice line in a create/update request.
type ItemInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateInvoiceRequest creates a draft or sent invoice.
type CreateInvoiceRequest struct {
	CustomerID    string          `json:"customer_id" validate:"required"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	Status        Status          `json:"status"`
	Items         []ItemInput     `json:"items" validate:"required,min=1"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date" validate:"required"`
	Notes         *string         `json:"notes,omitempty"`
}

// UpdateInvoiceRequest replaces mutable invoice fields.
type UpdateInvoiceRequest struct {
	CustomerID    *string          `json:"customer_id,omitempty"`
	InvoiceNumber *string          `json:"invoice_number,omitempty"`
	Items         []ItemInput      `json:"items,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// ListInvoicesRequest filters the invoice list. Zero values mean "no filter".
type ListInvoicesRequest struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   Status `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
}

// RecordPaymentRequest records a payment against an invoice.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method,omitempty"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
}

// ============= Response DTOs =============

// InvoiceResponse is the API shape of an invoice.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        Status          `json:"status"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Total         decimal.Decimal `json:"total"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceListResponse is a paginated invoice list.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Stats aggregates invoice amounts by state for the stats widgets.
type Stats struct {
	TotalInvoices int             `json:"total_invoices"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	OverdueCount  int             `json:"overdue_count"`
	PaidCount     int             `json:"paid_count"`
}

// DashboardStats is the landing-page aggregate.
type DashboardStats struct {
	Invoices      Stats           `json:"invoices"`
	CustomerCount int             `json:"customer_count"`
	UnpaidTotal   decimal.Decimal `json:"unpaid_total"`
}
