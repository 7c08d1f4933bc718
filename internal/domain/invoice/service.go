package invoice

import (
	"context"
)

// Service defines the invoice business operations. Every mutation emits a
// best-effort domain notification; notification failures never fail the
// mutation itself.
type Service interface {
	Create(ctx context.Context, userID string, req CreateInvoiceRequest) (*InvoiceResponse, error)
	Update(ctx context.Context, userID string, id string, req UpdateInvoiceRequest) (*InvoiceResponse, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, userID string, id string) (*InvoiceResponse, error)
	List(ctx context.Context, userID string, req ListInvoicesRequest) (*InvoiceListResponse, error)

	Send(ctx context.Context, userID string, id string) (*InvoiceResponse, error)
	RecordPayment(ctx context.Context, userID string, id string, req RecordPaymentRequest) (*InvoiceResponse, error)

	GetStats(ctx context.Context, userID string) (*Stats, error)
	GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
}
