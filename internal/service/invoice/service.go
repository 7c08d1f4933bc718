package invoice

import (
	"context"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	repo         invoice.Repository
	customerRepo customer.Repository
	notifier     notification.Service
	now          func() time.Time
}

// NewInvoiceService creates the invoice service. Notifications emitted by
// mutations are best-effort: a failed notification is logged and never fails
// the mutation.
func NewInvoiceService(repo invoice.Repository, customerRepo customer.Repository, notifier notification.Service) invoice.Service {
	return &service{
		repo:         repo,
		customerRepo: customerRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

func buildItems(inputs []invoice.ItemInput) ([]invoice.Item, decimal.Decimal) {
	items := make([]invoice.Item, len(inputs))
	subtotal := decimal.Zero
	for i, in := range inputs {
		amount := in.Quantity.Mul(in.UnitPrice)
		items[i] = invoice.Item{
			ID:          uuid.New().String(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
		}
		subtotal = subtotal.Add(amount)
	}
	return items, subtotal
}

func applyTax(subtotal, taxRate decimal.Decimal) decimal.Decimal {
	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100))
	return subtotal.Add(tax).Round(2)
}

// Create persists a new invoice after verifying the customer belongs to the
// caller.
func (s *service) Create(ctx context.Context, userID string, req invoice.CreateInvoiceRequest) (*invoice.InvoiceResponse, error) {
	if len(req.Items) == 0 {
		return nil, invoice.ErrInvoiceHasNoItems
	}

	status := req.Status
	if status == "" {
		status = invoice.StatusDraft
	}
	if status != invoice.StatusDraft && status != invoice.StatusSent {
		return nil, invoice.ErrInvalidStatus
	}

	cust, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, invoice.ErrCustomerNotFound
	}
	if cust.UserID != userID {
		return nil, invoice.ErrCustomerNotFound
	}

	items, subtotal := buildItems(req.Items)

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = s.now()
	}

	now := s.now()
	inv := &invoice.Invoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		CustomerID:    cust.ID,
		CustomerName:  cust.Name,
		InvoiceNumber: req.InvoiceNumber,
		Status:        status,
		Items:         items,
		Subtotal:      subtotal,
		TaxRate:       req.TaxRate,
		Total:         applyTax(subtotal, req.TaxRate),
		IssueDate:     issueDate,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	notification.Notify("invoice_created", func() error { return s.notifier.InvoiceCreated(ctx, inv) })

	return toResponse(inv), nil
}

// Update replaces mutable fields of an invoice owned by userID.
func (s *service) Update(ctx context.Context, userID string, id string, req invoice.UpdateInvoiceRequest) (*invoice.InvoiceResponse, error) {
	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil && *req.CustomerID != inv.CustomerID {
		cust, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil || cust.UserID != userID {
			return nil, invoice.ErrCustomerNotFound
		}
		inv.CustomerID = cust.ID
		inv.CustomerName = cust.Name
	}
	if req.InvoiceNumber != nil {
		inv.InvoiceNumber = *req.InvoiceNumber
	}
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, invoice.ErrInvoiceHasNoItems
		}
		inv.Items, inv.Subtotal = buildItems(req.Items)
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}

	inv.Total = applyTax(inv.Subtotal, inv.TaxRate)
	inv.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	notification.Notify("invoice_updated", func() error { return s.notifier.InvoiceUpdated(ctx, inv) })

	return toResponse(inv), nil
}

// Delete removes an unpaid invoice owned by userID.
func (s *service) Delete(ctx context.Context, userID string, id string) error {
	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if inv.Status == invoice.StatusPaid {
		return invoice.ErrInvoiceNotDeletable
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	notification.Notify("invoice_deleted", func() error {
		return s.notifier.InvoiceDeleted(ctx, userID, inv.InvoiceNumber, inv.CustomerName)
	})

	return nil
}

// Get retrieves one invoice owned by userID.
func (s *service) Get(ctx context.Context, userID string, id string) (*invoice.InvoiceResponse, error) {
	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(inv), nil
}

// List retrieves a paginated, filtered invoice list.
func (s *service) List(ctx context.Context, userID string, req invoice.ListInvoicesRequest) (*invoice.InvoiceListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}
	if req.Status != "" && !req.Status.IsValid() {
		return nil, invoice.ErrInvalidStatus
	}

	invoices, total, err := s.repo.List(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	responses := make([]invoice.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = *toResponse(inv)
	}

	return &invoice.InvoiceListResponse{
		Invoices: responses,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Send transitions a draft invoice to SENT.
func (s *service) Send(ctx context.Context, userID string, id string) (*invoice.InvoiceResponse, error) {
	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != invoice.StatusDraft {
		return nil, invoice.ErrInvalidTransition
	}

	inv.Status = invoice.StatusSent
	inv.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	notification.Notify("invoice_updated", func() error { return s.notifier.InvoiceUpdated(ctx, inv) })

	return toResponse(inv), nil
}

// RecordPayment settles an invoice and emits payment notifications.
func (s *service) RecordPayment(ctx context.Context, userID string, id string, req invoice.RecordPaymentRequest) (*invoice.InvoiceResponse, error) {
	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == invoice.StatusPaid {
		return nil, invoice.ErrInvoiceAlreadyPaid
	}

	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	if err := s.repo.MarkPaid(ctx, id, paidAt); err != nil {
		return nil, err
	}

	inv.Status = invoice.StatusPaid
	inv.PaidAt = &paidAt
	inv.UpdatedAt = s.now()

	notification.Notify("payment_received", func() error { return s.notifier.PaymentReceived(ctx, inv, req.Amount) })
	notification.Notify("invoice_paid", func() error { return s.notifier.InvoicePaid(ctx, inv) })

	return toResponse(inv), nil
}

// GetStats aggregates the caller's invoice totals.
func (s *service) GetStats(ctx context.Context, userID string) (*invoice.Stats, error) {
	return s.repo.GetStats(ctx, userID)
}

// GetDashboardStats combines invoice stats with the customer count.
func (s *service) GetDashboardStats(ctx context.Context, userID string) (*invoice.DashboardStats, error) {
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerCount, err := s.customerRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &invoice.DashboardStats{
		Invoices:      *stats,
		CustomerCount: customerCount,
		UnpaidTotal:   stats.TotalPending,
	}, nil
}

func (s *service) getOwned(ctx context.Context, userID, id string) (*invoice.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

func toResponse(inv *invoice.Invoice) *invoice.InvoiceResponse {
	return &invoice.InvoiceResponse{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		Items:         inv.Items,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
