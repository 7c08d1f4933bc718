package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoiceRepo struct {
	invoices map[string]*invoice.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*invoice.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	for _, existing := range r.invoices {
		if existing.UserID == inv.UserID && existing.InvoiceNumber == inv.InvoiceNumber {
			return invoice.ErrInvoiceNumberExists
		}
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return invoice.ErrInvoiceNotFound
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id, userID string) error {
	inv, ok := r.invoices[id]
	if !ok || inv.UserID != userID {
		return invoice.ErrInvoiceNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, userID string, req invoice.ListInvoicesRequest) ([]*invoice.Invoice, int, error) {
	var out []*invoice.Invoice
	for _, inv := range r.invoices {
		if inv.UserID != userID {
			continue
		}
		if req.Status != "" && inv.Status != req.Status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeInvoiceRepo) FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) FindDueBetween(ctx context.Context, from, to time.Time) ([]*invoice.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) MarkOverdue(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (r *fakeInvoiceRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	inv, ok := r.invoices[id]
	if !ok {
		return invoice.ErrInvoiceNotFound
	}
	inv.Status = invoice.StatusPaid
	inv.PaidAt = &paidAt
	return nil
}

func (r *fakeInvoiceRepo) GetStats(ctx context.Context, userID string) (*invoice.Stats, error) {
	stats := &invoice.Stats{}
	for _, inv := range r.invoices {
		if inv.UserID != userID {
			continue
		}
		stats.TotalInvoices++
		stats.TotalBilled = stats.TotalBilled.Add(inv.Total)
		switch inv.Status {
		case invoice.StatusPaid:
			stats.PaidCount++
			stats.TotalPaid = stats.TotalPaid.Add(inv.Total)
		case invoice.StatusOverdue:
			stats.OverdueCount++
			stats.TotalOverdue = stats.TotalOverdue.Add(inv.Total)
			stats.TotalPending = stats.TotalPending.Add(inv.Total)
		case invoice.StatusSent:
			stats.TotalPending = stats.TotalPending.Add(inv.Total)
		}
	}
	return stats, nil
}

func (r *fakeInvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	count := 0
	for _, inv := range r.invoices {
		if inv.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

type fakeCustomerRepo struct {
	customers map[string]*customer.Customer
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(ctx context.Context, id, userID string) error    { return nil }

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, userID string, req customer.ListCustomersRequest) ([]*customer.Customer, int, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Count(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, c := range r.customers {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeNotifier records which helpers fired. Unused Service methods panic via
// the embedded nil interface.
type fakeNotifier struct {
	notification.Service
	events []string
	err    error
}

func (f *fakeNotifier) InvoiceCreated(ctx context.Context, inv *invoice.Invoice) error {
	f.events = append(f.events, "invoice_created")
	return f.err
}

func (f *fakeNotifier) InvoiceUpdated(ctx context.Context, inv *invoice.Invoice) error {
	f.events = append(f.events, "invoice_updated")
	return f.err
}

func (f *fakeNotifier) InvoiceDeleted(ctx context.Context, userID, invoiceNumber, customerName string) error {
	f.events = append(f.events, "invoice_deleted")
	return f.err
}

func (f *fakeNotifier) InvoicePaid(ctx context.Context, inv *invoice.Invoice) error {
	f.events = append(f.events, "invoice_paid")
	return f.err
}

func (f *fakeNotifier) PaymentReceived(ctx context.Context, inv *invoice.Invoice, amount decimal.Decimal) error {
	f.events = append(f.events, "payment_received")
	return f.err
}

func newTestService(t *testing.T) (invoice.Service, *fakeInvoiceRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeInvoiceRepo()
	custRepo := &fakeCustomerRepo{customers: map[string]*customer.Customer{
		"cust-1": {ID: "cust-1", UserID: "user-1", Name: "Acme Corp"},
		"cust-2": {ID: "cust-2", UserID: "user-2", Name: "Other Co"},
	}}
	notifier := &fakeNotifier{}
	return NewInvoiceService(repo, custRepo, notifier), repo, notifier
}

func createRequest() invoice.CreateInvoiceRequest {
	return invoice.CreateInvoiceRequest{
		CustomerID:    "cust-1",
		InvoiceNumber: "INV-0001",
		Items: []invoice.ItemInput{
			{Description: "Design work", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(25.50)},
		},
		TaxRate: decimal.NewFromInt(10),
		DueDate: time.Now().AddDate(0, 0, 30),
	}
}

func TestCreateInvoice_ComputesTotals(t *testing.T) {
	svc, _, notifier := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	// 10*100 + 2*25.50 = 1051, plus 10% tax = 1156.10
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1051)), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(1156.1)), "total %s", resp.Total)
	assert.Equal(t, invoice.StatusDraft, resp.Status)
	assert.Equal(t, "Acme Corp", resp.CustomerName)
	assert.Equal(t, []string{"invoice_created"}, notifier.events)
}

func TestCreateInvoice_NotifierFailureDoesNotFailCreate(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	notifier.err = errors.New("notification store down")

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, repo.invoices, 1)
	assert.Equal(t, []string{"invoice_created"}, notifier.events)
}

func TestCreateInvoice_RejectsEmptyItems(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := createRequest()
	req.Items = nil
	_, err := svc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, invoice.ErrInvoiceHasNoItems)
}

func TestCreateInvoice_RejectsForeignCustomer(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := createRequest()
	req.CustomerID = "cust-2"
	_, err := svc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, invoice.ErrCustomerNotFound)
}

func TestSendInvoice_TransitionsDraftOnly(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	sent, err := svc.Send(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusSent, sent.Status)

	_, err = svc.Send(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
}

func TestRecordPayment(t *testing.T) {
	svc, repo, notifier := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)

	paid, err := svc.RecordPayment(context.Background(), "user-1", resp.ID, invoice.RecordPaymentRequest{
		Amount: resp.Total,
	})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	stored := repo.invoices[resp.ID]
	assert.Equal(t, invoice.StatusPaid, stored.Status)

	assert.Contains(t, notifier.events, "payment_received")
	assert.Contains(t, notifier.events, "invoice_paid")

	_, err = svc.RecordPayment(context.Background(), "user-1", resp.ID, invoice.RecordPaymentRequest{Amount: resp.Total})
	assert.ErrorIs(t, err, invoice.ErrInvoiceAlreadyPaid)
}

func TestDeleteInvoice_RefusesPaid(t *testing.T) {
	svc, _, notifier := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	_, err = svc.RecordPayment(context.Background(), "user-1", resp.ID, invoice.RecordPaymentRequest{Amount: resp.Total})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, invoice.ErrInvoiceNotDeletable)
	assert.NotContains(t, notifier.events, "invoice_deleted")
}

func TestDeleteInvoice(t *testing.T) {
	svc, repo, notifier := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.invoices)
	assert.Contains(t, notifier.events, "invoice_deleted")
}

func TestGetInvoice_EnforcesOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-2", resp.ID)
	assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)
}

func TestUpdateInvoice_RecomputesTotals(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	newRate := decimal.NewFromInt(20)
	updated, err := svc.Update(context.Background(), "user-1", resp.ID, invoice.UpdateInvoiceRequest{
		TaxRate: &newRate,
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromFloat(1261.2)), "total %s", updated.Total)
}

func TestGetDashboardStats(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Invoices.TotalInvoices)
	assert.Equal(t, 1, stats.CustomerCount)
	assert.True(t, stats.UnpaidTotal.Equal(resp.Total))
}
