package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type invoiceRepository struct {
	db *database.DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *database.DB) invoice.Repository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `i.id, i.user_id, i.customer_id, c.name, i.invoice_number, i.status,
		i.items, i.subtotal, i.tax_rate, i.total, i.issue_date, i.due_date,
		i.paid_at, i.notes, i.created_at, i.updated_at`

// Create persists an invoice with its line items as JSONB.
func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	q := GetQuerier(ctx, r.db)

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}

	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice items: %w", err)
	}

	query := `
		INSERT INTO invoices (id, user_id, customer_id, invoice_number, status, items,
			subtotal, tax_rate, total, issue_date, due_date, paid_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = q.Exec(ctx, query,
		inv.ID,
		inv.UserID,
		inv.CustomerID,
		inv.InvoiceNumber,
		string(inv.Status),
		itemsJSON,
		inv.Subtotal,
		inv.TaxRate,
		inv.Total,
		inv.IssueDate,
		inv.DueDate,
		inv.PaidAt,
		inv.Notes,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return invoice.ErrInvoiceNumberExists
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// Update replaces the mutable invoice fields.
func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	q := GetQuerier(ctx, r.db)

	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice items: %w", err)
	}

	query := `
		UPDATE invoices
		SET customer_id = $1, invoice_number = $2, status = $3, items = $4,
			subtotal = $5, tax_rate = $6, total = $7, due_date = $8,
			paid_at = $9, notes = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13
	`

	result, err := q.Exec(ctx, query,
		inv.CustomerID,
		inv.InvoiceNumber,
		string(inv.Status),
		itemsJSON,
		inv.Subtotal,
		inv.TaxRate,
		inv.Total,
		inv.DueDate,
		inv.PaidAt,
		inv.Notes,
		inv.UpdatedAt,
		inv.ID,
		inv.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return invoice.ErrInvoiceNumberExists
		}
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound
	}

	return nil
}

// Delete removes an invoice owned by userID.
func (r *invoiceRepository) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound
	}

	return nil
}

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var itemsJSON []byte
	var status string

	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.InvoiceNumber,
		&status,
		&itemsJSON,
		&inv.Subtotal,
		&inv.TaxRate,
		&inv.Total,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.PaidAt,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(status)
	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoice items: %w", err)
		}
	}
	return &inv, nil
}

// GetByID retrieves an invoice with its customer name joined in.
func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.id = $1
	`, invoiceColumns)

	inv, err := scanInvoice(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// List retrieves a user's invoices, newest first, with optional status and
// search filters. The count and page queries run in one transaction so the
// total matches the returned page.
func (r *invoiceRepository) List(ctx context.Context, userID string, req invoice.ListInvoicesRequest) ([]*invoice.Invoice, int, error) {
	var invoices []*invoice.Invoice
	var total int

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		var err error
		invoices, total, err = r.list(ctx, userID, req)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *invoiceRepository) list(ctx context.Context, userID string, req invoice.ListInvoicesRequest) ([]*invoice.Invoice, int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "i.user_id = $1"
	args := []interface{}{userID}

	if req.Status != "" {
		args = append(args, string(req.Status))
		whereClause += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		whereClause += fmt.Sprintf(" AND (i.invoice_number ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args))
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE %s
	`, whereClause)

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	offset := (req.Page - 1) * req.PageSize
	args = append(args, req.PageSize, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE %s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d
	`, invoiceColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, total, nil
}

// FindOverdueCandidates returns SENT invoices due strictly before cutoff.
func (r *invoiceRepository) FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	return r.findByDue(ctx, `i.status = 'SENT' AND i.due_date < $1`, cutoff)
}

// FindDueBetween returns SENT invoices due within [from, to].
func (r *invoiceRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*invoice.Invoice, error) {
	return r.findByDue(ctx, `i.status = 'SENT' AND i.due_date >= $1 AND i.due_date <= $2`, from, to)
}

func (r *invoiceRepository) findByDue(ctx context.Context, condition string, args ...interface{}) ([]*invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE %s
		ORDER BY i.due_date ASC
	`, invoiceColumns, condition)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices by due date: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, nil
}

// MarkOverdue transitions one SENT invoice to OVERDUE. The status guard in
// the WHERE clause makes concurrent or repeated sweeps safe: only the run
// that actually flips the row reports true.
func (r *invoiceRepository) MarkOverdue(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invoices
		SET status = 'OVERDUE', updated_at = $1
		WHERE id = $2 AND status = 'SENT'
	`

	result, err := q.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark invoice overdue: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkPaid transitions an invoice to PAID with the payment timestamp.
func (r *invoiceRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invoices
		SET status = 'PAID', paid_at = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := q.Exec(ctx, query, paidAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound
	}

	return nil
}

// GetStats aggregates a user's invoice totals by state.
func (r *invoiceRepository) GetStats(ctx context.Context, userID string) (*invoice.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(total) FILTER (WHERE status = 'PAID'), 0),
			COALESCE(SUM(total) FILTER (WHERE status = 'OVERDUE'), 0),
			COALESCE(SUM(total) FILTER (WHERE status IN ('SENT', 'OVERDUE')), 0),
			COUNT(*) FILTER (WHERE status = 'OVERDUE'),
			COUNT(*) FILTER (WHERE status = 'PAID')
		FROM invoices
		WHERE user_id = $1
	`

	var s invoice.Stats
	err := q.QueryRow(ctx, query, userID).Scan(
		&s.TotalInvoices,
		&s.TotalBilled,
		&s.TotalPaid,
		&s.TotalOverdue,
		&s.TotalPending,
		&s.OverdueCount,
		&s.PaidCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice stats: %w", err)
	}

	return &s, nil
}

// CountByCustomer returns how many invoices reference a customer.
func (r *invoiceRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices by customer: %w", err)
	}

	return count, nil
}
