package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type customerRepository struct {
	db *database.DB
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(db *database.DB) customer.Repository {
	return &customerRepository{db: db}
}

const customerColumns = "id, user_id, name, email, phone, address, notes, created_at, updated_at"

// Create persists a customer.
func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO customers (id, user_id, name, email, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrEmailExists
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// Update replaces the mutable customer fields.
func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4, notes = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := q.Exec(ctx, query,
		c.Name, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt, c.ID, c.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrEmailExists
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer owned by userID.
func (r *customerRepository) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound
	}

	return nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a customer by ID.
func (r *customerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns)

	c, err := scanCustomer(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List retrieves a user's customers alphabetically with an optional search.
func (r *customerRepository) List(ctx context.Context, userID string, req customer.ListCustomersRequest) ([]*customer.Customer, int, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "user_id = $1"
	args := []interface{}{userID}

	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers WHERE %s", whereClause)
	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := (req.Page - 1) * req.PageSize
	args = append(args, req.PageSize, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, customerColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, total, nil
}

// Count returns the number of customers a user owns.
func (r *customerRepository) Count(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
