package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/settings"
	"github.com/billora/invoicing-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}

// GetByUserID retrieves the business settings for a user.
func (r *settingsRepository) GetByUserID(ctx context.Context, userID string) (*settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, business_name, business_email, business_address, currency,
			tax_rate, payment_terms_days, invoice_prefix, created_at, updated_at
		FROM settings
		WHERE user_id = $1
	`

	var s settings.Settings
	err := q.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.BusinessName,
		&s.BusinessEmail,
		&s.BusinessAddress,
		&s.Currency,
		&s.TaxRate,
		&s.PaymentTermsDays,
		&s.InvoicePrefix,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Upsert creates or replaces the business settings for a user.
func (r *settingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (user_id, business_name, business_email, business_address,
			currency, tax_rate, payment_terms_days, invoice_prefix, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id)
		DO UPDATE SET business_name = $2, business_email = $3, business_address = $4,
			currency = $5, tax_rate = $6, payment_terms_days = $7,
			invoice_prefix = $8, updated_at = $10
	`

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	_, err := q.Exec(ctx, query,
		s.UserID,
		s.BusinessName,
		s.BusinessEmail,
		s.BusinessAddress,
		s.Currency,
		s.TaxRate,
		s.PaymentTermsDays,
		s.InvoicePrefix,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}
