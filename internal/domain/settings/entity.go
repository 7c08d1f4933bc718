package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the per-user business profile applied to new invoices.
type Settings struct {
	UserID           string
	BusinessName     string
	BusinessEmail    string
	BusinessAddress  *string
	Currency         string
	TaxRate          decimal.Decimal
	PaymentTermsDays int
	InvoicePrefix    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Defaults returns the settings applied before a user saves their own.
func Defaults(userID string) *Settings {
	return &Settings{
		UserID:           userID,
		Currency:         "USD",
		TaxRate:          decimal.Zero,
		PaymentTermsDays: 30,
		InvoicePrefix:    "INV",
	}
}
