package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest upserts the business profile.
type UpdateSettingsRequest struct {
	BusinessName     string          `json:"business_name" validate:"required"`
	BusinessEmail    string          `json:"business_email" validate:"required,email"`
	BusinessAddress  *string         `json:"business_address,omitempty"`
	Currency         string          `json:"currency"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	InvoicePrefix    string          `json:"invoice_prefix"`
}

// SettingsResponse is the API shape of the business profile.
type SettingsResponse struct {
	BusinessName     string          `json:"business_name"`
	BusinessEmail    string          `json:"business_email"`
	BusinessAddress  *string         `json:"business_address,omitempty"`
	Currency         string          `json:"currency"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	InvoicePrefix    string          `json:"invoice_prefix"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
