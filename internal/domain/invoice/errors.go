package invoice

import "errors"

// Invoice domain errors
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceNumberExists = errors.New("invoice number already exists")
	ErrInvalidStatus       = errors.New("invalid invoice status")
	ErrInvalidTransition   = errors.New("invalid invoice status transition")
	ErrInvoiceAlreadyPaid  = errors.New("invoice already paid")
	ErrInvoiceHasNoItems   = errors.New("invoice must have at least one item")
	ErrUnauthorized        = errors.New("unauthorized to access this invoice")
	ErrCustomerNotFound    = errors.New("customer for invoice not found")
	ErrInvoiceNotDeletable = errors.New("paid invoices cannot be deleted")
)
