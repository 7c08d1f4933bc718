package response

import (
	"errors"
	"net/http"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/domain/settings"
	"github.com/billora/invoicing-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Invoice domain errors
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		NotFound(w, "Invoice not found")
	case errors.Is(err, invoice.ErrInvoiceNumberExists):
		Conflict(w, "Invoice number already exists")
	case errors.Is(err, invoice.ErrInvalidStatus):
		BadRequest(w, "Invalid invoice status", nil)
	case errors.Is(err, invoice.ErrInvalidTransition):
		Conflict(w, "Invalid invoice status transition")
	case errors.Is(err, invoice.ErrInvoiceAlreadyPaid):
		Conflict(w, "Invoice is already paid")
	case errors.Is(err, invoice.ErrInvoiceHasNoItems):
		BadRequest(w, "Invoice must have at least one item", nil)
	case errors.Is(err, invoice.ErrInvoiceNotDeletable):
		Conflict(w, "Paid invoices cannot be deleted")
	case errors.Is(err, invoice.ErrCustomerNotFound):
		NotFound(w, "Customer not found")
	case errors.Is(err, invoice.ErrUnauthorized):
		Forbidden(w, "Not allowed")

	// Customer domain errors
	case errors.Is(err, customer.ErrCustomerNotFound):
		NotFound(w, "Customer not found")
	case errors.Is(err, customer.ErrEmailExists):
		Conflict(w, "Customer email already exists")
	case errors.Is(err, customer.ErrCustomerHasInvoices):
		Conflict(w, "Customer has invoices and cannot be deleted")
	case errors.Is(err, customer.ErrUnauthorized):
		Forbidden(w, "Not allowed")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidType):
		BadRequest(w, "Invalid notification type", nil)
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, "Not allowed")

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Settings not found")
	case errors.Is(err, settings.ErrInvalidCurrency):
		BadRequest(w, "Invalid currency code", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
