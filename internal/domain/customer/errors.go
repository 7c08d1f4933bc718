package customer

import "errors"

// Customer domain errors
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrEmailExists         = errors.New("customer email already exists")
	ErrUnauthorized        = errors.New("unauthorized to access this customer")
	ErrCustomerHasInvoices = errors.New("customer has invoices and cannot be deleted")
)
