package notification

import (
	"time"
)

// Type classifies a notification. The persisted Data payload is a tagged
// union keyed by this enumeration: each type carries its own payload shape.
type Type string

const (
	TypeInvoiceCreated  Type = "invoice_created"
	TypeInvoiceUpdated  Type = "invoice_updated"
	TypeInvoiceDeleted  Type = "invoice_deleted"
	TypeInvoicePaid     Type = "invoice_paid"
	TypeInvoiceOverdue  Type = "invoice_overdue"
	TypeInvoiceReminder Type = "invoice_reminder"
	TypePaymentReceived Type = "payment_received"
	TypeCustomerCreated Type = "customer_created"
	TypeCustomerUpdated Type = "customer_updated"
	TypeCustomerDeleted Type = "customer_deleted"
	TypeSettingsUpdated Type = "settings_updated"
)

// AllTypes returns the closed enumeration of notification types.
func AllTypes() []Type {
	return []Type{
		TypeInvoiceCreated,
		TypeInvoiceUpdated,
		TypeInvoiceDeleted,
		TypeInvoicePaid,
		TypeInvoiceOverdue,
		TypeInvoiceReminder,
		TypePaymentReceived,
		TypeCustomerCreated,
		TypeCustomerUpdated,
		TypeCustomerDeleted,
		TypeSettingsUpdated,
	}
}

// IsValid reports whether t is one of the known types.
func (t Type) IsValid() bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Notification is a persisted domain notification. IsRead starts false and
// only transitions false to true, via single or bulk mark-read. ActionURL is
// nil when the affected entity no longer exists (deletes).
type Notification struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Message   string
	Data      map[string]interface{}
	IsRead    bool
	ActionURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
