package customer

import (
	"time"
)

// Customer is a billing counterparty owned by a user.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     *string
	Address   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
