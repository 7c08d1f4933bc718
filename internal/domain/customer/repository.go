package customer

import (
	"context"
)

// Repository defines the customer persistence interface.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string, userID string) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, userID string, req ListCustomersRequest) ([]*Customer, int, error)
	Count(ctx context.Context, userID string) (int, error)
}
