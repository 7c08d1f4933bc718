package customer

import (
	"context"
)

// Service defines the customer business operations.
type Service interface {
	Create(ctx context.Context, userID string, req CreateCustomerRequest) (*CustomerResponse, error)
	Update(ctx context.Context, userID string, id string, req UpdateCustomerRequest) (*CustomerResponse, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, userID string, id string) (*CustomerResponse, error)
	List(ctx context.Context, userID string, req ListCustomersRequest) (*CustomerListResponse, error)
}
