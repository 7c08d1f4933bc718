package customer

import (
	"context"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/customer"
	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type service struct {
	repo        customer.Repository
	invoiceRepo invoice.Repository
	notifier    notification.Service
	now         func() time.Time
}

// NewCustomerService creates the customer service. Like the invoice service,
// notifications are best-effort.
func NewCustomerService(repo customer.Repository, invoiceRepo invoice.Repository, notifier notification.Service) customer.Service {
	return &service{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

func validateCustomer(name, email string) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email address"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID string, req customer.CreateCustomerRequest) (*customer.CustomerResponse, error) {
	if err := validateCustomer(req.Name, req.Email); err != nil {
		return nil, err
	}

	now := s.now()
	c := &customer.Customer{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	notification.Notify("customer_created", func() error { return s.notifier.CustomerCreated(ctx, c) })

	return toResponse(c), nil
}

func (s *service) Update(ctx context.Context, userID string, id string, req customer.UpdateCustomerRequest) (*customer.CustomerResponse, error) {
	c, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if err := validateCustomer(c.Name, c.Email); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	notification.Notify("customer_updated", func() error { return s.notifier.CustomerUpdated(ctx, c) })

	return toResponse(c), nil
}

// Delete removes a customer with no invoices. Customers referenced by
// invoices cannot be deleted so historical invoices keep their counterparty.
func (s *service) Delete(ctx context.Context, userID string, id string) error {
	c, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return customer.ErrCustomerHasInvoices
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	notification.Notify("customer_deleted", func() error { return s.notifier.CustomerDeleted(ctx, userID, c.Name) })

	return nil
}

func (s *service) Get(ctx context.Context, userID string, id string) (*customer.CustomerResponse, error) {
	c, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *service) List(ctx context.Context, userID string, req customer.ListCustomersRequest) (*customer.CustomerListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	customers, total, err := s.repo.List(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	responses := make([]customer.CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = *toResponse(c)
	}

	return &customer.CustomerListResponse{
		Customers: responses,
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}, nil
}

func (s *service) getOwned(ctx context.Context, userID, id string) (*customer.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

func toResponse(c *customer.Customer) *customer.CustomerResponse {
	return &customer.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
