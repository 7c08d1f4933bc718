package settings

import (
	"context"
	"errors"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/domain/settings"
	"github.com/billora/invoicing-backend-go/internal/pkg/validator"
)

type service struct {
	repo     settings.Repository
	notifier notification.Service
	now      func() time.Time
}

// NewSettingsService creates the settings service.
func NewSettingsService(repo settings.Repository, notifier notification.Service) settings.Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Get returns the user's settings, falling back to defaults when none are
// saved yet.
func (s *service) Get(ctx context.Context, userID string) (*settings.SettingsResponse, error) {
	stored, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return toResponse(settings.Defaults(userID)), nil
		}
		return nil, err
	}
	return toResponse(stored), nil
}

// Update upserts the user's settings.
func (s *service) Update(ctx context.Context, userID string, req settings.UpdateSettingsRequest) (*settings.SettingsResponse, error) {
	if !validator.IsValidCurrency(req.Currency) {
		return nil, settings.ErrInvalidCurrency
	}

	stored := settings.Defaults(userID)
	stored.BusinessName = req.BusinessName
	stored.BusinessEmail = req.BusinessEmail
	stored.BusinessAddress = req.BusinessAddress
	stored.Currency = req.Currency
	stored.TaxRate = req.TaxRate
	if req.PaymentTermsDays > 0 {
		stored.PaymentTermsDays = req.PaymentTermsDays
	}
	if req.InvoicePrefix != "" {
		stored.InvoicePrefix = req.InvoicePrefix
	}
	stored.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	notification.Notify("settings_updated", func() error { return s.notifier.SettingsUpdated(ctx, userID) })

	return toResponse(stored), nil
}

func toResponse(s *settings.Settings) *settings.SettingsResponse {
	return &settings.SettingsResponse{
		BusinessName:     s.BusinessName,
		BusinessEmail:    s.BusinessEmail,
		BusinessAddress:  s.BusinessAddress,
		Currency:         s.Currency,
		TaxRate:          s.TaxRate,
		PaymentTermsDays: s.PaymentTermsDays,
		InvoicePrefix:    s.InvoicePrefix,
		UpdatedAt:        s.UpdatedAt,
	}
}
