package settings

import (
	"context"
	"testing"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	byUser map[string]*settings.Settings
}

func (r *fakeSettingsRepo) GetByUserID(ctx context.Context, userID string) (*settings.Settings, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, settings.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, s *settings.Settings) error {
	cp := *s
	r.byUser[s.UserID] = &cp
	return nil
}

type fakeNotifier struct {
	notification.Service
	events []string
}

func (f *fakeNotifier) SettingsUpdated(ctx context.Context, userID string) error {
	f.events = append(f.events, "settings_updated")
	return nil
}

func TestGetSettings_DefaultsWhenUnset(t *testing.T) {
	repo := &fakeSettingsRepo{byUser: make(map[string]*settings.Settings)}
	svc := NewSettingsService(repo, &fakeNotifier{})

	resp, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, 30, resp.PaymentTermsDays)
	assert.Equal(t, "INV", resp.InvoicePrefix)
}

func TestUpdateSettings(t *testing.T) {
	repo := &fakeSettingsRepo{byUser: make(map[string]*settings.Settings)}
	notifier := &fakeNotifier{}
	svc := NewSettingsService(repo, notifier)

	resp, err := svc.Update(context.Background(), "user-1", settings.UpdateSettingsRequest{
		BusinessName:  "Billora LLC",
		BusinessEmail: "hello@billora.test",
		Currency:      "EUR",
		TaxRate:       decimal.NewFromInt(19),
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, 30, resp.PaymentTermsDays)
	assert.Equal(t, []string{"settings_updated"}, notifier.events)

	got, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Billora LLC", got.BusinessName)
}

func TestUpdateSettings_RejectsBadCurrency(t *testing.T) {
	repo := &fakeSettingsRepo{byUser: make(map[string]*settings.Settings)}
	svc := NewSettingsService(repo, &fakeNotifier{})

	_, err := svc.Update(context.Background(), "user-1", settings.UpdateSettingsRequest{
		BusinessName:  "Billora LLC",
		BusinessEmail: "hello@billora.test",
		Currency:      "EURO",
	})
	assert.ErrorIs(t, err, settings.ErrInvalidCurrency)
}
