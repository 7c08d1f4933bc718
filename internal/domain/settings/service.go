package settings

import (
	"context"
)

// Service defines the settings business operations.
type Service interface {
	Get(ctx context.Context, userID string) (*SettingsResponse, error)
	Update(ctx context.Context, userID string, req UpdateSettingsRequest) (*SettingsResponse, error)
}
