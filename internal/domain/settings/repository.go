package settings

import (
	"context"
)

// Repository defines the settings persistence interface.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}
