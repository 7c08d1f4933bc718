package cron

import (
	"context"
	"testing"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleanupService struct {
	notification.Service
	daysOld int
	removed int
}

func (s *cleanupService) CleanupOld(ctx context.Context, daysOld int) (int, error) {
	s.daysOld = daysOld
	return s.removed, nil
}

func TestCleanupOldNotifications_UsesConfiguredRetention(t *testing.T) {
	svc := &cleanupService{removed: 3}
	jobs := NewNotificationJobs(svc, 90)

	removed, err := jobs.CleanupOldNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 90, svc.daysOld)
}

func TestCleanupOldNotifications_DefaultRetention(t *testing.T) {
	svc := &cleanupService{}
	jobs := NewNotificationJobs(svc, 0)

	_, err := jobs.CleanupOldNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRetentionDays, svc.daysOld)
}
