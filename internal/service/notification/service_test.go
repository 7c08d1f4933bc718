package notification

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/invoice"
	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/pkg/sse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory notification.Repository.
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*notification.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*notification.Notification)}
}

func (f *fakeRepo) Create(ctx context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *n
	f.records[n.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.records[id]
	if !ok {
		return nil, notification.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*notification.Notification
	for _, n := range f.records {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		clone := *n
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeRepo) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.records {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkAsRead(ctx context.Context, ids []string, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, id := range ids {
		if n, ok := f.records[id]; ok && n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkAllAsRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.records {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.records[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotificationNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) DeleteOldRead(ctx context.Context, cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for id, n := range f.records {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(f.records, id)
			count++
		}
	}
	return count, nil
}

func newTestService() (notification.Service, *fakeRepo, *sse.Hub) {
	repo := newFakeRepo()
	hub := sse.NewHub()
	return NewNotificationService(repo, hub), repo, hub
}

func testInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            "inv-1",
		UserID:        "user-1",
		CustomerID:    "cust-1",
		CustomerName:  "Acme",
		InvoiceNumber: "INV-0001",
		Status:        invoice.StatusSent,
		Total:         decimal.NewFromInt(500),
		DueDate:       time.Now().AddDate(0, 0, 14),
	}
}

func TestInvoiceCreatedNotification(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.InvoiceCreated(ctx, testInvoice()))

	list, _, err := repo.GetByUserID(ctx, "user-1", 1, 10, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	n := list[0]
	assert.Equal(t, notification.TypeInvoiceCreated, n.Type)
	assert.False(t, n.IsRead)
	assert.Contains(t, n.Message, "INV-0001")
	assert.Contains(t, n.Message, "Acme")
	require.NotNil(t, n.ActionURL)
	assert.Equal(t, "/dashboard/invoices/inv-1", *n.ActionURL)
	assert.Equal(t, "INV-0001", n.Data["invoice_number"])
}

func TestInvoiceOverdueNotification(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService()
	ctx := context.Background()

	inv := testInvoice()
	inv.DueDate = time.Now().AddDate(0, 0, -3)
	require.NoError(t, svc.InvoiceOverdue(ctx, inv))

	list, _, err := repo.GetByUserID(ctx, "user-1", 1, 10, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	n := list[0]
	assert.Equal(t, notification.TypeInvoiceOverdue, n.Type)
	days, ok := n.Data["days_past_due"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, days, 1)
}

func TestInvoiceDeletedHasNoActionURL(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.InvoiceDeleted(ctx, "user-1", "INV-0002", "Acme"))

	list, _, err := repo.GetByUserID(ctx, "user-1", 1, 10, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ActionURL)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), notification.CreateNotificationRequest{
		UserID: "user-1",
		Type:   notification.Type("bogus"),
	})
	assert.ErrorIs(t, err, notification.ErrInvalidType)
}

func TestCreatePushesToSubscriber(t *testing.T) {
	t.Parallel()
	svc, _, hub := newTestService()
	ctx := context.Background()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	require.NoError(t, svc.InvoiceCreated(ctx, testInvoice()))

	event := <-ch
	assert.Equal(t, sse.EventNotification, event.Name)
	resp, ok := event.Data.(notification.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, notification.TypeInvoiceCreated, resp.Type)
}

func TestMarkAsReadPublishesControlEvents(t *testing.T) {
	t.Parallel()
	svc, repo, hub := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.InvoiceCreated(ctx, testInvoice()))
	list, _, err := repo.GetByUserID(ctx, "user-1", 1, 10, false)
	require.NoError(t, err)
	id := list[0].ID

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	require.NoError(t, svc.MarkAsRead(ctx, "user-1", notification.MarkAsReadRequest{NotificationIDs: []string{id}}))

	event := <-ch
	assert.Equal(t, sse.EventNotificationRead, event.Name)
	assert.Equal(t, map[string]string{"id": id}, event.Data)

	// Read state is monotonic: marking again transitions nothing.
	n, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	count, err := repo.MarkAsRead(ctx, []string{id}, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllAsReadPublishesBulkEvent(t *testing.T) {
	t.Parallel()
	svc, _, hub := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.InvoiceCreated(ctx, testInvoice()))
	require.NoError(t, svc.SettingsUpdated(ctx, "user-1"))

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	require.NoError(t, svc.MarkAllAsRead(ctx, "user-1"))

	event := <-ch
	assert.Equal(t, sse.EventNotificationsReadAll, event.Name)

	count, err := svc.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListReportsUnreadCount(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.InvoiceCreated(ctx, testInvoice()))
	require.NoError(t, svc.SettingsUpdated(ctx, "user-1"))

	list, _, err := repo.GetByUserID(ctx, "user-1", 1, 10, false)
	require.NoError(t, err)
	_, err = repo.MarkAsRead(ctx, []string{list[0].ID}, "user-1")
	require.NoError(t, err)

	resp, err := svc.List(ctx, "user-1", 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.UnreadCount)
}

func TestCleanupOldRetentionBoundary(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub)
	ctx := context.Background()

	now := time.Now()
	seed := func(id string, age time.Duration, read bool) {
		require.NoError(t, repo.Create(ctx, &notification.Notification{
			ID:        id,
			UserID:    "user-1",
			Type:      notification.TypeInvoiceCreated,
			IsRead:    read,
			CreatedAt: now.Add(-age),
		}))
	}

	seed("old-read", 31*24*time.Hour, true)
	seed("recent-read", 29*24*time.Hour, true)
	seed("old-unread", 90*24*time.Hour, false)

	deleted, err := svc.CleanupOld(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = repo.GetByID(ctx, "old-read")
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	_, err = repo.GetByID(ctx, "recent-read")
	assert.NoError(t, err)

	// Unread notifications are never auto-deleted regardless of age.
	_, err = repo.GetByID(ctx, "old-unread")
	assert.NoError(t, err)
}

func TestSubscribeDeliversStreamEvents(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	require.NoError(t, svc.InvoiceCreated(context.Background(), testInvoice()))

	select {
	case event := <-events:
		assert.Equal(t, sse.EventNotification, event.Event)
	case <-time.After(time.Second):
		t.Fatal("expected a stream event")
	}
}
