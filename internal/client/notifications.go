package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
	"github.com/billora/invoicing-backend-go/internal/pkg/cache"
)

const (
	// Notifications go stale faster than business data, so their cache TTL is
	// shorter than the store default.
	listCacheTTL = 2 * time.Minute

	pollListInterval   = 60 * time.Second
	pollUnreadInterval = 120 * time.Second
)

// listParams keys the cached list fetch.
type listParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NotificationCenter is the client-side notification aggregate. It keeps the
// visible list and unread counter in sync across three inputs: cached API
// fetches, live stream events, and the polling fallback that runs only while
// the stream is down. The server stays the source of truth: every full list
// fetch overwrites the local unread counter with the server-reported value.
type NotificationCenter struct {
	api    *API
	store  *cache.Store
	policy *cache.Policy
	stream *Stream

	cleanupInterval time.Duration

	mu            sync.Mutex
	notifications []notification.NotificationResponse
	unreadCount   int
	total         int
	page          int
	pageSize      int
	connected     bool
}

// NewNotificationCenter creates the aggregate with its own stream client.
func NewNotificationCenter(api *API, store *cache.Store) *NotificationCenter {
	c := &NotificationCenter{
		api:      api,
		store:    store,
		policy:   cache.NewPolicy(store),
		page:     1,
		pageSize: 20,
	}
	c.stream = NewStream(api, c.handleEvent, c.handleState)
	return c
}

// Start loads the first page, opens the stream, and launches the polling
// fallback and the periodic cache sweep. It returns after the initial load;
// the stream, poller, and sweep run until ctx is cancelled.
func (c *NotificationCenter) Start(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	c.store.StartCleanup(ctx, c.cleanupInterval)
	c.stream.Connect(ctx)
	go c.pollLoop(ctx)
	return nil
}

// Close shuts the stream down.
func (c *NotificationCenter) Close() {
	c.stream.Close()
}

// Notifications returns a copy of the current list in recency order.
func (c *NotificationCenter) Notifications() []notification.NotificationResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notification.NotificationResponse, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// UnreadCount returns the local unread counter.
func (c *NotificationCenter) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadCount
}

// Total returns the server-reported total for the current filter.
func (c *NotificationCenter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Load fetches the current page through the cache.
func (c *NotificationCenter) Load(ctx context.Context) error {
	return c.fetchList(ctx, false)
}

// Refresh bypasses the cache and overwrites it with a fresh page.
func (c *NotificationCenter) Refresh(ctx context.Context) error {
	return c.fetchList(ctx, true)
}

// SetPage changes the page and loads it.
func (c *NotificationCenter) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *NotificationCenter) fetchList(ctx context.Context, refresh bool) error {
	c.mu.Lock()
	page, pageSize := c.page, c.pageSize
	c.mu.Unlock()

	binding := cache.NewBinding(c.store, "notifications", listParams{Page: page, PageSize: pageSize}, listCacheTTL,
		func(ctx context.Context) (*notification.NotificationListResponse, error) {
			return c.api.ListNotifications(ctx, page, pageSize, false)
		})

	var result *notification.NotificationListResponse
	var err error
	if refresh {
		result, err = binding.Refresh(ctx)
	} else {
		result, err = binding.Fetch(ctx)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = result.Notifications
	c.total = result.Total
	// Reconcile the local counter to the server's: stream gaps and races
	// between sessions drift it, and the list response carries the truth.
	c.unreadCount = result.UnreadCount
	return nil
}

// MarkAsRead flips one notification read. The local flip is optimistic; a
// failed request surfaces as the returned error and the next full fetch
// reconciles state.
func (c *NotificationCenter) MarkAsRead(ctx context.Context, id string) error {
	c.applyRead(id)

	if err := c.api.MarkAsRead(ctx, []string{id}); err != nil {
		return err
	}
	c.policy.InvalidateNotifications()
	return nil
}

// MarkAllAsRead flips every notification read and zeroes the counter.
func (c *NotificationCenter) MarkAllAsRead(ctx context.Context) error {
	c.applyReadAll()

	if err := c.api.MarkAllAsRead(ctx); err != nil {
		return err
	}
	c.policy.InvalidateNotifications()
	return nil
}

// Delete removes one notification locally and remotely.
func (c *NotificationCenter) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	for i, n := range c.notifications {
		if n.ID == id {
			if !n.IsRead {
				c.decrementUnreadLocked()
			}
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			if c.total > 0 {
				c.total--
			}
			break
		}
	}
	c.mu.Unlock()

	if err := c.api.DeleteNotification(ctx, id); err != nil {
		return err
	}
	c.policy.InvalidateNotifications()
	return nil
}

// applyRead flips the local record and decrements the counter only when the
// record was actually unread, keeping repeated marks idempotent.
func (c *NotificationCenter) applyRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notifications {
		if n.ID == id {
			if !n.IsRead {
				c.notifications[i].IsRead = true
				c.decrementUnreadLocked()
			}
			return
		}
	}
}

func (c *NotificationCenter) applyReadAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.notifications {
		c.notifications[i].IsRead = true
	}
	c.unreadCount = 0
}

func (c *NotificationCenter) decrementUnreadLocked() {
	if c.unreadCount > 0 {
		c.unreadCount--
	}
}

// handleEvent processes one stream event.
func (c *NotificationCenter) handleEvent(event string, data []byte) {
	switch event {
	case "notification":
		var n notification.NotificationResponse
		if err := json.Unmarshal(data, &n); err != nil {
			slog.Debug("stream event decode failed", "event", event, "error", err)
			return
		}
		c.addNotification(n)
		c.policy.InvalidateNotifications()

	case "notification_read":
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return
		}
		// Another session marked it; mirror the change locally.
		c.applyRead(payload.ID)
		c.policy.InvalidateNotifications()

	case "notifications_read_all":
		c.applyReadAll()
		c.policy.InvalidateNotifications()

	case "connected", "ping":
		// Keepalive traffic carries no state.
	}
}

// addNotification prepends a pushed record, deduplicating against records the
// polling fallback may already have fetched.
func (c *NotificationCenter) addNotification(n notification.NotificationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.notifications {
		if existing.ID == n.ID {
			return
		}
	}
	c.notifications = append([]notification.NotificationResponse{n}, c.notifications...)
	c.total++
	if !n.IsRead {
		c.unreadCount++
	}
}

func (c *NotificationCenter) handleState(connected bool) {
	c.mu.Lock()
	c.connected = connected
	c.mu.Unlock()
	slog.Debug("notification stream state", "connected", connected)
}

// Connected reports whether the live stream is up.
func (c *NotificationCenter) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// pollLoop is the fallback for a down stream: a full list refresh every
// minute and a cheap unread-count probe every two. Both are suppressed while
// the stream is connected, so push and poll never run at the same time.
func (c *NotificationCenter) pollLoop(ctx context.Context) {
	listTicker := time.NewTicker(pollListInterval)
	unreadTicker := time.NewTicker(pollUnreadInterval)
	defer listTicker.Stop()
	defer unreadTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-listTicker.C:
			if c.Connected() {
				continue
			}
			if err := c.Refresh(ctx); err != nil {
				slog.Debug("notification poll failed", "error", err)
			}

		case <-unreadTicker.C:
			if c.Connected() {
				continue
			}
			count, err := c.api.UnreadCount(ctx)
			if err != nil {
				slog.Debug("unread count poll failed", "error", err)
				continue
			}
			c.mu.Lock()
			c.unreadCount = count
			c.mu.Unlock()
		}
	}
}
