package sse

import (
	"sync"
)

// Event names of the notification stream wire contract.
const (
	EventConnected            = "connected"
	EventNotification         = "notification"
	EventNotificationRead     = "notification_read"
	EventNotificationsReadAll = "notifications_read_all"
	EventPing                 = "ping"
)

// subscriberBuffer bounds the per-connection queue. Sends to a full buffer
// are dropped rather than blocking the publisher.
const subscriberBuffer = 16

// Event is a single server-to-client push.
type Event struct {
	UserID string
	Name   string
	Data   interface{}
}

// Hub fans events out to the active subscribers of each user. A user may hold
// several subscriptions at once (multiple open tabs); every subscriber of the
// target user receives each event, in publish order per subscriber.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for userID and returns its event channel
// plus a cleanup function. Cleanup closes the channel and drops the
// registration; it is safe to call more than once.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[userID][ch]; !ok {
			return
		}
		delete(h.subscribers[userID], ch)
		close(ch)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
	}

	return ch, cleanup
}

// Publish delivers an event to every active subscriber of userID. Slow
// subscribers with a full buffer are skipped so a stuck connection cannot
// stall delivery to the rest.
func (h *Hub) Publish(userID string, name string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[userID]
	if !ok {
		return
	}

	event := Event{UserID: userID, Name: name, Data: data}
	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// TotalSubscribers returns the number of active subscribers across all users.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
