package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscriber(t *testing.T) {
	t.Parallel()
	h := NewHub()

	ch, cleanup := h.Subscribe("user-1")
	defer cleanup()

	h.Publish("user-1", EventNotification, "payload")

	event := <-ch
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, EventNotification, event.Name)
	assert.Equal(t, "payload", event.Data)
}

func TestHub_TargetedDelivery(t *testing.T) {
	t.Parallel()
	h := NewHub()

	ch1, cleanup1 := h.Subscribe("user-1")
	defer cleanup1()
	_, cleanup2 := h.Subscribe("user-2")
	defer cleanup2()

	h.Publish("user-1", EventNotification, 1)

	select {
	case event := <-ch1:
		assert.Equal(t, 1, event.Data)
	default:
		t.Fatal("user-1 should have received the event")
	}
}

func TestHub_MultipleSessionsPerUser(t *testing.T) {
	t.Parallel()
	h := NewHub()

	chA, cleanupA := h.Subscribe("user-1")
	defer cleanupA()
	chB, cleanupB := h.Subscribe("user-1")
	defer cleanupB()

	require.Equal(t, 2, h.SubscriberCount("user-1"))

	h.Publish("user-1", EventNotificationRead, "n-1")

	// Both open sessions see the read event.
	assert.Equal(t, "n-1", (<-chA).Data)
	assert.Equal(t, "n-1", (<-chB).Data)
}

func TestHub_OrderPreserved(t *testing.T) {
	t.Parallel()
	h := NewHub()

	ch, cleanup := h.Subscribe("user-1")
	defer cleanup()

	for i := 0; i < 5; i++ {
		h.Publish("user-1", EventNotification, i)
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, i, (<-ch).Data)
	}
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	t.Parallel()
	h := NewHub()

	_, cleanup := h.Subscribe("user-1")
	defer cleanup()

	// Publish past the buffer; extra events are dropped, not deadlocked.
	for i := 0; i < subscriberBuffer*2; i++ {
		h.Publish("user-1", EventNotification, i)
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	t.Parallel()
	h := NewHub()

	ch, cleanup := h.Subscribe("user-1")
	cleanup()
	cleanup() // idempotent

	assert.Equal(t, 0, h.TotalSubscribers())

	_, open := <-ch
	assert.False(t, open, "channel closed after cleanup")

	// Publishing to a user with no subscribers is a no-op.
	h.Publish("user-1", EventNotification, "x")
}
