package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = clock.Now
	return s, clock
}

func TestStore_SetGet(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Set("invoices-{}", []string{"a", "b"}, 5*time.Minute)

	got, ok := s.Get("invoices-{}")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	got, ok := s.Get("nothing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set("invoices-{}", "data", 5*time.Minute)

	clock.Advance(5 * time.Minute)
	_, ok := s.Get("invoices-{}")
	assert.True(t, ok, "entry at exactly ttl is still valid")

	clock.Advance(time.Second)
	_, ok = s.Get("invoices-{}")
	assert.False(t, ok, "entry past ttl is stale")

	// Lazy expiry removed the entry entirely.
	assert.False(t, s.Has("invoices-{}"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_DefaultTTL(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set("k", "v", 0)

	clock.Advance(DefaultTTL - time.Second)
	assert.True(t, s.Has("k"))

	clock.Advance(2 * time.Second)
	assert.False(t, s.Has("k"))
}

func TestStore_SetOverwrites(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set("k", "old", time.Minute)
	clock.Advance(50 * time.Second)
	s.Set("k", "new", time.Minute)
	clock.Advance(30 * time.Second)

	got, ok := s.Get("k")
	require.True(t, ok, "overwrite resets the timestamp")
	assert.Equal(t, "new", got)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Set("k", "v", time.Minute)
	assert.True(t, s.Delete("k"))
	assert.False(t, s.Delete("k"))
	assert.False(t, s.Has("k"))
}

func TestStore_InvalidatePattern(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Set("invoices-{}", 1, time.Minute)
	s.Set(`invoices-{"page":2}`, 2, time.Minute)
	s.Set("customers-{}", 3, time.Minute)

	count := s.Invalidate("invoices")
	assert.Equal(t, 2, count)

	assert.False(t, s.Has("invoices-{}"))
	assert.False(t, s.Has(`invoices-{"page":2}`))
	assert.True(t, s.Has("customers-{}"))
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)
	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_Cleanup(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	s.Set("short", 1, time.Minute)
	s.Set("long", 2, time.Hour)
	clock.Advance(10 * time.Minute)

	evicted := s.Cleanup()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("long"))
}

func TestStore_StartCleanup(t *testing.T) {
	t.Parallel()
	s := NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Set("k", "v", time.Nanosecond)
	s.StartCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, 5*time.Millisecond)
}
