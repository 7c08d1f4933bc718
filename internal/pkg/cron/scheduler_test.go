package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce_IsolatesFailures(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var ran atomic.Int32
	failErr := errors.New("boom")

	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		return failErr
	})
	s.AddJob("succeeding", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	results := s.RunOnce(context.Background())
	require.Len(t, results, 2)
	assert.ErrorIs(t, results["failing"], failErr)
	assert.NoError(t, results["succeeding"])
	assert.Equal(t, int32(1), ran.Load())
}

func TestStart_RunsJobImmediately(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{})
	var once atomic.Bool
	s.AddJob("immediate", time.Hour, func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(done)
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStop_WaitsForJobs(t *testing.T) {
	s := NewScheduler()

	started := make(chan struct{})
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})

	s.Start()
	<-started
	s.Stop()
}
