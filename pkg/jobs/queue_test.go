package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls int32
	done := make(chan string, 1)
	q := NewQueue("test", func(ctx context.Context, ref string) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("busy")
		}
		done <- ref
		return nil
	}, QueueConfig{RetryDelay: time.Millisecond, MaxRetries: 5})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("asset"))
	select {
	case ref := <-done:
		assert.Equal(t, "asset", ref)
	case <-time.After(2 * time.Second):
		t.Fatal("task never succeeded")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	q := NewQueue("test", func(ctx context.Context, ref string) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("permanent")
	}, QueueConfig{RetryDelay: time.Millisecond, MaxRetries: 2})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue("asset"))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueRejectsWhenNotRunning(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, v int) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(1))

	q.Start(context.Background())
	q.Stop()
	assert.Error(t, q.Enqueue(1))
}
