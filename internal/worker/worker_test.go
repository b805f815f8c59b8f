package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"parkdash/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}

	assert.Equal(t, 2*time.Second, policy.NextDelay(1))
	assert.Equal(t, 4*time.Second, policy.NextDelay(2))
	assert.Equal(t, 8*time.Second, policy.NextDelay(3))
	// Clamped at MaxDelay
	assert.Equal(t, time.Minute, policy.NextDelay(10))
	// Attempt below 1 normalizes
	assert.Equal(t, 2*time.Second, policy.NextDelay(0))
}

func TestRetryPolicyDefaults(t *testing.T) {
	policy := RetryPolicy{}
	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
}

type fakeSource struct {
	records []models.Record
}

func (f *fakeSource) Records() []models.Record {
	return f.records
}

type fakeSheets struct {
	calls int
	got   int
	err   error
}

func (f *fakeSheets) ReplaceBookings(ctx context.Context, records []models.Record) error {
	f.calls++
	f.got = len(records)
	return f.err
}

func newTestWorker(source *fakeSource, sheets *fakeSheets, client *redis.Client) *MirrorWorker {
	logger := zerolog.New(io.Discard)
	return NewMirrorWorker(source, sheets, client, RetryPolicy{MaxRetries: 1}, &logger)
}

func TestProcessTaskSuccess(t *testing.T) {
	source := &fakeSource{records: []models.Record{{ID: "r1"}, {ID: "r2"}}}
	sheets := &fakeSheets{}
	w := newTestWorker(source, sheets, nil)

	ctx := context.Background()
	require.NoError(t, w.Enqueue(ctx, "test"))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	assert.Equal(t, "test", task.Reason)

	w.processTask(ctx, task)
	assert.Equal(t, 1, sheets.calls)
	assert.Equal(t, 2, sheets.got)
}

func TestProcessTaskRetriesExhausted(t *testing.T) {
	source := &fakeSource{}
	sheets := &fakeSheets{err: errors.New("boom")}
	w := newTestWorker(source, sheets, nil)

	ctx := context.Background()
	require.NoError(t, w.Enqueue(ctx, "failing"))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)

	// MaxRetries=1 means the first failure goes straight to dead letter.
	w.processTask(ctx, task)
	assert.Equal(t, 1, sheets.calls)

	_, ok = w.tryLocalQueue()
	assert.False(t, ok, "exhausted task must not be re-enqueued")
}

func TestEnqueueReportsFullQueue(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeSheets{}, nil)
	ctx := context.Background()

	for i := 0; i < models.WorkerQueueSize; i++ {
		require.NoError(t, w.Enqueue(ctx, "fill"))
	}

	err := w.Enqueue(ctx, "overflow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")

	// The queued tasks are intact; the overflow one was dropped.
	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	assert.Equal(t, "fill", task.Reason)
}

func TestEnqueuePrefersRedis(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	w := newTestWorker(&fakeSource{}, &fakeSheets{}, client)
	ctx := context.Background()

	require.NoError(t, w.Enqueue(ctx, "durable"))

	// The task goes to redis, not to the in-memory channel.
	_, ok := w.tryLocalQueue()
	assert.False(t, ok)

	task, ok := w.tryRedis(ctx)
	require.True(t, ok)
	assert.Equal(t, "durable", task.Reason)
}

func TestDeadLetterLandsInRedis(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	sheets := &fakeSheets{err: errors.New("boom")}
	w := newTestWorker(&fakeSource{}, sheets, client)
	ctx := context.Background()

	w.processTask(ctx, MirrorTask{Reason: "doomed", CreatedAt: time.Now()})

	n, err := client.LLen(ctx, w.deadLetterKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeSheets{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
