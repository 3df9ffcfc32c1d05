package queue

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/orbitpay/gateway/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue(t *testing.T, cfg config.QueueConfig) (*Queue, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}
	return NewQueue("test", client, cfg, zap.NewNop()), client
}

func TestEnqueueImmediate(t *testing.T) {
	q, client := newTestQueue(t, config.QueueConfig{})
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "test-job", map[string]string{"key": "value"}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	waiting, err := client.LLen(ctx, q.waitKey()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), waiting)

	raw, err := client.HGet(ctx, q.jobsKey(), id).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "test-job", job.Type)
	assert.Equal(t, 0, job.AttemptsMade)
}

func TestEnqueueDelayedGoesToDelayedSet(t *testing.T) {
	q, client := newTestQueue(t, config.QueueConfig{})
	ctx := context.Background()

	_, err := q.Enqueue(ctx, "test-job", nil, time.Minute)
	require.NoError(t, err)

	waiting, _ := client.LLen(ctx, q.waitKey()).Result()
	delayed, _ := client.ZCard(ctx, q.delayedKey()).Result()
	assert.Equal(t, int64(0), waiting)
	assert.Equal(t, int64(1), delayed)

	counts, err := q.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Waiting)
}

func TestProcessRunsHandlerAndCompletes(t *testing.T) {
	q, _ := newTestQueue(t, config.QueueConfig{Concurrency: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled atomic.Int32
	q.Process("test-job", func(ctx context.Context, job *Job) error {
		var payload map[string]string
		require.NoError(t, json.Unmarshal(job.Payload, &payload))
		assert.Equal(t, "value", payload["key"])
		handled.Add(1)
		return nil
	})

	q.Start(ctx)
	defer q.Stop()

	_, err := q.Enqueue(ctx, "test-job", map[string]string{"key": "value"}, 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return handled.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		counts, err := q.Counts(context.Background())
		return err == nil && counts.Completed == 1 && counts.Waiting == 0 && counts.Active == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestDelayedJobIsPromotedWhenDue(t *testing.T) {
	q, _ := newTestQueue(t, config.QueueConfig{Concurrency: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled atomic.Int32
	q.Process("test-job", func(ctx context.Context, job *Job) error {
		handled.Add(1)
		return nil
	})

	q.Start(ctx)
	defer q.Stop()

	_, err := q.Enqueue(ctx, "test-job", nil, 50*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return handled.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFailingHandlerGoesToDelayedForRetry(t *testing.T) {
	q, client := newTestQueue(t, config.QueueConfig{Concurrency: 1, MaxRetries: 3})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q.Process("test-job", func(ctx context.Context, job *Job) error {
		return assert.AnError
	})

	q.Start(ctx)
	defer q.Stop()

	id, err := q.Enqueue(ctx, "test-job", nil, 0)
	require.NoError(t, err)

	// First failure reschedules with backoff instead of parking the job.
	require.Eventually(t, func() bool {
		score, err := client.ZScore(context.Background(), q.delayedKey(), id).Result()
		return err == nil && score > 0
	}, 5*time.Second, 10*time.Millisecond)

	raw, err := client.HGet(context.Background(), q.jobsKey(), id).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, 1, job.AttemptsMade)
}

func TestHandlerExhaustingRetriesParksOnFailedList(t *testing.T) {
	q, _ := newTestQueue(t, config.QueueConfig{Concurrency: 1, MaxRetries: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var executions atomic.Int32
	q.Process("test-job", func(ctx context.Context, job *Job) error {
		executions.Add(1)
		return assert.AnError
	})

	q.Start(ctx)
	defer q.Stop()

	_, err := q.Enqueue(ctx, "test-job", nil, 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		counts, err := q.Counts(context.Background())
		return err == nil && counts.Failed == 1
	}, 10*time.Second, 10*time.Millisecond)

	// MaxRetries=1 means one retry after the initial run: two executions.
	assert.Equal(t, int32(2), executions.Load())
}

func TestPromoteDueMovesJobToWaiting(t *testing.T) {
	q, client := newTestQueue(t, config.QueueConfig{})
	ctx := context.Background()

	job := &Job{ID: "due", Queue: "test", Type: "test-job", Payload: []byte(`{}`)}
	data, err := json.Marshal(job)
	require.NoError(t, err)
	require.NoError(t, client.HSet(ctx, q.jobsKey(), job.ID, data).Err())
	require.NoError(t, client.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(time.Now().Add(-time.Second).UnixMilli()),
		Member: job.ID,
	}).Err())

	q.promoteDue(ctx)

	waiting, _ := client.LLen(ctx, q.waitKey()).Result()
	delayed, _ := client.ZCard(ctx, q.delayedKey()).Result()
	assert.Equal(t, int64(1), waiting)
	assert.Equal(t, int64(0), delayed)
}

func TestStartRequeuesJobsLeftActive(t *testing.T) {
	q, client := newTestQueue(t, config.QueueConfig{Concurrency: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Simulate a crash mid-flight: job body stored, id stranded on active.
	job := &Job{ID: "stranded", Queue: "test", Type: "test-job", Payload: []byte(`{}`)}
	data, err := json.Marshal(job)
	require.NoError(t, err)
	require.NoError(t, client.HSet(ctx, q.jobsKey(), job.ID, data).Err())
	require.NoError(t, client.LPush(ctx, q.activeKey(), job.ID).Err())

	var handled atomic.Int32
	q.Process("test-job", func(ctx context.Context, job *Job) error {
		handled.Add(1)
		return nil
	})

	q.Start(ctx)
	defer q.Stop()

	require.Eventually(t, func() bool {
		return handled.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestManagerAggregatesCounts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewManager(client, config.QueueConfig{}, zap.NewNop())
	ctx := context.Background()

	_, err := manager.Queue(QueuePayments).Enqueue(ctx, "test-job", nil, 0)
	require.NoError(t, err)
	_, err = manager.Queue(QueueWebhooks).Enqueue(ctx, "test-job", nil, time.Minute)
	require.NoError(t, err)

	perQueue, total, err := manager.GetCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perQueue[QueuePayments].Waiting)
	assert.Equal(t, int64(1), perQueue[QueueWebhooks].Waiting)
	assert.Equal(t, int64(2), total.Waiting)
}

func TestManagerReturnsSameQueueInstance(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewManager(client, config.QueueConfig{}, zap.NewNop())
	assert.Same(t, manager.Queue(QueuePayments), manager.Queue(QueuePayments))
}
