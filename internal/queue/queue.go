package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orbitpay/gateway/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "gateway:queue:"

// retryBaseDelay seeds the queue-level exponential backoff for handler
// failures: 1s, 2s, 4s. Independent of webhook delivery retries.
const retryBaseDelay = time.Second

// Queue is a durable, at-least-once job queue on Redis. Due jobs wait on a
// list, delayed jobs on a sorted set scored by their ready-at time; a
// dispatcher promotes due delayed jobs and moves waiting jobs to an active
// list while a handler runs them.
type Queue struct {
	name     string
	client   *redis.Client
	logger   *zap.Logger
	cfg      config.QueueConfig
	handlers map[string]Handler

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

// NewQueue creates a queue bound to a name. Handlers must be registered
// with Process before Start.
func NewQueue(name string, client *redis.Client, cfg config.QueueConfig, logger *zap.Logger) *Queue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}
	return &Queue{
		name:     name,
		client:   client,
		logger:   logger.With(zap.String("queue", name)),
		cfg:      cfg,
		handlers: make(map[string]Handler),
		stop:     make(chan struct{}),
	}
}

func (q *Queue) Name() string { return q.name }

func (q *Queue) waitKey() string      { return keyPrefix + q.name + ":wait" }
func (q *Queue) delayedKey() string   { return keyPrefix + q.name + ":delayed" }
func (q *Queue) activeKey() string    { return keyPrefix + q.name + ":active" }
func (q *Queue) failedKey() string    { return keyPrefix + q.name + ":failed" }
func (q *Queue) completedKey() string { return keyPrefix + q.name + ":completed" }
func (q *Queue) jobsKey() string      { return keyPrefix + q.name + ":jobs" }

// Enqueue stores a job and schedules it for delivery, immediately or after
// the given delay.
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload interface{}, delay time.Duration) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &Job{
		ID:         uuid.New().String(),
		Queue:      q.name,
		Type:       jobType,
		Payload:    body,
		EnqueuedAt: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.jobsKey(), job.ID, data)
	if delay > 0 {
		readyAt := float64(time.Now().Add(delay).UnixMilli())
		pipe.ZAdd(ctx, q.delayedKey(), redis.Z{Score: readyAt, Member: job.ID})
	} else {
		pipe.LPush(ctx, q.waitKey(), job.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	q.logger.Debug("job enqueued",
		zap.String("job_id", job.ID),
		zap.String("job_type", jobType),
		zap.Duration("delay", delay))

	return job.ID, nil
}

// Process registers the handler for a job type. Must be called before Start.
func (q *Queue) Process(jobType string, handler Handler) {
	q.handlers[jobType] = handler
}

// Start launches the dispatch loop. Jobs left on the active list by a
// previous crash are pushed back to waiting first, which is where the
// at-least-once redelivery comes from.
func (q *Queue) Start(ctx context.Context) {
	q.requeueActive(ctx)

	for i := 0; i < q.cfg.Concurrency; i++ {
		q.wg.Add(1)
		go q.dispatchLoop(ctx)
	}

	q.wg.Add(1)
	go q.promoteLoop(ctx)

	q.logger.Info("queue started", zap.Int("concurrency", q.cfg.Concurrency))
}

// Stop signals the dispatch loops to exit and waits for in-flight handlers.
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stop) })
	q.wg.Wait()
	q.logger.Info("queue stopped")
}

// Counts reports the queue's introspection snapshot. Delayed jobs count as
// waiting.
func (q *Queue) Counts(ctx context.Context) (Counts, error) {
	pipe := q.client.Pipeline()
	waiting := pipe.LLen(ctx, q.waitKey())
	delayed := pipe.ZCard(ctx, q.delayedKey())
	active := pipe.LLen(ctx, q.activeKey())
	completed := pipe.Get(ctx, q.completedKey())
	failed := pipe.LLen(ctx, q.failedKey())
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Counts{}, fmt.Errorf("failed to read queue counts: %w", err)
	}

	completedCount := int64(0)
	if raw, err := completed.Result(); err == nil {
		completedCount, _ = strconv.ParseInt(raw, 10, 64)
	}

	return Counts{
		Waiting:   waiting.Val() + delayed.Val(),
		Active:    active.Val(),
		Completed: completedCount,
		Failed:    failed.Val(),
	}, nil
}

func (q *Queue) requeueActive(ctx context.Context) {
	for {
		id, err := q.client.LMove(ctx, q.activeKey(), q.waitKey(), "RIGHT", "LEFT").Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				q.logger.Error("failed to requeue active jobs", zap.Error(err))
			}
			return
		}
		q.logger.Warn("requeued job left active by previous run", zap.String("job_id", id))
	}
}

// promoteLoop moves delayed jobs whose ready-at time has passed onto the
// waiting list.
func (q *Queue) promoteLoop(ctx context.Context) {
	defer q.wg.Done()

	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.promoteDue(ctx)
		}
	}
}

func (q *Queue) promoteDue(ctx context.Context) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	ids, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil || len(ids) == 0 {
		return
	}

	for _, id := range ids {
		// Remove and push in one transaction so a crash between the two
		// cannot lose the job. If another promoter raced us the push
		// duplicates the id, which at-least-once delivery tolerates.
		pipe := q.client.TxPipeline()
		removed := pipe.ZRem(ctx, q.delayedKey(), id)
		pipe.LPush(ctx, q.waitKey(), id)
		if _, err := pipe.Exec(ctx); err != nil {
			q.logger.Error("failed to promote delayed job",
				zap.String("job_id", id),
				zap.Error(err))
			continue
		}
		if removed.Val() == 0 {
			// Another promoter got there first; drop the duplicate id we
			// just pushed if it is still on the waiting list.
			q.client.LRem(ctx, q.waitKey(), 1, id)
		}
	}
}

func (q *Queue) dispatchLoop(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-q.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		id, err := q.client.BLMove(ctx, q.waitKey(), q.activeKey(), "RIGHT", "LEFT", q.cfg.PollInterval).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			q.logger.Error("failed to dequeue job", zap.Error(err))
			time.Sleep(q.cfg.PollInterval)
			continue
		}

		q.runJob(ctx, id)
	}
}

func (q *Queue) runJob(ctx context.Context, id string) {
	raw, err := q.client.HGet(ctx, q.jobsKey(), id).Result()
	if err != nil {
		q.logger.Error("job data missing, dropping",
			zap.String("job_id", id),
			zap.Error(err))
		q.client.LRem(ctx, q.activeKey(), 1, id)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		q.logger.Error("job data corrupt, dropping",
			zap.String("job_id", id),
			zap.Error(err))
		q.discard(ctx, id)
		return
	}

	handler, ok := q.handlers[job.Type]
	if !ok {
		q.logger.Error("no handler registered for job type",
			zap.String("job_id", id),
			zap.String("job_type", job.Type))
		q.fail(ctx, &job)
		return
	}

	if err := handler(ctx, &job); err != nil {
		q.logger.Warn("job handler failed",
			zap.String("job_id", job.ID),
			zap.String("job_type", job.Type),
			zap.Int("attempts_made", job.AttemptsMade),
			zap.Error(err))
		q.retryOrFail(ctx, &job)
		return
	}

	q.complete(ctx, &job)
}

func (q *Queue) complete(ctx context.Context, job *Job) {
	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, q.activeKey(), 1, job.ID)
	pipe.HDel(ctx, q.jobsKey(), job.ID)
	pipe.Incr(ctx, q.completedKey())
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Error("failed to finalize completed job",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// retryOrFail reschedules a failed job with exponential backoff. MaxRetries
// counts retries after the first execution, so a job runs MaxRetries+1 times
// before it parks on the failed list.
func (q *Queue) retryOrFail(ctx context.Context, job *Job) {
	job.AttemptsMade++

	if job.AttemptsMade > q.cfg.MaxRetries {
		q.fail(ctx, job)
		return
	}

	backoff := retryBaseDelay * time.Duration(1<<(job.AttemptsMade-1))
	readyAt := float64(time.Now().Add(backoff).UnixMilli())

	data, err := json.Marshal(job)
	if err != nil {
		q.logger.Error("failed to marshal job for retry",
			zap.String("job_id", job.ID),
			zap.Error(err))
		q.fail(ctx, job)
		return
	}

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.jobsKey(), job.ID, data)
	pipe.ZAdd(ctx, q.delayedKey(), redis.Z{Score: readyAt, Member: job.ID})
	pipe.LRem(ctx, q.activeKey(), 1, job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Error("failed to schedule job retry",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// fail parks a job on the failed list; the job body stays in the jobs hash
// so an operator can inspect it.
func (q *Queue) fail(ctx context.Context, job *Job) {
	data, err := json.Marshal(job)
	if err == nil {
		q.client.HSet(ctx, q.jobsKey(), job.ID, data)
	}

	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, q.activeKey(), 1, job.ID)
	pipe.LPush(ctx, q.failedKey(), job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Error("failed to park failed job",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	q.logger.Error("job failed permanently",
		zap.String("job_id", job.ID),
		zap.String("job_type", job.Type),
		zap.Int("attempts_made", job.AttemptsMade))
}

func (q *Queue) discard(ctx context.Context, id string) {
	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, q.activeKey(), 1, id)
	pipe.HDel(ctx, q.jobsKey(), id)
	pipe.Exec(ctx)
}
