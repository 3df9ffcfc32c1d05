package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/orbitpay/gateway/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Well-known queue names.
const (
	QueuePayments = "payments"
	QueueRefunds  = "refunds"
	QueueWebhooks = "webhooks"
)

// Manager owns the set of named queues and their shared Redis client.
type Manager struct {
	client *redis.Client
	cfg    config.QueueConfig
	logger *zap.Logger
	queues map[string]*Queue
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewManager creates a queue manager over a shared Redis client.
func NewManager(client *redis.Client, cfg config.QueueConfig, logger *zap.Logger) *Manager {
	return &Manager{
		client: client,
		cfg:    cfg,
		logger: logger,
		queues: make(map[string]*Queue),
	}
}

// Queue returns the named queue, creating it on first use.
func (m *Manager) Queue(name string) *Queue {
	if q, ok := m.queues[name]; ok {
		return q
	}
	q := NewQueue(name, m.client, m.cfg, m.logger)
	m.queues[name] = q
	return q
}

// Start launches all registered queues.
func (m *Manager) Start(ctx context.Context) {
	for _, q := range m.queues {
		q.Start(ctx)
	}
}

// Stop stops all registered queues and waits for in-flight handlers.
func (m *Manager) Stop() {
	for _, q := range m.queues {
		q.Stop()
	}
}

// GetCounts returns per-queue counts plus the aggregate across all queues.
func (m *Manager) GetCounts(ctx context.Context) (map[string]Counts, Counts, error) {
	perQueue := make(map[string]Counts, len(m.queues))
	var total Counts

	for name, q := range m.queues {
		counts, err := q.Counts(ctx)
		if err != nil {
			return nil, Counts{}, fmt.Errorf("failed to read counts for queue %s: %w", name, err)
		}
		perQueue[name] = counts
		total.Add(counts)
	}

	return perQueue, total, nil
}
