package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Job is the unit of work carried through a queue. Payload is an opaque
// JSON document; handlers decode it into their own payload type.
type Job struct {
	ID           string          `json:"id"`
	Queue        string          `json:"queue"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	AttemptsMade int             `json:"attempts_made"`
	EnqueuedAt   int64           `json:"enqueued_at"`
}

// Handler processes a single job. Delivery is at-least-once: a handler may
// see the same job again after a crash, and must tolerate duplicates.
type Handler func(ctx context.Context, job *Job) error

// Enqueuer is the producer-side contract. Services and workers that only
// need to schedule jobs depend on this instead of the full Queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType string, payload interface{}, delay time.Duration) (string, error)
}

// Counts is the per-queue introspection snapshot.
type Counts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Add accumulates another queue's counts into this one.
func (c *Counts) Add(other Counts) {
	c.Waiting += other.Waiting
	c.Active += other.Active
	c.Completed += other.Completed
	c.Failed += other.Failed
}
