package repository

import (
	"context"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// WebhookLogFilter narrows webhook log listings.
type WebhookLogFilter struct {
	MerchantID string
	Status     model.WebhookStatus
	Limit      int
	Offset     int
}

// WebhookLogRepository persists webhook delivery logs.
type WebhookLogRepository interface {
	Create(ctx context.Context, log *model.WebhookLog) error
	GetByID(ctx context.Context, id string) (*model.WebhookLog, error)
	List(ctx context.Context, filter WebhookLogFilter) ([]*model.WebhookLog, int64, error)

	// RecordSuccess finalizes a delivered log.
	RecordSuccess(ctx context.Context, id string, attempts int, responseCode int, responseBody string, attemptedAt time.Time) error

	// RecordFailure persists a failed attempt. Status stays pending while
	// retries remain (nextRetryAt set) or becomes failed at the ceiling.
	RecordFailure(ctx context.Context, id string, attempts int, status model.WebhookStatus, responseCode int, responseBody string, attemptedAt time.Time, nextRetryAt *time.Time) error

	// ResetForRetry rewinds a log for a manual operator retry: attempts
	// back to zero, status pending, next_retry_at cleared.
	ResetForRetry(ctx context.Context, id string) error
}
