package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/jobs"
	"github.com/orbitpay/gateway/internal/queue"
	"github.com/orbitpay/gateway/internal/webhook"
	"go.uber.org/zap"
)

// wireBody is the webhook wire format. The signature covers the exact
// marshaled bytes of this structure.
type wireBody struct {
	Event     string      `json:"event"`
	Timestamp int64       `json:"timestamp"`
	Data      model.JSONB `json:"data"`
}

// WebhookWorker is the delivery engine: it signs and posts the payload,
// records the attempt on the log, and reschedules itself on failure until
// the retry policy is exhausted.
type WebhookWorker struct {
	merchants domainRepo.MerchantRepository
	logs      domainRepo.WebhookLogRepository
	sender    *webhook.Sender
	policy    webhook.RetryPolicy
	queue     queue.Enqueuer
	logger    *zap.Logger
	now       func() time.Time
}

// NewWebhookWorker creates a new webhook delivery worker instance
func NewWebhookWorker(
	merchants domainRepo.MerchantRepository,
	logs domainRepo.WebhookLogRepository,
	sender *webhook.Sender,
	policy webhook.RetryPolicy,
	webhookQueue queue.Enqueuer,
	logger *zap.Logger,
) *WebhookWorker {
	return &WebhookWorker{
		merchants: merchants,
		logs:      logs,
		sender:    sender,
		policy:    policy,
		queue:     webhookQueue,
		logger:    logger,
		now:       time.Now,
	}
}

func (w *WebhookWorker) Handle(ctx context.Context, job *queue.Job) error {
	var payload jobs.WebhookJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid webhook job payload: %w", err)
	}

	merchant, err := w.merchants.GetByID(ctx, payload.MerchantID)
	if err != nil {
		return fmt.Errorf("failed to load merchant: %w", err)
	}
	if merchant == nil {
		return fmt.Errorf("merchant not found: %s", payload.MerchantID)
	}

	if merchant.WebhookURL == "" {
		// Merchant has no endpoint configured; the attempt succeeds as a
		// skip and the log is left untouched.
		w.logger.Info("webhook skipped, merchant has no endpoint",
			zap.String("webhook_log_id", payload.WebhookLogID),
			zap.String("merchant_id", merchant.ID))
		return nil
	}

	log, err := w.logs.GetByID(ctx, payload.WebhookLogID)
	if err != nil {
		return fmt.Errorf("failed to load webhook log: %w", err)
	}
	if log == nil {
		return fmt.Errorf("webhook log not found: %s", payload.WebhookLogID)
	}

	if log.Status == model.WebhookStatusSuccess {
		w.logger.Info("webhook already delivered, skipping redelivered job",
			zap.String("webhook_log_id", log.ID))
		return nil
	}

	attempts := log.Attempts + 1
	attemptedAt := w.now()

	body, err := json.Marshal(wireBody{
		Event:     payload.Event,
		Timestamp: attemptedAt.Unix(),
		Data:      payload.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize webhook body: %w", err)
	}

	result := w.sender.Deliver(ctx, merchant.WebhookURL, merchant.WebhookSecret, body)

	if result.Success {
		if err := w.logs.RecordSuccess(ctx, log.ID, attempts, result.StatusCode, result.Body, attemptedAt); err != nil {
			return fmt.Errorf("failed to record webhook success: %w", err)
		}
		w.logger.Info("webhook delivered",
			zap.String("webhook_log_id", log.ID),
			zap.String("event", payload.Event),
			zap.Int("attempts", attempts),
			zap.Int("response_code", result.StatusCode))
		return nil
	}

	if w.policy.Exhausted(attempts) {
		if err := w.logs.RecordFailure(ctx, log.ID, attempts, model.WebhookStatusFailed, result.StatusCode, result.Body, attemptedAt, nil); err != nil {
			return fmt.Errorf("failed to record webhook failure: %w", err)
		}
		w.logger.Error("webhook delivery exhausted retries",
			zap.String("webhook_log_id", log.ID),
			zap.String("merchant_id", merchant.ID),
			zap.Int("attempts", attempts))
		return nil
	}

	delay := w.policy.DelayFor(attempts + 1)
	nextRetryAt := attemptedAt.Add(delay)

	if err := w.logs.RecordFailure(ctx, log.ID, attempts, model.WebhookStatusPending, result.StatusCode, result.Body, attemptedAt, &nextRetryAt); err != nil {
		return fmt.Errorf("failed to record webhook failure: %w", err)
	}

	// The retry is scheduled only after the failed attempt is persisted,
	// which keeps retries for one log causally ordered.
	if _, err := w.queue.Enqueue(ctx, jobs.TypeDeliverWebhook, payload, delay); err != nil {
		return fmt.Errorf("failed to schedule webhook retry: %w", err)
	}

	w.logger.Warn("webhook delivery failed, retry scheduled",
		zap.String("webhook_log_id", log.ID),
		zap.Int("attempts", attempts),
		zap.Int("response_code", result.StatusCode),
		zap.Duration("delay", delay))

	return nil
}
