package usecase

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/jobs"
	"github.com/orbitpay/gateway/internal/queue"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// WebhookService owns the webhook log: it creates pending logs when an
// event is emitted and exposes the operator surface (listing, manual
// retry). Attempt bookkeeping belongs to the delivery worker.
type WebhookService struct {
	logs   domainRepo.WebhookLogRepository
	queue  queue.Enqueuer
	logger *zap.Logger
}

// NewWebhookService creates a new webhook service instance
func NewWebhookService(
	logs domainRepo.WebhookLogRepository,
	webhookQueue queue.Enqueuer,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		logs:   logs,
		queue:  webhookQueue,
		logger: logger,
	}
}

// Emit records a pending webhook log for the event and schedules its first
// delivery.
func (s *WebhookService) Emit(ctx context.Context, merchantID, event string, data model.JSONB) error {
	log := &model.WebhookLog{
		ID:         model.NewID("evt"),
		MerchantID: merchantID,
		Event:      event,
		Payload:    data,
		Status:     model.WebhookStatusPending,
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return apperrors.Wrap(err, "failed to create webhook log")
	}

	_, err := s.queue.Enqueue(ctx, jobs.TypeDeliverWebhook, jobs.WebhookJob{
		WebhookLogID: log.ID,
		MerchantID:   merchantID,
		Event:        event,
		Payload:      data,
	}, 0)
	if err != nil {
		return apperrors.Wrap(err, "failed to enqueue webhook delivery")
	}

	s.logger.Info("webhook event emitted",
		zap.String("webhook_log_id", log.ID),
		zap.String("merchant_id", merchantID),
		zap.String("event", event))

	return nil
}

// ListLogs returns webhook logs matching the filter plus the total count.
func (s *WebhookService) ListLogs(ctx context.Context, filter domainRepo.WebhookLogFilter) ([]*model.WebhookLog, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list webhook logs")
	}
	return logs, total, nil
}

// Retry is the operator-triggered manual retry: attempts rewind to zero,
// status back to pending, and the delivery job re-enters the schedule from
// the first attempt with no delay. Distinct from automatic continuation,
// which resumes mid-schedule.
func (s *WebhookService) Retry(ctx context.Context, webhookLogID string) (*model.WebhookLog, error) {
	log, err := s.logs.GetByID(ctx, webhookLogID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load webhook log")
	}
	if log == nil {
		return nil, apperrors.NotFound("webhook log not found")
	}

	if err := s.logs.ResetForRetry(ctx, log.ID); err != nil {
		return nil, apperrors.Wrap(err, "failed to reset webhook log")
	}

	_, err = s.queue.Enqueue(ctx, jobs.TypeDeliverWebhook, jobs.WebhookJob{
		WebhookLogID: log.ID,
		MerchantID:   log.MerchantID,
		Event:        log.Event,
		Payload:      log.Payload,
	}, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to enqueue webhook delivery")
	}

	log.Status = model.WebhookStatusPending
	log.Attempts = 0
	log.NextRetryAt = nil

	s.logger.Info("webhook manually retried",
		zap.String("webhook_log_id", log.ID),
		zap.String("merchant_id", log.MerchantID))

	return log, nil
}
