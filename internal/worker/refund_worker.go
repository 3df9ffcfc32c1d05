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
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// RefundWorker consumes refund jobs. The refundability re-validation and
// the processed transition run in one row-locked transaction in the
// repository, so concurrent refunds against the same payment serialize.
type RefundWorker struct {
	refunds         domainRepo.RefundRepository
	emitter         EventEmitter
	processingDelay time.Duration
	logger          *zap.Logger
}

// NewRefundWorker creates a new refund worker instance
func NewRefundWorker(
	refunds domainRepo.RefundRepository,
	emitter EventEmitter,
	processingDelay time.Duration,
	logger *zap.Logger,
) *RefundWorker {
	return &RefundWorker{
		refunds:         refunds,
		emitter:         emitter,
		processingDelay: processingDelay,
		logger:          logger,
	}
}

func (w *RefundWorker) Handle(ctx context.Context, job *queue.Job) error {
	var payload jobs.RefundJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid refund job payload: %w", err)
	}

	refund, err := w.refunds.GetByID(ctx, payload.RefundID)
	if err != nil {
		return fmt.Errorf("failed to load refund: %w", err)
	}
	if refund == nil {
		return fmt.Errorf("refund not found: %s", payload.RefundID)
	}

	if refund.Status != model.RefundStatusPending {
		w.logger.Info("refund already settled, skipping redelivered job",
			zap.String("refund_id", refund.ID),
			zap.String("status", string(refund.Status)))
		return nil
	}

	if err := sleepCtx(ctx, w.processingDelay); err != nil {
		return fmt.Errorf("refund processing interrupted: %w", err)
	}

	settled, err := w.refunds.Settle(ctx, refund.ID)
	if err != nil {
		// State conflicts here mean the creation-time check raced another
		// refund; the job fails permanently and the refund stays pending
		// for operator intervention.
		apperrors.LogError(w.logger, err, "refund settlement rejected",
			zap.String("refund_id", refund.ID))
		return fmt.Errorf("failed to settle refund: %w", err)
	}

	if err := w.emitter.Emit(ctx, settled.MerchantID, EventRefundProcessed, settled.Snapshot()); err != nil {
		w.logger.Error("failed to emit webhook event for processed refund",
			zap.String("refund_id", settled.ID),
			zap.Error(err))
		return nil
	}

	w.logger.Info("refund processed",
		zap.String("refund_id", settled.ID),
		zap.String("payment_id", settled.PaymentID))

	return nil
}
