package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/jobs"
	"github.com/orbitpay/gateway/internal/queue"
	"go.uber.org/zap"
)

// EventEmitter records a webhook event and schedules its delivery.
// Satisfied by usecase.WebhookService.
type EventEmitter interface {
	Emit(ctx context.Context, merchantID, event string, data model.JSONB) error
}

// PaymentWorker consumes payment jobs and drives the pending -> terminal
// state machine.
type PaymentWorker struct {
	payments  domainRepo.PaymentRepository
	emitter   EventEmitter
	simulator SettlementSimulator
	logger    *zap.Logger
}

// NewPaymentWorker creates a new payment worker instance
func NewPaymentWorker(
	payments domainRepo.PaymentRepository,
	emitter EventEmitter,
	simulator SettlementSimulator,
	logger *zap.Logger,
) *PaymentWorker {
	return &PaymentWorker{
		payments:  payments,
		emitter:   emitter,
		simulator: simulator,
		logger:    logger,
	}
}

// Handle settles one payment. Redeliveries of an already-terminal payment
// exit before touching the simulator, and the terminal update itself is
// conditional on the row still being pending, so the outcome is applied at
// most once.
func (w *PaymentWorker) Handle(ctx context.Context, job *queue.Job) error {
	var payload jobs.PaymentJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid payment job payload: %w", err)
	}

	payment, err := w.payments.GetByID(ctx, payload.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment not found: %s", payload.PaymentID)
	}

	if payment.Status != model.PaymentStatusPending {
		w.logger.Info("payment already settled, skipping redelivered job",
			zap.String("payment_id", payment.ID),
			zap.String("status", string(payment.Status)))
		return nil
	}

	outcome, err := w.simulator.Simulate(ctx, payment.Method)
	if err != nil {
		return fmt.Errorf("settlement simulation interrupted: %w", err)
	}

	status := model.PaymentStatusSuccess
	var errorCode, errorDescription *string
	if !outcome.Success {
		status = model.PaymentStatusFailed
		code, desc := declineCode, declineDescription
		errorCode, errorDescription = &code, &desc
	}

	updated, err := w.payments.MarkTerminal(ctx, payment.ID, status, errorCode, errorDescription)
	if err != nil {
		return fmt.Errorf("failed to write terminal status: %w", err)
	}
	if !updated {
		w.logger.Warn("payment settled concurrently, skipping",
			zap.String("payment_id", payment.ID))
		return nil
	}

	payment.Status = status
	payment.ErrorCode = errorCode
	payment.ErrorDescription = errorDescription

	event := EventPaymentSuccess
	if !outcome.Success {
		event = EventPaymentFailed
	}

	if err := w.emitter.Emit(ctx, payment.MerchantID, event, payment.Snapshot()); err != nil {
		// The row is already terminal; a queue retry would hit the pending
		// check above and skip without emitting. Log instead of failing the
		// job and leave the notification to operator tooling.
		w.logger.Error("failed to emit webhook event for settled payment",
			zap.String("payment_id", payment.ID),
			zap.String("event", event),
			zap.Error(err))
		return nil
	}

	w.logger.Info("payment settled",
		zap.String("payment_id", payment.ID),
		zap.String("status", string(status)),
		zap.String("event", event))

	return nil
}
