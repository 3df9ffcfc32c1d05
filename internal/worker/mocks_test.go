package worker

import (
	"context"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
)

type fakeEmitter struct {
	err    error
	events []emittedEvent
}

type emittedEvent struct {
	merchantID string
	event      string
	data       model.JSONB
}

func (f *fakeEmitter) Emit(ctx context.Context, merchantID, event string, data model.JSONB) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, emittedEvent{merchantID: merchantID, event: event, data: data})
	return nil
}

type stubSimulator struct {
	outcome Outcome
	err     error
	calls   int
}

func (s *stubSimulator) Simulate(ctx context.Context, method model.PaymentMethod) (Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

type fakePaymentRepo struct {
	payment *model.Payment

	markTerminalCalls  int
	markedStatus       model.PaymentStatus
	markedCode         *string
	markedDesc         *string
	markTerminalResult bool
	markTerminalErr    error
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error { return nil }

func (f *fakePaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if f.payment != nil && f.payment.ID == id {
		return f.payment, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) MarkTerminal(ctx context.Context, id string, status model.PaymentStatus, errorCode, errorDescription *string) (bool, error) {
	f.markTerminalCalls++
	f.markedStatus = status
	f.markedCode = errorCode
	f.markedDesc = errorDescription
	return f.markTerminalResult, f.markTerminalErr
}

func (f *fakePaymentRepo) SetCaptured(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeRefundRepo struct {
	refund *model.Refund

	settleCalls  int
	settleResult *model.Refund
	settleErr    error
}

func (f *fakeRefundRepo) Create(ctx context.Context, refund *model.Refund) error { return nil }

func (f *fakeRefundRepo) GetByID(ctx context.Context, id string) (*model.Refund, error) {
	if f.refund != nil && f.refund.ID == id {
		return f.refund, nil
	}
	return nil, nil
}

func (f *fakeRefundRepo) SumInFlightForPayment(ctx context.Context, paymentID string) (int64, error) {
	return 0, nil
}

func (f *fakeRefundRepo) Settle(ctx context.Context, refundID string) (*model.Refund, error) {
	f.settleCalls++
	return f.settleResult, f.settleErr
}

type fakeMerchantRepo struct {
	merchant *model.Merchant
}

func (f *fakeMerchantRepo) Create(ctx context.Context, merchant *model.Merchant) error { return nil }

func (f *fakeMerchantRepo) GetByID(ctx context.Context, id string) (*model.Merchant, error) {
	if f.merchant != nil && f.merchant.ID == id {
		return f.merchant, nil
	}
	return nil, nil
}

func (f *fakeMerchantRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type recordedFailure struct {
	attempts     int
	status       model.WebhookStatus
	responseCode int
	responseBody string
	attemptedAt  time.Time
	nextRetryAt  *time.Time
}

type fakeWebhookLogRepo struct {
	log *model.WebhookLog

	successCalls    int
	successAttempts int
	successCode     int

	failures []recordedFailure
}

func (f *fakeWebhookLogRepo) Create(ctx context.Context, log *model.WebhookLog) error { return nil }

func (f *fakeWebhookLogRepo) GetByID(ctx context.Context, id string) (*model.WebhookLog, error) {
	if f.log != nil && f.log.ID == id {
		return f.log, nil
	}
	return nil, nil
}

func (f *fakeWebhookLogRepo) List(ctx context.Context, filter domainRepo.WebhookLogFilter) ([]*model.WebhookLog, int64, error) {
	return nil, 0, nil
}

func (f *fakeWebhookLogRepo) RecordSuccess(ctx context.Context, id string, attempts int, responseCode int, responseBody string, attemptedAt time.Time) error {
	f.successCalls++
	f.successAttempts = attempts
	f.successCode = responseCode
	return nil
}

func (f *fakeWebhookLogRepo) RecordFailure(ctx context.Context, id string, attempts int, status model.WebhookStatus, responseCode int, responseBody string, attemptedAt time.Time, nextRetryAt *time.Time) error {
	f.failures = append(f.failures, recordedFailure{
		attempts:     attempts,
		status:       status,
		responseCode: responseCode,
		responseBody: responseBody,
		attemptedAt:  attemptedAt,
		nextRetryAt:  nextRetryAt,
	})
	return nil
}

func (f *fakeWebhookLogRepo) ResetForRetry(ctx context.Context, id string) error { return nil }

type fakeEnqueuer struct {
	err   error
	calls []enqueueCall
}

type enqueueCall struct {
	jobType string
	payload interface{}
	delay   time.Duration
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, jobType string, payload interface{}, delay time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, enqueueCall{jobType: jobType, payload: payload, delay: delay})
	return "job_1", nil
}
