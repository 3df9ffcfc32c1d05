package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"github.com/stretchr/testify/require"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code())
}

type fakeOrderRepo struct {
	order   *model.Order
	created []*model.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, nil
}

type fakePaymentRepo struct {
	payment *model.Payment
	created []*model.Payment

	capturedResult bool
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	f.created = append(f.created, payment)
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if f.payment != nil && f.payment.ID == id {
		return f.payment, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) MarkTerminal(ctx context.Context, id string, status model.PaymentStatus, errorCode, errorDescription *string) (bool, error) {
	return false, nil
}

func (f *fakePaymentRepo) SetCaptured(ctx context.Context, id string) (bool, error) {
	return f.capturedResult, nil
}

type fakeRefundRepo struct {
	refund  *model.Refund
	created []*model.Refund

	inFlightSum int64
}

func (f *fakeRefundRepo) Create(ctx context.Context, refund *model.Refund) error {
	f.created = append(f.created, refund)
	return nil
}

func (f *fakeRefundRepo) GetByID(ctx context.Context, id string) (*model.Refund, error) {
	if f.refund != nil && f.refund.ID == id {
		return f.refund, nil
	}
	return nil, nil
}

func (f *fakeRefundRepo) SumInFlightForPayment(ctx context.Context, paymentID string) (int64, error) {
	return f.inFlightSum, nil
}

func (f *fakeRefundRepo) Settle(ctx context.Context, refundID string) (*model.Refund, error) {
	return nil, nil
}

type fakeWebhookLogRepo struct {
	log     *model.WebhookLog
	created []*model.WebhookLog

	listResult []*model.WebhookLog
	listTotal  int64
	gotFilter  domainRepo.WebhookLogFilter

	resetCalls int
}

func (f *fakeWebhookLogRepo) Create(ctx context.Context, log *model.WebhookLog) error {
	f.created = append(f.created, log)
	return nil
}

func (f *fakeWebhookLogRepo) GetByID(ctx context.Context, id string) (*model.WebhookLog, error) {
	if f.log != nil && f.log.ID == id {
		return f.log, nil
	}
	return nil, nil
}

func (f *fakeWebhookLogRepo) List(ctx context.Context, filter domainRepo.WebhookLogFilter) ([]*model.WebhookLog, int64, error) {
	f.gotFilter = filter
	return f.listResult, f.listTotal, nil
}

func (f *fakeWebhookLogRepo) RecordSuccess(ctx context.Context, id string, attempts int, responseCode int, responseBody string, attemptedAt time.Time) error {
	return nil
}

func (f *fakeWebhookLogRepo) RecordFailure(ctx context.Context, id string, attempts int, status model.WebhookStatus, responseCode int, responseBody string, attemptedAt time.Time, nextRetryAt *time.Time) error {
	return nil
}

func (f *fakeWebhookLogRepo) ResetForRetry(ctx context.Context, id string) error {
	f.resetCalls++
	return nil
}

type fakeIdempotencyRepo struct {
	record *model.IdempotencyKey
	getErr error

	upserted    []*model.IdempotencyKey
	deleteCalls int
}

func (f *fakeIdempotencyRepo) Get(ctx context.Context, key, merchantID string) (*model.IdempotencyKey, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.record != nil && f.record.Key == key && f.record.MerchantID == merchantID {
		return f.record, nil
	}
	return nil, nil
}

func (f *fakeIdempotencyRepo) Upsert(ctx context.Context, record *model.IdempotencyKey) error {
	f.upserted = append(f.upserted, record)
	return nil
}

func (f *fakeIdempotencyRepo) Delete(ctx context.Context, key, merchantID string) error {
	f.deleteCalls++
	return nil
}

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
