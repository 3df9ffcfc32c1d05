package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/jobs"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmitCreatesLogAndEnqueuesDelivery(t *testing.T) {
	logs := &fakeWebhookLogRepo{}
	enqueuer := &fakeEnqueuer{}

	svc := NewWebhookService(logs, enqueuer, zap.NewNop())
	err := svc.Emit(context.Background(), "merchant_demo", "payment.success", model.JSONB{"id": "pay_abc123"})

	require.NoError(t, err)
	require.Len(t, logs.created, 1)
	log := logs.created[0]
	assert.True(t, strings.HasPrefix(log.ID, "evt_"))
	assert.Equal(t, model.WebhookStatusPending, log.Status)
	assert.Equal(t, 0, log.Attempts)

	require.Len(t, enqueuer.calls, 1)
	assert.Equal(t, jobs.TypeDeliverWebhook, enqueuer.calls[0].jobType)
	job := enqueuer.calls[0].payload.(jobs.WebhookJob)
	assert.Equal(t, log.ID, job.WebhookLogID)
	assert.Equal(t, "payment.success", job.Event)
	assert.Zero(t, enqueuer.calls[0].delay)
}

func TestListLogsDefaultsLimit(t *testing.T) {
	logs := &fakeWebhookLogRepo{}
	svc := NewWebhookService(logs, &fakeEnqueuer{}, zap.NewNop())

	_, _, err := svc.ListLogs(context.Background(), domainRepo.WebhookLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, logs.gotFilter.Limit)

	_, _, err = svc.ListLogs(context.Background(), domainRepo.WebhookLogFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 20, logs.gotFilter.Limit)

	_, _, err = svc.ListLogs(context.Background(), domainRepo.WebhookLogFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, logs.gotFilter.Limit)
}

func TestRetryResetsLogAndReschedules(t *testing.T) {
	logs := &fakeWebhookLogRepo{log: &model.WebhookLog{
		ID:         "evt_abc123",
		MerchantID: "merchant_demo",
		Event:      "payment.success",
		Payload:    model.JSONB{"id": "pay_abc123"},
		Status:     model.WebhookStatusFailed,
		Attempts:   5,
	}}
	enqueuer := &fakeEnqueuer{}

	svc := NewWebhookService(logs, enqueuer, zap.NewNop())
	log, err := svc.Retry(context.Background(), "evt_abc123")

	require.NoError(t, err)
	assert.Equal(t, 1, logs.resetCalls)
	assert.Equal(t, model.WebhookStatusPending, log.Status)
	assert.Equal(t, 0, log.Attempts)
	assert.Nil(t, log.NextRetryAt)

	require.Len(t, enqueuer.calls, 1)
	assert.Equal(t, jobs.TypeDeliverWebhook, enqueuer.calls[0].jobType)
	assert.Zero(t, enqueuer.calls[0].delay)
}

func TestRetryUnknownLog(t *testing.T) {
	svc := NewWebhookService(&fakeWebhookLogRepo{}, &fakeEnqueuer{}, zap.NewNop())
	_, err := svc.Retry(context.Background(), "evt_missing")

	assertErrorCode(t, err, apperrors.ErrNotFound)
}
