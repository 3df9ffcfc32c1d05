package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdempotencyCheckMissOnUnknownKey(t *testing.T) {
	svc := NewIdempotencyService(&fakeIdempotencyRepo{}, zap.NewNop())

	assert.Nil(t, svc.Check(context.Background(), "key-1", "merchant_demo"))
}

func TestIdempotencyCheckReplaysCachedResponse(t *testing.T) {
	// Field order is deliberately non-alphabetical; the cached bytes must
	// come back exactly as stored.
	stored := `{"id":"pay_abc123","status":"pending","amount":5000}`
	repo := &fakeIdempotencyRepo{record: &model.IdempotencyKey{
		Key:        "key-1",
		MerchantID: "merchant_demo",
		StatusCode: 201,
		Response:   stored,
		ExpiresAt:  time.Now().Add(time.Hour),
	}}

	svc := NewIdempotencyService(repo, zap.NewNop())
	cached := svc.Check(context.Background(), "key-1", "merchant_demo")

	require.NotNil(t, cached)
	assert.Equal(t, 201, cached.StatusCode)
	assert.Equal(t, []byte(stored), cached.Body)
}

func TestIdempotencyCheckScopedToMerchant(t *testing.T) {
	repo := &fakeIdempotencyRepo{record: &model.IdempotencyKey{
		Key:        "key-1",
		MerchantID: "merchant_demo",
		StatusCode: 201,
		ExpiresAt:  time.Now().Add(time.Hour),
	}}

	svc := NewIdempotencyService(repo, zap.NewNop())

	assert.Nil(t, svc.Check(context.Background(), "key-1", "merchant_other"))
}

func TestIdempotencyCheckPurgesExpiredRecord(t *testing.T) {
	repo := &fakeIdempotencyRepo{record: &model.IdempotencyKey{
		Key:        "key-1",
		MerchantID: "merchant_demo",
		StatusCode: 201,
		ExpiresAt:  time.Now().Add(-time.Minute),
	}}

	svc := NewIdempotencyService(repo, zap.NewNop())
	cached := svc.Check(context.Background(), "key-1", "merchant_demo")

	assert.Nil(t, cached)
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestIdempotencyCheckTreatsLookupErrorAsMiss(t *testing.T) {
	repo := &fakeIdempotencyRepo{getErr: assert.AnError}

	svc := NewIdempotencyService(repo, zap.NewNop())

	assert.Nil(t, svc.Check(context.Background(), "key-1", "merchant_demo"))
}

func TestIdempotencyStoreSetsExpiry(t *testing.T) {
	repo := &fakeIdempotencyRepo{}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	svc := NewIdempotencyService(repo, zap.NewNop())
	svc.now = func() time.Time { return now }

	svc.Store(context.Background(), "key-1", "merchant_demo", 201, []byte(`{"id":"pay_abc123"}`))

	require.Len(t, repo.upserted, 1)
	record := repo.upserted[0]
	assert.Equal(t, "key-1", record.Key)
	assert.Equal(t, "merchant_demo", record.MerchantID)
	assert.Equal(t, 201, record.StatusCode)
	assert.Equal(t, `{"id":"pay_abc123"}`, record.Response)
	assert.Equal(t, now.Add(24*time.Hour), record.ExpiresAt)
}
