package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// idempotencyTTL is how long a cached response replays before the key is
// considered fresh again.
const idempotencyTTL = 24 * time.Hour

// CachedResponse is a previously produced API response. Body is the exact
// bytes of the original response, replayed verbatim.
type CachedResponse struct {
	StatusCode int
	Body       []byte
}

// IdempotencyService is the response cache behind the Idempotency-Key
// header on the payment-creation path.
type IdempotencyService struct {
	repo   domainRepo.IdempotencyRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewIdempotencyService creates a new idempotency service instance
func NewIdempotencyService(repo domainRepo.IdempotencyRepository, logger *zap.Logger) *IdempotencyService {
	return &IdempotencyService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Check returns the cached response for (key, merchant), or nil on a miss.
// Expired records are purged lazily and treated as a miss. Lookup errors
// also read as a miss: the caller proceeds without dedup rather than
// failing the request.
func (s *IdempotencyService) Check(ctx context.Context, key, merchantID string) *CachedResponse {
	record, err := s.repo.Get(ctx, key, merchantID)
	if err != nil {
		s.logger.Warn("idempotency lookup failed, proceeding without cache",
			zap.String("merchant_id", merchantID),
			zap.Error(err))
		return nil
	}
	if record == nil {
		return nil
	}

	if !s.now().Before(record.ExpiresAt) {
		if err := s.repo.Delete(ctx, key, merchantID); err != nil {
			s.logger.Warn("failed to purge expired idempotency record",
				zap.String("merchant_id", merchantID),
				zap.Error(err))
		}
		return nil
	}

	return &CachedResponse{
		StatusCode: record.StatusCode,
		Body:       []byte(record.Response),
	}
}

// Store caches the serialized response bytes under (key, merchant),
// resetting the 24h expiry. Storage errors are logged and swallowed; a
// failed store only costs dedup on a future retry.
func (s *IdempotencyService) Store(ctx context.Context, key, merchantID string, statusCode int, body []byte) {
	record := &model.IdempotencyKey{
		Key:        key,
		MerchantID: merchantID,
		StatusCode: statusCode,
		Response:   string(body),
		ExpiresAt:  s.now().Add(idempotencyTTL),
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		s.logger.Warn("failed to store idempotency record",
			zap.String("merchant_id", merchantID),
			zap.Error(err))
	}
}
