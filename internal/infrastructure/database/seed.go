package database

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// SeedMerchants inserts a development merchant when the table is empty so
// the API is usable out of the box. Production onboarding happens through
// the dashboard, outside this service.
func SeedMerchants(ctx context.Context, merchants domainRepo.MerchantRepository, logger *zap.Logger) error {
	count, err := merchants.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	merchant := &model.Merchant{
		ID:            "merchant_demo",
		Name:          "Demo Merchant",
		Email:         "demo@example.com",
		APIKey:        model.NewID("key"),
		WebhookURL:    "",
		WebhookSecret: model.NewID("whsec"),
	}

	if err := merchants.Create(ctx, merchant); err != nil {
		return err
	}

	logger.Info("Seeded development merchant",
		zap.String("merchant_id", merchant.ID))
	return nil
}
