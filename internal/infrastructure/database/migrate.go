package database

import (
	"github.com/orbitpay/gateway/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Merchant{},
		&model.Order{},
		&model.Payment{},
		&model.Refund{},
		&model.WebhookLog{},
		&model.IdempotencyKey{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle automatically.
func createCustomIndexes(db *gorm.DB) error {
	// Partial index over due webhook deliveries for the operator listing.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_logs_due ON webhook_logs (created_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	// In-flight refund sums are computed per payment.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_refunds_payment_inflight ON refunds (payment_id) WHERE status IN ('pending', 'processed')`).Error; err != nil {
		return err
	}

	return nil
}
