package database

import (
	adapterRepo "github.com/orbitpay/gateway/internal/adapter/repository"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories bundles all repository implementations.
type Repositories struct {
	Merchant    domainRepo.MerchantRepository
	Order       domainRepo.OrderRepository
	Payment     domainRepo.PaymentRepository
	Refund      domainRepo.RefundRepository
	WebhookLog  domainRepo.WebhookLogRepository
	Idempotency domainRepo.IdempotencyRepository
}

// NewRepositories creates all repositories over one database handle.
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Merchant:    adapterRepo.NewMerchantRepository(db, logger),
		Order:       adapterRepo.NewOrderRepository(db, logger),
		Payment:     adapterRepo.NewPaymentRepository(db, logger),
		Refund:      adapterRepo.NewRefundRepository(db, logger),
		WebhookLog:  adapterRepo.NewWebhookLogRepository(db, logger),
		Idempotency: adapterRepo.NewIdempotencyRepository(db, logger),
	}
}
