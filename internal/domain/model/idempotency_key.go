package model

import "time"

// IdempotencyKey caches the response produced for a caller-supplied key so a
// retried request replays the original response instead of re-executing.
// Response holds the exact serialized bytes that were sent, so a replay is
// byte-identical to the original. Scoped per (key, merchant); records expire
// 24 hours after last store.
type IdempotencyKey struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Key        string    `gorm:"size:128;not null;uniqueIndex:idx_idempotency_key_merchant" json:"key"`
	MerchantID string    `gorm:"size:32;not null;uniqueIndex:idx_idempotency_key_merchant" json:"merchant_id"`
	StatusCode int       `gorm:"not null" json:"status_code"`
	Response   string    `gorm:"type:text;not null" json:"response"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
