package model

import "time"

// RefundStatus represents the processing state of a refund.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Refund is a partial or full reversal of a successful payment. The sum of
// amounts of refunds in {pending, processed} for a payment must never
// exceed the payment's amount.
type Refund struct {
	ID          string       `gorm:"primaryKey;size:32" json:"id"`
	PaymentID   string       `gorm:"size:32;not null;index" json:"payment_id"`
	MerchantID  string       `gorm:"size:32;not null;index" json:"merchant_id"`
	Amount      int64        `gorm:"not null" json:"amount"`
	Reason      string       `gorm:"size:255" json:"reason,omitempty"`
	Status      RefundStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
	CreatedAt   time.Time    `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Refund) TableName() string {
	return "refunds"
}

// Snapshot returns the refund's public fields for webhook payloads.
func (r *Refund) Snapshot() JSONB {
	snap := JSONB{
		"id":          r.ID,
		"payment_id":  r.PaymentID,
		"merchant_id": r.MerchantID,
		"amount":      r.Amount,
		"reason":      r.Reason,
		"status":      string(r.Status),
		"created_at":  r.CreatedAt.Unix(),
	}
	if r.ProcessedAt != nil {
		snap["processed_at"] = r.ProcessedAt.Unix()
	}
	return snap
}
