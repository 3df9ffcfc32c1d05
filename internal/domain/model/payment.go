package model

import "time"

// PaymentStatus represents the processing state of a payment.
// Transitions are one-way: pending -> success or pending -> failed.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod is the instrument used for a payment.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// Payment is a single settlement attempt against an order. Card numbers are
// never stored; only the masked last four digits and the network survive.
type Payment struct {
	ID         string        `gorm:"primaryKey;size:32" json:"id"`
	OrderID    string        `gorm:"size:32;not null;index" json:"order_id"`
	MerchantID string        `gorm:"size:32;not null;index" json:"merchant_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Currency   string        `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Method     PaymentMethod `gorm:"size:10;not null" json:"method"`

	CardLast4   *string `gorm:"column:card_last4;size:4" json:"card_last4,omitempty"`
	CardNetwork *string `gorm:"size:20" json:"card_network,omitempty"`
	VPA         *string `gorm:"column:vpa;size:255" json:"vpa,omitempty"`

	Status   PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Captured bool          `gorm:"not null;default:false" json:"captured"`

	ErrorCode        *string `gorm:"size:50" json:"error_code,omitempty"`
	ErrorDescription *string `gorm:"size:255" json:"error_description,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Snapshot returns the payment's public fields for webhook payloads.
func (p *Payment) Snapshot() JSONB {
	snap := JSONB{
		"id":          p.ID,
		"order_id":    p.OrderID,
		"merchant_id": p.MerchantID,
		"amount":      p.Amount,
		"currency":    p.Currency,
		"method":      string(p.Method),
		"status":      string(p.Status),
		"captured":    p.Captured,
		"created_at":  p.CreatedAt.Unix(),
	}
	if p.CardLast4 != nil {
		snap["card_last4"] = *p.CardLast4
	}
	if p.CardNetwork != nil {
		snap["card_network"] = *p.CardNetwork
	}
	if p.VPA != nil {
		snap["vpa"] = *p.VPA
	}
	if p.ErrorCode != nil {
		snap["error_code"] = *p.ErrorCode
	}
	if p.ErrorDescription != nil {
		snap["error_description"] = *p.ErrorDescription
	}
	return snap
}
