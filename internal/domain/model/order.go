package model

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
)

// Order is a merchant's intent to collect a payment. Amount is a positive
// integer in the smallest currency unit (paise for INR).
type Order struct {
	ID         string      `gorm:"primaryKey;size:32" json:"id"`
	MerchantID string      `gorm:"size:32;not null;index" json:"merchant_id"`
	Amount     int64       `gorm:"not null" json:"amount"`
	Currency   string      `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Receipt    string      `gorm:"size:255" json:"receipt,omitempty"`
	Status     OrderStatus `gorm:"size:20;not null;default:'created'" json:"status"`
	Notes      JSONB       `gorm:"type:jsonb" json:"notes,omitempty"`
	CreatedAt  time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}
