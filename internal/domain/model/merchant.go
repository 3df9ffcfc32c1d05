package model

import "time"

// Merchant is an onboarded merchant account. WebhookURL may be empty, in
// which case outbound notifications for the merchant are skipped.
type Merchant struct {
	ID            string    `gorm:"primaryKey;size:32" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	APIKey        string    `gorm:"column:api_key;unique;size:64;not null" json:"-"`
	WebhookURL    string    `gorm:"column:webhook_url;size:500" json:"webhook_url,omitempty"`
	WebhookSecret string    `gorm:"column:webhook_secret;size:128" json:"-"`
	CreatedAt     time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Merchant) TableName() string {
	return "merchants"
}
