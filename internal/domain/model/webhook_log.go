package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the delivery state of a webhook log.
type WebhookStatus string

const (
	WebhookStatusPending WebhookStatus = "pending"
	WebhookStatusSuccess WebhookStatus = "success"
	WebhookStatusFailed  WebhookStatus = "failed"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// WebhookLog records every outbound notification and each delivery attempt
// against it. Only the delivery engine mutates a log after creation; it is
// terminal at success, or at failed once the attempt ceiling is reached.
type WebhookLog struct {
	ID            string        `gorm:"primaryKey;size:32" json:"id"`
	MerchantID    string        `gorm:"size:32;not null;index" json:"merchant_id"`
	Event         string        `gorm:"size:50;not null;index" json:"event"`
	Payload       JSONB         `gorm:"type:jsonb;not null" json:"payload"`
	Status        WebhookStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts      int           `gorm:"not null;default:0" json:"attempts"`
	LastAttemptAt *time.Time    `json:"last_attempt_at,omitempty"`
	NextRetryAt   *time.Time    `json:"next_retry_at,omitempty"`
	ResponseCode  *int          `json:"response_code,omitempty"`
	ResponseBody  *string       `gorm:"size:1000" json:"response_body,omitempty"`
	CreatedAt     time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WebhookLog) TableName() string {
	return "webhook_logs"
}
