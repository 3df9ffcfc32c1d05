// Package jobs defines the payload shapes carried through the job queues.
// Payloads hold entity IDs only; workers reload state from the store.
package jobs

import "github.com/orbitpay/gateway/internal/domain/model"

// Job type tags, one per queue.
const (
	TypeProcessPayment = "process-payment"
	TypeProcessRefund  = "process-refund"
	TypeDeliverWebhook = "deliver-webhook"
)

// PaymentJob asks the payment worker to settle a pending payment.
type PaymentJob struct {
	PaymentID string `json:"paymentId"`
}

// RefundJob asks the refund worker to process a pending refund.
type RefundJob struct {
	RefundID string `json:"refundId"`
}

// WebhookJob asks the delivery engine to notify a merchant. Payload is the
// event data object, not the signed wire body; the engine serializes and
// signs at delivery time.
type WebhookJob struct {
	WebhookLogID string      `json:"webhookLogId"`
	MerchantID   string      `json:"merchantId"`
	Event        string      `json:"event"`
	Payload      model.JSONB `json:"payload"`
}
