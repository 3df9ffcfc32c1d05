package worker

// Webhook event tags carried in the wire body's event field.
const (
	EventPaymentSuccess  = "payment.success"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"
)

// Fixed error pair written to a payment when simulated settlement declines.
const (
	declineCode        = "PAYMENT_DECLINED"
	declineDescription = "Payment was declined by the issuing bank"
)
