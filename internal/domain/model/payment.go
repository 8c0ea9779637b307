package model

// PaymentSession is the gateway-side checkout session created for an order.
type PaymentSession struct {
	Reference   string
	RedirectURL string
}

// PaymentState mirrors the gateway's view of a payment.
type PaymentState string

const (
	PaymentStateCreated    PaymentState = "CREATED"
	PaymentStateAuthorized PaymentState = "AUTHORIZED"
	PaymentStateCaptured   PaymentState = "CAPTURED"
	PaymentStateCancelled  PaymentState = "CANCELLED"
	PaymentStateExpired    PaymentState = "EXPIRED"
	PaymentStateFailed     PaymentState = "FAILED"
)

// OrderStatus maps a gateway payment state onto the order lifecycle.
// Unknown states keep the order pending for a later reconciliation pass.
func (s PaymentState) OrderStatus() OrderStatus {
	switch s {
	case PaymentStateAuthorized:
		return OrderStatusAuthorized
	case PaymentStateCaptured:
		return OrderStatusPaid
	case PaymentStateCancelled, PaymentStateExpired:
		return OrderStatusCancelled
	case PaymentStateFailed:
		return OrderStatusFailed
	default:
		return OrderStatusPending
	}
}
