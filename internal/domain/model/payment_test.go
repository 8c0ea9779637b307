package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStateOrderStatus(t *testing.T) {
	cases := map[PaymentState]OrderStatus{
		PaymentStateAuthorized:  OrderStatusAuthorized,
		PaymentStateCaptured:    OrderStatusPaid,
		PaymentStateCancelled:   OrderStatusCancelled,
		PaymentStateExpired:     OrderStatusCancelled,
		PaymentStateFailed:      OrderStatusFailed,
		PaymentStateCreated:     OrderStatusPending,
		PaymentState("UNKNOWN"): OrderStatusPending,
	}

	for state, expected := range cases {
		assert.Equal(t, expected, state.OrderStatus(), "state %s", state)
	}
}
