package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-gateway-secret"

func TestSignatureMatches(t *testing.T) {
	tests := []struct {
		name      string
		orderID   string
		paymentID string
		supplied  string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			supplied:  Signature("order_1", "pay_1", testSecret),
			want:      true,
		},
		{
			name:      "wrong payment id",
			orderID:   "order_1",
			paymentID: "pay_2",
			supplied:  Signature("order_1", "pay_1", testSecret),
			want:      false,
		},
		{
			name:      "wrong order id",
			orderID:   "order_2",
			paymentID: "pay_1",
			supplied:  Signature("order_1", "pay_1", testSecret),
			want:      false,
		},
		{
			name:      "wrong secret",
			orderID:   "order_1",
			paymentID: "pay_1",
			supplied:  Signature("order_1", "pay_1", "other-secret"),
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			supplied:  "",
			want:      false,
		},
		{
			name:      "garbage signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			supplied:  "deadbeef",
			want:      false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, signatureMatches(tc.orderID, tc.paymentID, testSecret, tc.supplied))
		})
	}
}

func TestSignatureConcatenationOrder(t *testing.T) {
	// The pipe-joined concatenation is order-sensitive: swapping the ids
	// must never produce the same signature.
	assert.NotEqual(t,
		Signature("a", "b", testSecret),
		Signature("b", "a", testSecret),
	)
}
