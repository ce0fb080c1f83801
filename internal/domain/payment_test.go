package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{"pending to success", PaymentStatusPending, PaymentStatusSuccess, true},
		{"pending to failed", PaymentStatusPending, PaymentStatusFailed, true},
		{"success to refunded", PaymentStatusSuccess, PaymentStatusRefunded, true},
		{"pending to refunded", PaymentStatusPending, PaymentStatusRefunded, false},
		{"success to pending", PaymentStatusSuccess, PaymentStatusPending, false},
		{"failed to pending", PaymentStatusFailed, PaymentStatusPending, false},
		{"failed to success", PaymentStatusFailed, PaymentStatusSuccess, false},
		{"refunded to success", PaymentStatusRefunded, PaymentStatusSuccess, false},
		{"refunded to pending", PaymentStatusRefunded, PaymentStatusPending, false},
		{"success to success", PaymentStatusSuccess, PaymentStatusSuccess, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestPayerType(t *testing.T) {
	assert.True(t, PayerTypeTeam.IsRegistration())
	assert.True(t, PayerTypePlayer.IsRegistration())
	assert.False(t, PayerTypeOrganizer.IsRegistration())

	assert.True(t, PayerTypeOrganizer.IsValid())
	assert.False(t, PayerType("sponsor").IsValid())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{50000, "500.00"},
		{123456789, "1234567.89"},
		{-2000, "-20.00"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatAmount(tc.amount))
	}
}
