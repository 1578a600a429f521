package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundAmountMatchesNumericColumns(t *testing.T) {
	assert.Equal(t, 12.35, RoundAmount(12.345))
	assert.Equal(t, 1.01, RoundAmount(1.005))
	assert.Equal(t, -2.5, RoundAmount(-2.495))
	assert.Equal(t, 7.0, RoundAmount(7))
}

func TestReceiptTotal(t *testing.T) {
	assert.Equal(t, 527250.0, ReceiptTotal(185, 2850))
	assert.Equal(t, 0.3, ReceiptTotal(0.1, 3))
	assert.Equal(t, 24.7, ReceiptTotal(12.35, 2))
}

func TestReceiptPayable(t *testing.T) {
	assert.True(t, (&Receipt{Status: ReceiptStatusPending}).Payable())
	assert.False(t, (&Receipt{Status: ReceiptStatusPaid}).Payable())
}
