package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus enumerates lifecycle states for receipts.
type ReceiptStatus string

const (
	ReceiptStatusPending ReceiptStatus = "pending"
	ReceiptStatusPaid    ReceiptStatus = "paid"
)

// BillingMonthLayout formats the default billing month label.
const BillingMonthLayout = "2006-01"

// DateLayout formats due and paid dates.
const DateLayout = "2006-01-02"

// Receipt is a bill issued to a customer. Total is fixed at generation.
type Receipt struct {
	ID            string
	UserID        string
	BillingMonth  string
	Consumption   float64
	Rate          float64
	Total         float64
	Status        ReceiptStatus
	DueDate       time.Time
	PaidDate      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CustomerName  string
	CustomerEmail string
}

// Payable reports whether the receipt can still transition to paid.
func (r *Receipt) Payable() bool {
	return r.Status == ReceiptStatusPending
}

// Amounts are stored as NUMERIC with two decimals. Usage figures, consumption
// and rate must stay below MaxAmount and receipt totals below MaxTotal.
const (
	AmountScale = 2
	MaxAmount   = 1e12
	MaxTotal    = 1e14
)

// RoundAmount rounds half away from zero to AmountScale decimals, the same
// way the database rounds values written to the amount columns.
func RoundAmount(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(AmountScale).Float64()
	return rounded
}

// ReceiptTotal computes the amount owed for a consumption at a rate, rounded
// to cents after multiplying the exact operands.
func ReceiptTotal(consumption, rate float64) float64 {
	total, _ := decimal.NewFromFloat(consumption).
		Mul(decimal.NewFromFloat(rate)).
		Round(AmountScale).
		Float64()
	return total
}
