package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a rupee amount with two decimal places of precision.
type Amount = decimal.Decimal

var paiseFactor = decimal.NewFromInt(100)

// Zero is the additive identity.
func Zero() Amount {
	return decimal.Zero
}

// FromRupees builds an Amount from a float as parsed off the wire.
func FromRupees(value float64) Amount {
	return decimal.NewFromFloat(value)
}

// Line multiplies a unit price by a quantity.
func Line(unitPrice Amount, quantity int64) Amount {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// ToPaise converts an Amount into the integer paise the payment gateway
// expects. Fractional paise are rejected rather than rounded silently.
func ToPaise(amount Amount) (int64, error) {
	paise := amount.Mul(paiseFactor)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("amount %s does not convert to whole paise", amount.String())
	}
	return paise.IntPart(), nil
}

// Rupees renders the amount as a plain decimal string for API payloads.
func Rupees(amount Amount) string {
	return amount.StringFixed(2)
}
