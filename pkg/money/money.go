// Package money formats decimal amounts for display.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const DefaultSymbol = "£"

// Formatter renders amounts with a fixed currency symbol and two decimal places.
type Formatter struct {
	Symbol string
}

func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Format renders -12.5 as "-£12.50".
func (f Formatter) Format(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + f.Symbol + amount.Neg().StringFixed(2)
	}
	return f.Symbol + amount.StringFixed(2)
}

// Parse reads a plain decimal amount as typed by a user ("12", "12.5", "12.50").
func Parse(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Round(amount), nil
}

// Round keeps two decimal places, the precision amounts are stored with.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Value is an amount as sent to clients: the raw decimal and its display form.
type Value struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

func (f Formatter) Value(amount decimal.Decimal) Value {
	return Value{Amount: amount, Formatted: f.Format(amount)}
}
