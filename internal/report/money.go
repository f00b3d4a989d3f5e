package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// quantityPlaces is the precision shares are displayed with.
const quantityPlaces = 4

// Formatter renders amounts in one currency.
type Formatter struct {
	currency *money.Currency
}

// NewFormatter returns a Formatter for an ISO 4217 code.
func NewFormatter(code string) (*Formatter, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return &Formatter{currency: cur}, nil
}

// Money converts an amount to minor units, rounding half away from zero.
func (f *Formatter) Money(amount decimal.Decimal) *money.Money {
	minor := amount.Shift(int32(f.currency.Fraction)).Round(0)
	return money.New(minor.IntPart(), f.currency.Code)
}

// Amount formats amount with the currency symbol, e.g. "€1,234.56".
func (f *Formatter) Amount(amount decimal.Decimal) string {
	return f.Money(amount).Display()
}

// Signed is Amount with an explicit plus sign on gains.
func (f *Formatter) Signed(amount decimal.Decimal) string {
	m := f.Money(amount)
	if m.IsPositive() {
		return "+" + m.Display()
	}
	return m.Display()
}

// Quantity formats a share count.
func Quantity(q decimal.Decimal) string {
	return q.StringFixed(quantityPlaces)
}
