package gains

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/ledger"
)

// UnrealizedRaw returns the paper gain of the open lots at price, before the
// exemption.
func UnrealizedRaw(l *ledger.Ledger, price decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(price.Mul(lot.Quantity).Sub(lot.Cost))
	}
	return total
}

// Unrealized returns the taxable paper gain of the open lots at price.
func Unrealized(l *ledger.Ledger, price decimal.Decimal, rate Rate) decimal.Decimal {
	return rate.Apply(UnrealizedRaw(l, price))
}

// RealizedRaw returns the sum of realized sale gains, before the exemption.
func RealizedRaw(l *ledger.Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.Sales {
		total = total.Add(s.TaxableGain)
	}
	return total
}

// Realized returns the taxable gain of all realized sales.
func Realized(l *ledger.Ledger, rate Rate) decimal.Decimal {
	return rate.Apply(RealizedRaw(l))
}

// RealizedBetween returns the taxable gain of sales dated in [from, to).
func RealizedBetween(l *ledger.Ledger, rate Rate, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.Sales {
		if s.SaleDate.Before(from) || !s.SaleDate.Before(to) {
			continue
		}
		total = total.Add(s.TaxableGain)
	}
	return rate.Apply(total)
}

// Year returns the [from, to) bounds of a calendar year.
func Year(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
