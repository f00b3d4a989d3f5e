package solver

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/gains"
	"github.com/cleared-dev/gainplan/internal/ledger"
)

// ErrNegativeTarget is returned for a target gain below zero.
var ErrNegativeTarget = errors.New("target gain must not be negative")

// Slice is the part of one lot the solution sells.
type Slice struct {
	Lot          int // position in the ledger's queue
	PurchaseDate time.Time
	UnitCost     decimal.Decimal
	Quantity     decimal.Decimal
	Cost         decimal.Decimal
	TaxableGain  decimal.Decimal
	Partial      bool // only part of the lot is sold

	lotQuantity decimal.Decimal
	lotCost     decimal.Decimal
}

// Skip is a lot left untouched because selling it gains nothing taxable.
type Skip struct {
	Lot          int
	PurchaseDate time.Time
	UnitCost     decimal.Decimal
	Quantity     decimal.Decimal
	PerShareGain decimal.Decimal // taxable, zero or negative
}

// Result is the exact, unrounded sell quantity for one security.
type Result struct {
	Security string
	Price    decimal.Decimal
	Rate     gains.Rate
	Target   decimal.Decimal
	Quantity decimal.Decimal
	Slices   []Slice
	Skipped  []Skip
}

// TaxableGain returns the taxable gain realized by the slices.
func (r Result) TaxableGain() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Slices {
		total = total.Add(s.TaxableGain)
	}
	return total
}

// CostBasis returns the cost of the shares in the slices.
func (r Result) CostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Slices {
		total = total.Add(s.Cost)
	}
	return total
}

// SkipsAhead reports whether a skipped lot is older than a lot the result
// sells. A broker selling strictly oldest first would consume it.
func (r Result) SkipsAhead() bool {
	if len(r.Skipped) == 0 || len(r.Slices) == 0 {
		return false
	}
	return r.Skipped[0].Lot < r.Slices[len(r.Slices)-1].Lot
}

// Limit returns r cut down to at most qty shares. Slices are dropped from the
// newest end and the last one kept is scaled down to fit.
func (r Result) Limit(qty decimal.Decimal) Result {
	if qty.GreaterThanOrEqual(r.Quantity) {
		return r
	}
	if qty.IsNegative() {
		qty = decimal.Zero
	}

	out := Result{Security: r.Security, Price: r.Price, Rate: r.Rate, Target: r.Target, Quantity: qty, Skipped: r.Skipped}
	remaining := qty
	for _, s := range r.Slices {
		if !remaining.IsPositive() {
			break
		}
		if s.Quantity.GreaterThan(remaining) {
			s.Quantity = remaining
			s.Cost = s.lotCost.Mul(remaining).Div(s.lotQuantity)
			s.TaxableGain = r.Rate.Apply(r.Price.Mul(remaining).Sub(s.Cost))
			s.Partial = true
		}
		out.Slices = append(out.Slices, s)
		remaining = remaining.Sub(s.Quantity)
	}
	return out
}

// Solve returns how many shares of l, taken from the oldest lots with a
// positive taxable gain per share, realize exactly target at price.
//
// Lots whose per-share taxable gain is zero or negative are skipped, and the
// scan continues past them since unit costs are not monotonic. The last lot
// used may be sold partially. When all positive lots together stay under
// target, an UnreachableTargetError is returned.
func Solve(l *ledger.Ledger, price decimal.Decimal, rate gains.Rate, target decimal.Decimal) (Result, error) {
	res := Result{Security: l.Security, Price: price, Rate: rate, Target: target, Quantity: decimal.Zero}
	if target.IsNegative() {
		return res, ErrNegativeTarget
	}
	if target.IsZero() {
		return res, nil
	}

	cumulative := decimal.Zero
	for i, lot := range l.Lots {
		capacity := rate.Apply(price.Mul(lot.Quantity).Sub(lot.Cost))
		if !capacity.IsPositive() {
			res.Skipped = append(res.Skipped, Skip{
				Lot:          i,
				PurchaseDate: lot.PurchaseDate,
				UnitCost:     lot.UnitCost,
				Quantity:     lot.Quantity,
				PerShareGain: rate.Apply(price.Sub(lot.UnitCost)),
			})
			continue
		}

		reached := cumulative.Add(capacity)
		if reached.LessThanOrEqual(target) {
			res.Quantity = res.Quantity.Add(lot.Quantity)
			res.Slices = append(res.Slices, Slice{
				Lot:          i,
				PurchaseDate: lot.PurchaseDate,
				UnitCost:     lot.UnitCost,
				Quantity:     lot.Quantity,
				Cost:         lot.Cost,
				TaxableGain:  capacity,
				lotQuantity:  lot.Quantity,
				lotCost:      lot.Cost,
			})
			cumulative = reached
			if reached.Equal(target) {
				return res, nil
			}
			continue
		}

		needed := target.Sub(cumulative).Mul(lot.Quantity).Div(capacity)
		res.Quantity = res.Quantity.Add(needed)
		res.Slices = append(res.Slices, Slice{
			Lot:          i,
			PurchaseDate: lot.PurchaseDate,
			UnitCost:     lot.UnitCost,
			Quantity:     needed,
			Cost:         lot.CostOf(needed),
			lotQuantity:  lot.Quantity,
			lotCost:      lot.Cost,
			TaxableGain:  target.Sub(cumulative),
			Partial:      true,
		})
		return res, nil
	}

	return res, &UnreachableTargetError{
		Security:   l.Security,
		Target:     target,
		Achievable: cumulative,
		Quantity:   res.Quantity,
	}
}
