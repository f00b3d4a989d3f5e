package gains

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is the fraction of a gain exempt from tax (Teilfreistellung). The zero
// value exempts nothing.
type Rate struct {
	v decimal.Decimal
}

var one = decimal.NewFromInt(1)

// NewRate returns a Rate for d, which must lie in [0, 1].
func NewRate(d decimal.Decimal) (Rate, error) {
	if d.IsNegative() || d.GreaterThan(one) {
		return Rate{}, fmt.Errorf("exemption rate %s outside [0, 1]", d)
	}
	return Rate{v: d}, nil
}

// Taxable returns the taxable fraction, 1 - rate.
func (r Rate) Taxable() decimal.Decimal {
	return one.Sub(r.v)
}

// Apply returns the taxable part of gain. Losses stay negative.
func (r Rate) Apply(gain decimal.Decimal) decimal.Decimal {
	return gain.Mul(r.Taxable())
}

func (r Rate) String() string {
	return r.v.Mul(decimal.NewFromInt(100)).String() + "%"
}
