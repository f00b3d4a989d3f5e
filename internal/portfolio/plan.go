package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/gains"
	"github.com/cleared-dev/gainplan/internal/ledger"
	"github.com/cleared-dev/gainplan/internal/solver"
)

// Plan is the sell recommendation for one security.
//
// Quantity and the money fields describe the lots the solver picked. When
// Err is set they describe the best the security can do: every lot with a
// positive gain sold.
type Plan struct {
	Security    string
	Price       decimal.Decimal
	Rate        gains.Rate
	Result      solver.Result
	Quantity    decimal.Decimal
	Proceeds    decimal.Decimal
	CostBasis   decimal.Decimal
	Gain        decimal.Decimal // proceeds - cost basis
	TaxableGain decimal.Decimal

	// FIFOTaxableGain is what selling Quantity shares realizes when the
	// broker consumes lots strictly oldest first. It is lower than
	// TaxableGain when loss lots precede the picked ones.
	FIFOTaxableGain decimal.Decimal

	Err error // *solver.UnreachableTargetError
}

// Diverges reports whether a plain FIFO sale of Quantity shares would
// consume a skipped loss lot and so realize a different taxable gain.
func (p Plan) Diverges() bool {
	return p.Err == nil && p.Result.SkipsAhead()
}

// Plan solves target independently for each of securities, or for every
// open security when none are given. Solver failures of one security are
// reported in its Plan.Err. A negative target or a missing price aborts.
func (s *Simulator) Plan(target decimal.Decimal, securities []string) ([]Plan, error) {
	if target.IsNegative() {
		return nil, solver.ErrNegativeTarget
	}
	if len(securities) == 0 {
		securities = s.OpenSecurities()
	}

	plans := make([]Plan, 0, len(securities))
	for _, name := range securities {
		p, err := s.plan(name, target)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (s *Simulator) plan(name string, target decimal.Decimal) (Plan, error) {
	price, err := s.prices.Price(name)
	if err != nil {
		return Plan{}, err
	}

	l, ok := s.ledgers[name]
	if !ok {
		l = ledger.New(name)
	}
	rate := s.rates.Rate(name)

	res, solveErr := solver.Solve(l, price, rate, target)
	p, err := s.describe(l, price, rate, res, solveErr)
	if err != nil {
		return Plan{}, err
	}

	s.logger.Debug("solved",
		"security", name,
		"target", target.String(),
		"quantity", res.Quantity.String(),
		"skipped_lots", len(res.Skipped),
		"reachable", solveErr == nil)
	return p, nil
}

// WholeShares rounds each plan down to whole shares. The sale stays within
// the target and the money figures are recomputed for the rounded quantity.
func (s *Simulator) WholeShares(plans []Plan) ([]Plan, error) {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		l, ok := s.ledgers[p.Security]
		if !ok {
			l = ledger.New(p.Security)
		}
		qty := decimal.Min(p.Quantity.Floor(), l.OpenQuantity())
		rounded, err := s.describe(l, p.Price, p.Rate, p.Result.Limit(qty), p.Err)
		if err != nil {
			return nil, err
		}
		out = append(out, rounded)
	}
	return out, nil
}

func (s *Simulator) describe(l *ledger.Ledger, price decimal.Decimal, rate gains.Rate, res solver.Result, solveErr error) (Plan, error) {
	p := Plan{
		Security:    l.Security,
		Price:       price,
		Rate:        rate,
		Result:      res,
		Quantity:    res.Quantity,
		Proceeds:    res.Quantity.Mul(price),
		CostBasis:   res.CostBasis(),
		TaxableGain: res.TaxableGain(),
		Err:         solveErr,
	}
	p.Gain = p.Proceeds.Sub(p.CostBasis)
	p.FIFOTaxableGain = p.TaxableGain

	if p.Diverges() {
		sale, err := l.Clone().Sell(s.asOf, res.Quantity, p.Proceeds)
		if err != nil {
			return Plan{}, err
		}
		p.FIFOTaxableGain = rate.Apply(sale.TaxableGain)
	}
	return p, nil
}
