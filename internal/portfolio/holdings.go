package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/gains"
)

// Holding is the valuation of one open position.
type Holding struct {
	Security      string
	Lots          int
	Quantity      decimal.Decimal
	AverageCost   decimal.Decimal
	CostBasis     decimal.Decimal
	Price         decimal.Decimal
	MarketValue   decimal.Decimal
	UnrealizedRaw decimal.Decimal
	Unrealized    decimal.Decimal // after the exemption
	Rate          gains.Rate
}

// Summary totals the whole portfolio.
type Summary struct {
	Holdings      []Holding
	MarketValue   decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedRaw decimal.Decimal
	Unrealized    decimal.Decimal
	RealizedRaw   decimal.Decimal
	Realized      decimal.Decimal
	Income        decimal.Decimal // distributions, outside lot accounting
}

// Holdings values every open position at its configured price. A missing
// price is a *prices.UnknownPriceError.
func (s *Simulator) Holdings() ([]Holding, error) {
	var out []Holding
	for _, name := range s.OpenSecurities() {
		l := s.ledgers[name]
		price, err := s.prices.Price(name)
		if err != nil {
			return nil, err
		}
		rate := s.rates.Rate(name)
		qty := l.OpenQuantity()

		out = append(out, Holding{
			Security:      name,
			Lots:          len(l.Lots),
			Quantity:      qty,
			AverageCost:   l.AverageCost(),
			CostBasis:     l.CostBasis(),
			Price:         price,
			MarketValue:   qty.Mul(price),
			UnrealizedRaw: gains.UnrealizedRaw(l, price),
			Unrealized:    gains.Unrealized(l, price, rate),
			Rate:          rate,
		})
	}
	return out, nil
}

// Summary returns the holdings plus portfolio totals. Realized figures cover
// every sale, including those of closed positions.
func (s *Simulator) Summary() (Summary, error) {
	holdings, err := s.Holdings()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Holdings:      holdings,
		MarketValue:   decimal.Zero,
		CostBasis:     decimal.Zero,
		UnrealizedRaw: decimal.Zero,
		Unrealized:    decimal.Zero,
		RealizedRaw:   decimal.Zero,
		Realized:      decimal.Zero,
	}
	for _, h := range holdings {
		sum.MarketValue = sum.MarketValue.Add(h.MarketValue)
		sum.CostBasis = sum.CostBasis.Add(h.CostBasis)
		sum.UnrealizedRaw = sum.UnrealizedRaw.Add(h.UnrealizedRaw)
		sum.Unrealized = sum.Unrealized.Add(h.Unrealized)
	}
	for _, name := range s.names {
		l := s.ledgers[name]
		sum.RealizedRaw = sum.RealizedRaw.Add(gains.RealizedRaw(l))
		sum.Realized = sum.Realized.Add(gains.Realized(l, s.rates.Rate(name)))
	}
	sum.Income = s.Income(time.Time{}, time.Time{})
	return sum, nil
}
