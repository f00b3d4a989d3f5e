package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/model"
)

// Ledger is the FIFO lot queue and realized-sale history of one security.
// Lots[0] is always the oldest open lot.
type Ledger struct {
	Security string
	Lots     []*model.Lot
	Sales    []model.RealizedSale
}

// Slice is the part of one lot taken by a FIFO consumption.
type Slice struct {
	PurchaseDate time.Time
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Cost         decimal.Decimal
}

// New creates an empty ledger for security.
func New(security string) *Ledger {
	return &Ledger{Security: security}
}

// Buy appends a lot of quantity shares bought for cost in total.
func (l *Ledger) Buy(date time.Time, quantity, cost decimal.Decimal) {
	cost = cost.Abs()
	l.Lots = append(l.Lots, &model.Lot{
		Security:     l.Security,
		PurchaseDate: date,
		Quantity:     quantity,
		UnitCost:     cost.Div(quantity),
		Cost:         cost,
	})
}

// Sell consumes quantity shares from the oldest lots and records the sale.
// proceeds is the total amount received.
func (l *Ledger) Sell(date time.Time, quantity, proceeds decimal.Decimal) (model.RealizedSale, error) {
	slices, err := l.consume(date, quantity)
	if err != nil {
		return model.RealizedSale{}, err
	}

	cost := decimal.Zero
	for _, s := range slices {
		cost = cost.Add(s.Cost)
	}
	proceeds = proceeds.Abs()

	sale := model.RealizedSale{
		Security:          l.Security,
		SaleDate:          date,
		Quantity:          quantity,
		ProceedsPerShare:  proceeds.Div(quantity),
		CostBasisPerShare: cost.Div(quantity),
		TotalProceeds:     proceeds,
		TotalCost:         cost,
		TaxableGain:       proceeds.Sub(cost),
	}
	l.Sales = append(l.Sales, sale)
	return sale, nil
}

// consume removes quantity shares from the front of the queue. Nothing is
// touched when the open quantity is too small.
func (l *Ledger) consume(date time.Time, quantity decimal.Decimal) ([]Slice, error) {
	if available := l.OpenQuantity(); quantity.GreaterThan(available) {
		return nil, &InsufficientLotsError{
			Security:  l.Security,
			Date:      date,
			Requested: quantity,
			Available: available,
		}
	}

	var slices []Slice
	remaining := quantity
	for remaining.IsPositive() {
		front := l.Lots[0]
		take := decimal.Min(front.Quantity, remaining)
		cost := front.CostOf(take)
		slices = append(slices, Slice{
			PurchaseDate: front.PurchaseDate,
			Quantity:     take,
			UnitCost:     front.UnitCost,
			Cost:         cost,
		})

		front.Quantity = front.Quantity.Sub(take)
		front.Cost = front.Cost.Sub(cost)
		if front.Quantity.IsZero() {
			l.Lots[0] = nil
			l.Lots = l.Lots[1:]
		}
		remaining = remaining.Sub(take)
	}
	return slices, nil
}

// OpenQuantity returns the number of shares still held.
func (l *Ledger) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// RealizedQuantity returns the number of shares sold since the ledger start.
func (l *Ledger) RealizedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.Sales {
		total = total.Add(s.Quantity)
	}
	return total
}

// CostBasis returns the cost of all open shares.
func (l *Ledger) CostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.CostBasis())
	}
	return total
}

// AverageCost returns the quantity-weighted unit cost of the open lots, or
// zero when nothing is held.
func (l *Ledger) AverageCost() decimal.Decimal {
	qty := l.OpenQuantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis().Div(qty)
}

// IsOpen reports whether any shares are held.
func (l *Ledger) IsOpen() bool {
	return len(l.Lots) > 0
}

// Clone returns a deep copy whose lots can be consumed without affecting l.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Security: l.Security,
		Lots:     make([]*model.Lot, len(l.Lots)),
		Sales:    append([]model.RealizedSale(nil), l.Sales...),
	}
	for i, lot := range l.Lots {
		cp := *lot
		c.Lots[i] = &cp
	}
	return c
}
