package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a batch of shares acquired in one purchase.
type Lot struct {
	Security     string
	PurchaseDate time.Time
	Quantity     decimal.Decimal // remaining, reduced by FIFO consumption
	UnitCost     decimal.Decimal // fixed at creation
	Cost         decimal.Decimal // of the remaining shares
}

// CostBasis returns the cost of the remaining shares.
func (l Lot) CostBasis() decimal.Decimal {
	return l.Cost
}

// CostOf returns the cost of qty of the remaining shares. Taking the whole
// lot returns Cost unchanged.
func (l Lot) CostOf(qty decimal.Decimal) decimal.Decimal {
	if qty.Equal(l.Quantity) {
		return l.Cost
	}
	return l.Cost.Mul(qty).Div(l.Quantity)
}

// RealizedSale records one sell matched against open lots.
type RealizedSale struct {
	Security          string
	SaleDate          time.Time
	Quantity          decimal.Decimal
	ProceedsPerShare  decimal.Decimal
	CostBasisPerShare decimal.Decimal // weighted over the consumed lots
	TotalProceeds     decimal.Decimal
	TotalCost         decimal.Decimal
	TaxableGain       decimal.Decimal // proceeds - cost, before the exemption
}

// Proceeds returns the total sale proceeds.
func (s RealizedSale) Proceeds() decimal.Decimal {
	return s.TotalProceeds
}

// CostBasis returns the total cost of the shares sold.
func (s RealizedSale) CostBasis() decimal.Decimal {
	return s.TotalCost
}
