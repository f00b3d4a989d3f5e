package portfolio

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/gains"
	"github.com/cleared-dev/gainplan/internal/ledger"
	"github.com/cleared-dev/gainplan/internal/model"
)

// PriceSource returns the current unit price of a security.
type PriceSource interface {
	Price(security string) (decimal.Decimal, error)
}

// RateSource returns the exemption rate of a security.
type RateSource interface {
	Rate(security string) gains.Rate
}

// Simulator answers holdings and sell-planning questions over the ledgers
// built from one transaction history.
type Simulator struct {
	ledgers map[string]*ledger.Ledger
	names   []string
	income  []model.Transaction
	prices  PriceSource
	rates   RateSource
	logger  *slog.Logger
	asOf    time.Time
}

// New replays txs into ledgers. It fails on a malformed record or an
// oversell, like ledger.Build. A nil logger discards output.
func New(txs []model.Transaction, prices PriceSource, rates RateSource, logger *slog.Logger) (*Simulator, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ledgers, err := ledger.Build(txs)
	if err != nil {
		return nil, fmt.Errorf("building ledgers: %w", err)
	}

	s := &Simulator{
		ledgers: ledgers,
		names:   ledger.Securities(ledgers),
		prices:  prices,
		rates:   rates,
		logger:  logger,
		asOf:    time.Now().UTC(),
	}
	for _, tx := range txs {
		if tx.Kind == model.KindOther && tx.Amount.IsPositive() {
			s.income = append(s.income, tx)
		}
	}

	logger.Debug("built ledgers",
		"transactions", len(txs),
		"securities", len(s.names),
		"distributions", len(s.income))
	return s, nil
}

// SetAsOf sets the date used for simulated sells. It defaults to now.
func (s *Simulator) SetAsOf(t time.Time) {
	s.asOf = t
}

// Securities returns every security with a ledger, open or closed, sorted.
func (s *Simulator) Securities() []string {
	return s.names
}

// OpenSecurities returns the securities still held, sorted.
func (s *Simulator) OpenSecurities() []string {
	var open []string
	for _, name := range s.names {
		if s.ledgers[name].IsOpen() {
			open = append(open, name)
		}
	}
	return open
}

// Ledger returns the ledger of security.
func (s *Simulator) Ledger(security string) (*ledger.Ledger, bool) {
	l, ok := s.ledgers[security]
	return l, ok
}

// Rate returns the exemption rate applied to security.
func (s *Simulator) Rate(security string) gains.Rate {
	return s.rates.Rate(security)
}

// Income returns the total of distributions paid in [from, to). A zero
// from or to leaves that side open.
func (s *Simulator) Income(from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.income {
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !tx.Date.Before(to) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// RealizedIn returns the taxable gain realized in calendar year across all
// securities.
func (s *Simulator) RealizedIn(year int) decimal.Decimal {
	from, to := gains.Year(year)
	total := decimal.Zero
	for _, name := range s.names {
		total = total.Add(gains.RealizedBetween(s.ledgers[name], s.rates.Rate(name), from, to))
	}
	return total
}

// AllowanceLeft returns how much of the yearly allowance is still unused
// after the taxable gains realized and the distributions received in year.
// Distributions count in full since their fund is not recorded. Realized
// losses raise the result. It never goes below zero.
func (s *Simulator) AllowanceLeft(year int, allowance decimal.Decimal) decimal.Decimal {
	from, to := gains.Year(year)
	used := s.RealizedIn(year).Add(s.Income(from, to))
	left := allowance.Sub(used)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}
