package ledger

import (
	"slices"
	"sort"

	"github.com/cleared-dev/gainplan/internal/model"
)

// Build replays txs in date order and returns one ledger per security.
//
// The input is stable-sorted by date on a copy, so records of the same day
// keep their original order. Cash transactions are ignored. A malformed trade
// or a sell larger than the open quantity aborts the build.
func Build(txs []model.Transaction) (map[string]*Ledger, error) {
	for i, tx := range txs {
		if err := model.CheckRecord(i, tx); err != nil {
			return nil, err
		}
	}

	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	ledgers := make(map[string]*Ledger)
	for _, tx := range ordered {
		if !tx.Kind.IsTrade() {
			continue
		}

		l, ok := ledgers[tx.Security]
		if !ok {
			l = New(tx.Security)
			ledgers[tx.Security] = l
		}

		switch tx.Kind {
		case model.KindBuy:
			l.Buy(tx.Date, tx.Quantity, tx.Amount)
		case model.KindSell:
			if _, err := l.Sell(tx.Date, tx.Quantity, tx.Amount); err != nil {
				return nil, err
			}
		}
	}
	return ledgers, nil
}

// Securities returns the ledger keys in sorted order.
func Securities(ledgers map[string]*Ledger) []string {
	names := make([]string, 0, len(ledgers))
	for name := range ledgers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
