package txlog

import (
	"strings"

	"github.com/cleared-dev/gainplan/internal/model"
)

// NewRecords returns the records of incoming that known does not already
// hold, and how many were dropped. Records match on date, kind, security,
// quantity and amount, counted with multiplicity: two identical purchases in
// incoming against one in known keep one.
func NewRecords(known, incoming []model.Transaction) ([]model.Transaction, int) {
	seen := make(map[string]int, len(known))
	for _, tx := range known {
		seen[recordKey(tx)]++
	}

	var fresh []model.Transaction
	dropped := 0
	for _, tx := range incoming {
		k := recordKey(tx)
		if seen[k] > 0 {
			seen[k]--
			dropped++
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh, dropped
}

func recordKey(tx model.Transaction) string {
	return strings.Join([]string{
		tx.Date.Format(dateFormat),
		string(tx.Kind),
		tx.Security,
		tx.Quantity.String(),
		tx.Amount.String(),
	}, "|")
}
