package txlog

import (
	"github.com/cleared-dev/gainplan/internal/model"
)

// ValidateTransactions checks every record and returns all violations, in
// input order. ledger.Build stops at the first one; this is for reporting.
func ValidateTransactions(txs []model.Transaction) []*model.MalformedRecordError {
	var errs []*model.MalformedRecordError

	for i, tx := range txs {
		if tx.Date.IsZero() {
			errs = append(errs, &model.MalformedRecordError{
				Index:  i,
				Kind:   tx.Kind,
				Reason: "missing date",
			})
			continue
		}
		if err := tx.Validate(); err != nil {
			errs = append(errs, &model.MalformedRecordError{
				Index:  i,
				Date:   tx.Date,
				Kind:   tx.Kind,
				Reason: err.Error(),
			})
		}
	}

	return errs
}
