package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InsufficientLotsError is returned when a sell asks for more shares than the
// open lots hold at that date.
type InsufficientLotsError struct {
	Security  string
	Date      time.Time
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("%s: insufficient lots for %s: sell of %s shares, %s available",
		e.Date.Format("2006-01-02"), e.Security, e.Requested, e.Available)
}
