package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a ledger event.
type Kind string

const (
	KindBuy        Kind = "buy"
	KindSell       Kind = "sell"
	KindWithdrawal Kind = "withdrawal"
	KindDeposit    Kind = "deposit"
	KindOther      Kind = "other"
)

// ParseKind converts a persisted kind string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBuy, KindSell, KindWithdrawal, KindDeposit, KindOther:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// IsTrade reports whether the kind moves shares of a security.
func (k Kind) IsTrade() bool {
	return k == KindBuy || k == KindSell
}

// Transaction represents one normalized row of transactions.csv.
type Transaction struct {
	Date        time.Time
	Kind        Kind
	Security    string          // empty for cash transactions
	Quantity    decimal.Decimal // zero for cash transactions
	Amount      decimal.Decimal // as exported; buys are usually negative
	Description string          // free text of cash transactions, not persisted
}

// Validate checks the Buy/Sell invariant: trades carry a security and a
// positive quantity.
func (t Transaction) Validate() error {
	if !t.Kind.IsTrade() {
		return nil
	}
	if strings.TrimSpace(t.Security) == "" {
		return fmt.Errorf("%s without security", t.Kind)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%s of %s with non-positive quantity %s", t.Kind, t.Security, t.Quantity)
	}
	return nil
}

// MalformedRecordError reports a transaction that violates the Buy/Sell
// invariant.
type MalformedRecordError struct {
	Index  int // position in the input sequence
	Date   time.Time
	Kind   Kind
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %d (%s, %s): %s", e.Index+1, e.Date.Format("2006-01-02"), e.Kind, e.Reason)
}

// CheckRecord validates tx and wraps any violation in a MalformedRecordError.
func CheckRecord(index int, tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return &MalformedRecordError{Index: index, Date: tx.Date, Kind: tx.Kind, Reason: err.Error()}
	}
	return nil
}
