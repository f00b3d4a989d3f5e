package txlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "date,kind,security,quantity,amount"

const (
	numFields   = 5
	dateFormat  = "2006-01-02"
	colDate     = 0
	colKind     = 1
	colSecurity = 2
	colQuantity = 3
	colAmount   = 4
)

// ReadTransactions reads all records from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes records to a transactions.csv writer (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends records to an existing transactions.csv writer (no header).
func AppendTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date.Format(dateFormat)
	row[colKind] = string(tx.Kind)
	row[colSecurity] = tx.Security

	if !tx.Quantity.IsZero() {
		row[colQuantity] = tx.Quantity.String()
	}
	row[colAmount] = tx.Amount.StringFixed(max(2, -tx.Amount.Exponent()))

	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	kind, err := model.ParseKind(record[colKind])
	if err != nil {
		return model.Transaction{}, err
	}

	var quantity, amount decimal.Decimal

	if record[colQuantity] != "" {
		quantity, err = decimal.NewFromString(record[colQuantity])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing quantity %q: %w", record[colQuantity], err)
		}
	}

	if record[colAmount] != "" {
		amount, err = decimal.NewFromString(record[colAmount])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
		}
	}

	return model.Transaction{
		Date:     date,
		Kind:     kind,
		Security: record[colSecurity],
		Quantity: quantity,
		Amount:   amount,
	}, nil
}
