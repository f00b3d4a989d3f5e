package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/gainplan/internal/model"
	"github.com/cleared-dev/gainplan/internal/txlog"
)

// FormatCSV is the name of the tabular export parser.
const FormatCSV = "csv"

// CSVParser parses files already in the transactions.csv layout, e.g. a
// log exported from another directory or edited in a spreadsheet.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return FormatCSV }

// Parse reads a CSV with the transactions.csv header and returns its rows.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if strings.Join(header, ",") != txlog.Header {
		return nil, fmt.Errorf("unexpected header %q, want %q", strings.Join(records[0], ","), txlog.Header)
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := txlog.UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
