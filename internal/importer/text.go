package importer

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/model"
)

// FormatText is the name of the free-text export parser.
const FormatText = "text"

const (
	textDateFormat = "Monday, 2 January 2006"
	shareSuffix    = "Shr."
	rejectedMarker = "Rejected"
	currencySymbol = "€"
)

// textKinds maps the block headers of the export to transaction kinds.
var textKinds = map[string]model.Kind{
	"Deposit":      model.KindDeposit,
	"Withdrawal":   model.KindWithdrawal,
	"Savings Plan": model.KindBuy,
	"Buy":          model.KindBuy,
	"Sell":         model.KindSell,
	"Distribution": model.KindOther,
	"Swap in":      model.KindBuy,
	"Swap out":     model.KindSell,
}

// cashKinds carry a description line instead of an instrument name.
var cashKinds = map[string]bool{
	"Deposit":      true,
	"Withdrawal":   true,
	"Distribution": true,
}

// TextParser parses the copy-pasted transaction history of a neobroker app.
//
// The export is a sequence of lines. A date line ("Friday, 8 November 2024")
// sets the date for what follows, a kind line ("Buy", "Savings Plan", ...)
// opens a block, "N Shr." gives the quantity and "€X" gives the amount and
// closes the record. Any other line inside a block is the instrument name,
// or the description for cash kinds. A block whose first line is "Rejected"
// is dropped.
//
// Exports list the newest entries first. Parse returns records oldest first.
type TextParser struct{}

// Format returns the parser name.
func (p *TextParser) Format() string { return FormatText }

// Parse reads an export and returns Transactions in chronological order.
func (p *TextParser) Parse(r io.Reader) ([]model.Transaction, error) {
	var (
		txs      []model.Transaction
		date     time.Time
		header   string
		cur      model.Transaction
		inBlock  bool
		skipping bool
		lineNo   int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if d, ok := parseTextDate(line); ok {
			date = d
			inBlock, skipping = false, false
			continue
		}

		if kind, ok := textKinds[line]; ok {
			if date.IsZero() {
				return nil, fmt.Errorf("line %d: %s before the first date line", lineNo, line)
			}
			header = line
			cur = model.Transaction{Date: date, Kind: kind}
			inBlock, skipping = true, false
			continue
		}

		if !inBlock || skipping {
			continue
		}

		switch {
		case line == rejectedMarker && cur.Security == "" && cur.Description == "" && cur.Quantity.IsZero():
			skipping = true

		case strings.HasSuffix(line, shareSuffix):
			qty, err := parseTextNumber(strings.TrimSuffix(line, shareSuffix))
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing quantity %q: %w", lineNo, line, err)
			}
			cur.Quantity = qty

		case isAmountLine(line):
			amount, err := parseTextAmount(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing amount %q: %w", lineNo, line, err)
			}
			cur.Amount = amount
			txs = append(txs, cur)
			cur = model.Transaction{Date: date, Kind: cur.Kind}

		case cashKinds[header]:
			cur.Description = line

		default:
			cur.Security = line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	slices.Reverse(txs)
	return txs, nil
}

func parseTextDate(line string) (time.Time, bool) {
	d, err := time.Parse(textDateFormat, line)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func isAmountLine(line string) bool {
	line = strings.TrimLeft(line, "+-")
	return strings.HasPrefix(line, currencySymbol)
}

// parseTextAmount parses "€1,234.56", "-€10.00" or "+€10.00".
func parseTextAmount(line string) (decimal.Decimal, error) {
	sign := ""
	switch {
	case strings.HasPrefix(line, "-"):
		sign = "-"
		line = line[1:]
	case strings.HasPrefix(line, "+"):
		line = line[1:]
	}
	line = strings.TrimPrefix(line, currencySymbol)
	return parseTextNumber(sign + line)
}

// parseTextNumber parses a number with optional thousands separators.
func parseTextNumber(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(s)
}
