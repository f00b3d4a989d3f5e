package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/ledger"
)

// LotsHeader is the header of the CSV lot export.
const LotsHeader = "security,record,date,quantity,unit_cost,proceeds_per_share,gain"

// Export formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// LotRecord is one open lot in the JSON export.
type LotRecord struct {
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"shares"`
	UnitCost decimal.Decimal `json:"cost_per_share"`
}

// SaleRecord is one realized sale in the JSON export.
type SaleRecord struct {
	Date             string          `json:"date"`
	Quantity         decimal.Decimal `json:"shares"`
	ProceedsPerShare decimal.Decimal `json:"proceeds_per_share"`
	CostPerShare     decimal.Decimal `json:"cost_per_share"`
	Gain             decimal.Decimal `json:"gain"`
}

// Position is the JSON export of one ledger.
type Position struct {
	Lots        []LotRecord     `json:"lots"`
	TotalShares decimal.Decimal `json:"total_shares"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Sales       []SaleRecord    `json:"sales,omitempty"`
}

// NewPosition converts a ledger to its export form.
func NewPosition(l *ledger.Ledger) Position {
	p := Position{
		Lots:        make([]LotRecord, 0, len(l.Lots)),
		TotalShares: l.OpenQuantity(),
		TotalCost:   l.CostBasis(),
	}
	for _, lot := range l.Lots {
		p.Lots = append(p.Lots, LotRecord{
			Date:     lot.PurchaseDate.Format(dateFormat),
			Quantity: lot.Quantity,
			UnitCost: lot.UnitCost,
		})
	}
	for _, s := range l.Sales {
		p.Sales = append(p.Sales, SaleRecord{
			Date:             s.SaleDate.Format(dateFormat),
			Quantity:         s.Quantity,
			ProceedsPerShare: s.ProceedsPerShare,
			CostPerShare:     s.CostBasisPerShare,
			Gain:             s.TaxableGain,
		})
	}
	return p
}

// WriteJSON writes ledgers as an indented object keyed by security.
func WriteJSON(w io.Writer, ledgers []*ledger.Ledger) error {
	out := make(map[string]Position, len(ledgers))
	for _, l := range ledgers {
		out[l.Security] = NewPosition(l)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding lots: %w", err)
	}
	return nil
}

// WriteCSV writes one row per open lot ("lot") and per realized sale
// ("sale") of every ledger.
func WriteCSV(w io.Writer, ledgers []*ledger.Ledger) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LotsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, l := range ledgers {
		for _, lot := range l.Lots {
			row := []string{l.Security, "lot", lot.PurchaseDate.Format(dateFormat), lot.Quantity.String(), lot.UnitCost.String(), "", ""}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing lot of %s: %w", l.Security, err)
			}
		}
		for _, s := range l.Sales {
			row := []string{l.Security, "sale", s.SaleDate.Format(dateFormat), s.Quantity.String(), s.CostBasisPerShare.String(), s.ProceedsPerShare.String(), s.TaxableGain.String()}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing sale of %s: %w", l.Security, err)
			}
		}
	}
	return cw.Error()
}
