package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gainplan/internal/ledger"
	"github.com/cleared-dev/gainplan/internal/portfolio"
)

const dateFormat = "2006-01-02"

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	return table
}

// Summary prints the holdings table and the portfolio totals.
func Summary(w io.Writer, f *Formatter, sum portfolio.Summary) {
	fmt.Fprintln(w, "Holdings")
	table := newTable(w, []string{"Security", "Lots", "Shares", "Avg cost", "Price", "Value", "Unrealized", "Exempt", "Taxable"})
	for _, h := range sum.Holdings {
		table.Append([]string{
			h.Security,
			fmt.Sprint(h.Lots),
			Quantity(h.Quantity),
			f.Amount(h.AverageCost),
			f.Amount(h.Price),
			f.Amount(h.MarketValue),
			f.Signed(h.UnrealizedRaw),
			h.Rate.String(),
			f.Signed(h.Unrealized),
		})
	}
	table.SetFooter([]string{"Total", "", "", "", "", f.Amount(sum.MarketValue), f.Signed(sum.UnrealizedRaw), "", f.Signed(sum.Unrealized)})
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cost basis:         %s\n", f.Amount(sum.CostBasis))
	fmt.Fprintf(w, "Realized gain:      %s (taxable %s)\n", f.Signed(sum.RealizedRaw), f.Signed(sum.Realized))
	fmt.Fprintf(w, "Unrealized gain:    %s (taxable %s)\n", f.Signed(sum.UnrealizedRaw), f.Signed(sum.Unrealized))
	fmt.Fprintf(w, "Distributions:      %s\n", f.Amount(sum.Income))
	fmt.Fprintf(w, "Total gain:         %s\n", f.Signed(sum.RealizedRaw.Add(sum.UnrealizedRaw).Add(sum.Income)))
}

// Lots prints the open lots of l. A zero price leaves out the gain column.
func Lots(w io.Writer, f *Formatter, l *ledger.Ledger, price decimal.Decimal) {
	fmt.Fprintf(w, "Open lots of %s\n", l.Security)
	header := []string{"Bought", "Shares", "Unit cost", "Cost basis"}
	if !price.IsZero() {
		header = append(header, "Gain")
	}
	table := newTable(w, header)
	for _, lot := range l.Lots {
		row := []string{
			lot.PurchaseDate.Format(dateFormat),
			Quantity(lot.Quantity),
			f.Amount(lot.UnitCost),
			f.Amount(lot.CostBasis()),
		}
		if !price.IsZero() {
			row = append(row, f.Signed(price.Mul(lot.Quantity).Sub(lot.Cost)))
		}
		table.Append(row)
	}
	footer := []string{"Total", Quantity(l.OpenQuantity()), "", f.Amount(l.CostBasis())}
	if !price.IsZero() {
		footer = append(footer, "")
	}
	table.SetFooter(footer)
	table.Render()
}

// Sales prints the realized sales of l. Nothing is printed without sales.
func Sales(w io.Writer, f *Formatter, l *ledger.Ledger) {
	if len(l.Sales) == 0 {
		return
	}
	fmt.Fprintf(w, "Realized sales of %s\n", l.Security)
	table := newTable(w, []string{"Sold", "Shares", "Proceeds", "Cost basis", "Gain"})
	for _, s := range l.Sales {
		table.Append([]string{
			s.SaleDate.Format(dateFormat),
			Quantity(s.Quantity),
			f.Amount(s.Proceeds()),
			f.Amount(s.CostBasis()),
			f.Signed(s.TaxableGain),
		})
	}
	table.Render()
}

// Plans prints one block per plan.
func Plans(w io.Writer, f *Formatter, target decimal.Decimal, plans []portfolio.Plan) {
	fmt.Fprintf(w, "Target taxable gain: %s\n\n", f.Amount(target))

	table := newTable(w, []string{"Security", "Sell shares", "Price", "Proceeds", "Cost basis", "Gain", "Exempt", "Taxable", "Note"})
	for _, p := range plans {
		table.Append([]string{
			p.Security,
			Quantity(p.Quantity),
			f.Amount(p.Price),
			f.Amount(p.Proceeds),
			f.Amount(p.CostBasis),
			f.Signed(p.Gain),
			p.Rate.String(),
			f.Signed(p.TaxableGain),
			planNote(f, p),
		})
	}
	table.Render()

	for _, p := range plans {
		if len(p.Result.Slices) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", p.Security)
		for _, s := range p.Result.Slices {
			whole := "whole lot"
			if s.Partial {
				whole = "part of lot"
			}
			fmt.Fprintf(w, "  %s: sell %s shares (%s) at cost %s, taxable %s\n",
				s.PurchaseDate.Format(dateFormat), Quantity(s.Quantity), whole, f.Amount(s.UnitCost), f.Signed(s.TaxableGain))
		}
		for _, s := range p.Result.Skipped {
			fmt.Fprintf(w, "  %s: skipped %s shares at cost %s, taxable %s per share\n",
				s.PurchaseDate.Format(dateFormat), Quantity(s.Quantity), f.Amount(s.UnitCost), f.Signed(s.PerShareGain))
		}
	}
}

func planNote(f *Formatter, p portfolio.Plan) string {
	switch {
	case p.Err != nil:
		return "unreachable: max " + f.Signed(p.TaxableGain)
	case p.Diverges():
		return "FIFO sale realizes " + f.Signed(p.FIFOTaxableGain)
	default:
		return ""
	}
}
