package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/gainplan/internal/ledger"
	"github.com/cleared-dev/gainplan/internal/report"
)

func newLotsCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lots [security...]",
		Short: "List open lots and realized sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runLots(cmd, ws, args, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatTable, "output format: table, csv or json")

	return cmd
}

func runLots(cmd *cobra.Command, ws *workspace, args []string, format string) error {
	sim, err := ws.simulator()
	if err != nil {
		return err
	}

	names := ws.resolve(args)
	if len(names) == 0 {
		names = sim.Securities()
	}
	ledgers := make([]*ledger.Ledger, 0, len(names))
	for _, name := range names {
		l, ok := sim.Ledger(name)
		if !ok {
			return fmt.Errorf("no transactions for %s", name)
		}
		ledgers = append(ledgers, l)
	}

	w := cmd.OutOrStdout()
	switch format {
	case report.FormatCSV:
		return report.WriteCSV(w, ledgers)
	case report.FormatJSON:
		return report.WriteJSON(w, ledgers)
	case report.FormatTable:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	f, err := ws.formatter()
	if err != nil {
		return err
	}
	table, err := ws.prices()
	if err != nil {
		return err
	}
	for i, l := range ledgers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		price := decimal.Zero
		if p, err := table.Price(l.Security); err == nil {
			price = p
		}
		report.Lots(w, f, l, price)
		report.Sales(w, f, l)
	}
	return nil
}
