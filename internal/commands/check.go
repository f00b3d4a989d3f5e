package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gainplan/internal/portfolio"
	"github.com/cleared-dev/gainplan/internal/txlog"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate transactions.csv and replay it into lots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runCheck(cmd, ws)
		},
	}
}

func runCheck(cmd *cobra.Command, ws *workspace) error {
	txs, err := ws.store.Load()
	if err != nil {
		return err
	}

	if bad := txlog.ValidateTransactions(txs); len(bad) > 0 {
		for _, e := range bad {
			printf(cmd, "  %s\n", e)
		}
		return fmt.Errorf("%d malformed record(s) in %s", len(bad), txlog.FileName)
	}

	table, err := ws.prices()
	if err != nil {
		return err
	}
	sim, err := portfolio.New(txs, table, ws.catalog, ws.logger)
	if err != nil {
		return err
	}

	warnings := 0
	for _, sec := range sim.OpenSecurities() {
		if !table.Has(sec) {
			printf(cmd, "  warning: no price for %s\n", sec)
			warnings++
		}
		if !ws.catalog.Exists(sec) {
			printf(cmd, "  warning: %s is not in gainplan.yaml, exemption rate 0%%\n", sec)
			warnings++
		}
	}

	classes := make([]string, 0, len(ws.cfg.Tax.ExemptionRates))
	for class := range ws.cfg.Tax.ExemptionRates {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	for _, class := range classes {
		secs := ws.catalog.ByClass(class)
		if len(secs) == 0 {
			continue
		}
		printf(cmd, "  %s: %d securities, %s exempt\n", class, len(secs), ws.catalog.Rate(secs[0].Name))
	}
	for _, sec := range table.Securities() {
		if l, ok := sim.Ledger(sec); !ok || !l.IsOpen() {
			printf(cmd, "  note: price for %s but no open position\n", sec)
		}
	}

	printf(cmd, "OK: %d transactions, %d securities (%d open), %d warning(s)\n",
		len(txs), len(sim.Securities()), len(sim.OpenSecurities()), warnings)
	return nil
}
