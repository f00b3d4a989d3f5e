package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/gainplan/internal/report"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show holdings, gains and the remaining allowance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runSummary(cmd, ws)
		},
	}
}

func runSummary(cmd *cobra.Command, ws *workspace) error {
	sim, err := ws.simulator()
	if err != nil {
		return err
	}
	sum, err := sim.Summary()
	if err != nil {
		return err
	}
	f, err := ws.formatter()
	if err != nil {
		return err
	}

	report.Summary(cmd.OutOrStdout(), f, sum)

	year := ws.cfg.Tax.Year
	printf(cmd, "\nAllowance %d:     %s of %s left (realized taxable %s)\n",
		year,
		f.Amount(sim.AllowanceLeft(year, ws.cfg.Tax.Allowance.Decimal)),
		f.Amount(ws.cfg.Tax.Allowance.Decimal),
		f.Signed(sim.RealizedIn(year)))
	return nil
}
