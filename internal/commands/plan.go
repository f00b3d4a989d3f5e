package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cleared-dev/gainplan/internal/portfolio"
	"github.com/cleared-dev/gainplan/internal/report"
)

// Replaced in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	promptTarget    = promptTargetForm
)

func newPlanCommand(opts *rootOptions) *cobra.Command {
	var target string
	var round bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "plan [security...]",
		Short: "Compute how many shares to sell to realize a taxable gain",
		Long: `Compute how many shares to sell to realize a taxable gain.

Each security is solved on its own, selling its oldest profitable lots
first. Without --target the remaining allowance of the configured tax year
is used. Decimal commas are accepted ("801,50"). With --round the share
counts are rounded down to whole shares and the figures recomputed, so the
sale stays within the target.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runPlan(cmd, ws, args, target, round, interactive)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "taxable gain to realize per security")
	cmd.Flags().BoolVar(&round, "round", false, "round share counts down to whole shares")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the target")

	return cmd
}

func runPlan(cmd *cobra.Command, ws *workspace, args []string, targetFlag string, round, interactive bool) error {
	sim, err := ws.simulator()
	if err != nil {
		return err
	}
	f, err := ws.formatter()
	if err != nil {
		return err
	}

	target, err := resolveTarget(cmd, ws, sim, f, targetFlag, interactive)
	if err != nil {
		return err
	}

	plans, err := sim.Plan(target, ws.resolve(args))
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		printf(cmd, "No open positions\n")
		return nil
	}

	for _, p := range plans {
		if p.Diverges() {
			ws.logger.Warn("a plain FIFO sale consumes loss lots first",
				"security", p.Security,
				"planned", p.TaxableGain.StringFixed(2),
				"fifo", p.FIFOTaxableGain.StringFixed(2))
		}
	}

	if round {
		if plans, err = sim.WholeShares(plans); err != nil {
			return err
		}
	}

	report.Plans(cmd.OutOrStdout(), f, target, plans)
	return nil
}

func resolveTarget(cmd *cobra.Command, ws *workspace, sim *portfolio.Simulator, f *report.Formatter, targetFlag string, interactive bool) (decimal.Decimal, error) {
	if targetFlag != "" {
		return parseTarget(targetFlag)
	}

	year := ws.cfg.Tax.Year
	left := sim.AllowanceLeft(year, ws.cfg.Tax.Allowance.Decimal)

	if interactive || (left.IsZero() && stdinIsTerminal()) {
		if !stdinIsTerminal() {
			return decimal.Zero, errors.New("--interactive needs a terminal, pass --target instead")
		}
		hint := fmt.Sprintf("Allowance left for %d: %s", year, f.Amount(left))
		s, err := promptTarget(hint, left.StringFixed(2))
		if err != nil {
			return decimal.Zero, err
		}
		return parseTarget(s)
	}

	if left.IsZero() {
		return decimal.Zero, fmt.Errorf("no allowance left for %d, pass --target", year)
	}
	ws.logger.Debug("using remaining allowance as target", "year", year, "target", left.String())
	return left, nil
}

// parseTarget reads a non-negative amount. A decimal comma is accepted.
func parseTarget(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid target %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid target %q: must not be negative", s)
	}
	return d, nil
}

func promptTargetForm(hint, suggested string) (string, error) {
	value := suggested
	err := huh.NewInput().
		Title("Taxable gain to realize").
		Description(hint).
		Value(&value).
		Validate(func(s string) error {
			_, err := parseTarget(s)
			return err
		}).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading target: %w", err)
	}
	return value, nil
}
