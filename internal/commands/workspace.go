package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/gainplan/internal/config"
	"github.com/cleared-dev/gainplan/internal/gitops"
	"github.com/cleared-dev/gainplan/internal/portfolio"
	"github.com/cleared-dev/gainplan/internal/prices"
	"github.com/cleared-dev/gainplan/internal/report"
	"github.com/cleared-dev/gainplan/internal/securities"
	"github.com/cleared-dev/gainplan/internal/txlog"
)

// workspace is an initialized gainplan directory and everything loaded from it.
type workspace struct {
	root    string
	cfg     *config.Config
	catalog *securities.Catalog
	store   *txlog.Store
	logger  *slog.Logger
}

func openWorkspace(cmd *cobra.Command, opts *rootOptions) (*workspace, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadAndValidate(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	catalog, err := securities.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading securities: %w", err)
	}

	logger := opts.logger(cmd)
	logger.Debug("opened workspace", "root", root, "securities", len(catalog.All()))

	return &workspace{
		root:    root,
		cfg:     cfg,
		catalog: catalog,
		store:   txlog.NewStore(root),
		logger:  logger,
	}, nil
}

// prices returns the configured price table keyed by canonical name.
func (w *workspace) prices() (*prices.Table, error) {
	entries := make(map[string]decimal.Decimal, len(w.cfg.Prices))
	for name, p := range w.cfg.PriceMap() {
		entries[w.catalog.Resolve(name)] = p
	}
	return prices.New(entries)
}

func (w *workspace) simulator() (*portfolio.Simulator, error) {
	txs, err := w.store.Load()
	if err != nil {
		return nil, err
	}
	table, err := w.prices()
	if err != nil {
		return nil, err
	}
	return portfolio.New(txs, table, w.catalog, w.logger)
}

func (w *workspace) formatter() (*report.Formatter, error) {
	return report.NewFormatter(w.cfg.Investor.Currency)
}

// resolve maps user-supplied security names to canonical names.
func (w *workspace) resolve(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = w.catalog.Resolve(n)
	}
	return out
}

func (w *workspace) author() gitops.Author {
	return gitops.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
}
