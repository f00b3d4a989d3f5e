package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gainplan/internal/gitops"
	"github.com/cleared-dev/gainplan/internal/importer"
	"github.com/cleared-dev/gainplan/internal/importlog"
	"github.com/cleared-dev/gainplan/internal/ledger"
	"github.com/cleared-dev/gainplan/internal/model"
	"github.com/cleared-dev/gainplan/internal/txlog"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import broker exports into transactions.csv",
		Long: `Import broker exports into transactions.csv.

Without arguments every .txt and .csv file in import/ is imported and then
moved to import/processed/. Instrument names are mapped to canonical
securities through the aliases in gainplan.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runImport(cmd, ws, args, format, replace)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format: text or csv (default: by file extension)")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace transactions.csv instead of appending")

	return cmd
}

type importSource struct {
	name    string
	path    string
	format  string
	scanned bool // lives in import/ and is moved after import
}

func runImport(cmd *cobra.Command, ws *workspace, args []string, format string, replace bool) error {
	var sources []importSource
	if len(args) == 0 {
		files, err := importer.Scan(ws.root)
		if err != nil {
			return err
		}
		for _, f := range files {
			sources = append(sources, importSource{name: f.Name, path: f.Path, format: f.Format, scanned: true})
		}
	} else {
		for _, a := range args {
			sources = append(sources, importSource{name: filepath.Base(a), path: a, format: format})
		}
	}
	if len(sources) == 0 {
		printf(cmd, "Nothing to import in %s\n", filepath.Join(ws.root, "import"))
		return nil
	}

	existing, err := ws.store.Load()
	if err != nil {
		return err
	}
	// Exports repeat the full history; records already in the log are
	// dropped. With --replace only records repeated across files are.
	var known []model.Transaction
	if !replace {
		known = append(known, existing...)
	}

	registry := importer.DefaultRegistry()
	var imported []model.Transaction
	var entries []importlog.Entry
	skipped := 0
	for _, src := range sources {
		f := src.format
		if format != "" {
			f = format
		}
		txs, err := registry.ParseFile(src.path, f)
		if err != nil {
			return err
		}
		importer.Canonicalize(txs, ws.catalog)

		if bad := txlog.ValidateTransactions(txs); len(bad) > 0 {
			return fmt.Errorf("%s: %w", src.name, bad[0])
		}
		fresh, dropped := txlog.NewRecords(known, txs)
		for _, tx := range fresh {
			if tx.Kind.IsTrade() && !ws.catalog.Exists(tx.Security) {
				ws.logger.Warn("security not in gainplan.yaml, no exemption applies", "file", src.name, "security", tx.Security)
			}
		}

		ws.logger.Debug("parsed export", "file", src.name, "format", f, "records", len(txs), "already_recorded", dropped)
		known = append(known, fresh...)
		imported = append(imported, fresh...)
		skipped += dropped
		entries = append(entries, importlog.Entry{
			Timestamp: time.Now().UTC().Truncate(time.Second),
			File:      src.name,
			Format:    f,
			Records:   len(fresh),
			Replace:   replace,
		})
	}

	combined := imported
	if !replace {
		combined = append(existing, imported...)
	}
	if _, err := ledger.Build(combined); err != nil {
		var ile *ledger.InsufficientLotsError
		if !errors.As(err, &ile) {
			return err
		}
		// An export may start after the first purchases; keep the records and
		// let check report the gap.
		ws.logger.Warn("imported history does not balance", "error", err)
	}

	switch {
	case replace:
		err = ws.store.Save(imported)
	case len(imported) > 0:
		err = ws.store.Append(imported)
	}
	if err != nil {
		return err
	}

	for _, src := range sources {
		if !src.scanned {
			continue
		}
		if err := importer.MarkProcessed(ws.root, src.name); err != nil {
			return err
		}
	}

	if gitops.IsRepo(ws.root) {
		hash, err := commitImport(ws, len(imported), sources)
		if err != nil {
			return err
		}
		for i := range entries {
			entries[i].CommitHash = hash
		}
	}
	if err := importlog.Append(ws.root, entries); err != nil {
		return err
	}

	printf(cmd, "Imported %d records from %d file(s)\n", len(imported), len(sources))
	if skipped > 0 {
		printf(cmd, "Skipped %d records already in %s\n", skipped, txlog.FileName)
	}
	return nil
}

func commitImport(ws *workspace, records int, sources []importSource) (string, error) {
	paths := []string{txlog.FileName}
	if _, err := os.Stat(filepath.Join(ws.root, "import")); err == nil {
		paths = append(paths, "import")
	}
	msg := fmt.Sprintf("import: %d records from %s", records, sources[0].name)
	if len(sources) > 1 {
		msg = fmt.Sprintf("import: %d records from %d files", records, len(sources))
	}

	hash, err := gitops.Commit(ws.root, ws.author(), msg, paths...)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("committing import: %w", err)
	}
	ws.logger.Debug("committed import", "commit", hash)
	return hash, nil
}
