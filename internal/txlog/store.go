package txlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/gainplan/internal/model"
)

// FileName is the transaction log at the root of a gainplan directory.
const FileName = "transactions.csv"

// Store reads and writes the transaction log of a directory.
type Store struct {
	repoRoot string
}

// NewStore creates a Store rooted at repoRoot.
func NewStore(repoRoot string) *Store {
	return &Store{repoRoot: repoRoot}
}

// Path returns the location of transactions.csv.
func (s *Store) Path() string {
	return filepath.Join(s.repoRoot, FileName)
}

// Load reads all records. A missing file is an empty log.
func (s *Store) Load() ([]model.Transaction, error) {
	f, err := os.Open(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", s.Path(), err)
	}
	defer f.Close()

	txs, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", s.Path(), err)
	}
	return txs, nil
}

// Save replaces the log with txs.
func (s *Store) Save(txs []model.Transaction) error {
	if err := validationError(txs); err != nil {
		return err
	}

	f, err := os.Create(s.Path())
	if err != nil {
		return fmt.Errorf("creating transactions file: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txs); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	return nil
}

// Append validates txs and appends them to the log, writing the header
// first when the file is new.
func (s *Store) Append(txs []model.Transaction) error {
	if err := validationError(txs); err != nil {
		return err
	}

	isNew := false
	if _, err := os.Stat(s.Path()); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, txs); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

func validationError(txs []model.Transaction) error {
	verrs := ValidateTransactions(txs)
	if len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
