package prices

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// UnknownPriceError is returned when a security has no configured price.
type UnknownPriceError struct {
	Security string
}

func (e *UnknownPriceError) Error() string {
	return fmt.Sprintf("no price configured for %q", e.Security)
}

// Table maps a security to its current unit price. It never defaults a
// missing entry to zero.
type Table struct {
	byName map[string]decimal.Decimal
}

// New validates entries and returns a Table. Prices must be positive.
func New(entries map[string]decimal.Decimal) (*Table, error) {
	byName := make(map[string]decimal.Decimal, len(entries))
	for name, p := range entries {
		if !p.IsPositive() {
			return nil, fmt.Errorf("price of %q must be positive, got %s", name, p)
		}
		byName[name] = p
	}
	return &Table{byName: byName}, nil
}

// Price returns the price of security.
func (t *Table) Price(security string) (decimal.Decimal, error) {
	p, ok := t.byName[security]
	if !ok {
		return decimal.Zero, &UnknownPriceError{Security: security}
	}
	return p, nil
}

// Has reports whether security has a price.
func (t *Table) Has(security string) bool {
	_, ok := t.byName[security]
	return ok
}

// Securities returns the priced securities in sorted order.
func (t *Table) Securities() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
