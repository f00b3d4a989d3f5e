package securities

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/gainplan/internal/config"
	"github.com/cleared-dev/gainplan/internal/gains"
)

// Security is a canonical holding and the names brokers use for it.
type Security struct {
	Name    string
	Class   string // empty when unclassified
	Aliases []string
}

// Catalog provides in-memory lookup over the configured securities.
type Catalog struct {
	securities []Security
	byName     map[string]Security
	byAlias    map[string]string
	rates      map[string]gains.Rate
}

// NewCatalog creates a Catalog. Names and aliases are matched
// case-insensitively.
func NewCatalog(securities []Security, rates map[string]gains.Rate) *Catalog {
	c := &Catalog{
		byName:  make(map[string]Security, len(securities)),
		byAlias: make(map[string]string),
		rates:   rates,
	}
	for _, s := range securities {
		s.Name = normalize(s.Name)
		c.securities = append(c.securities, s)
		c.byName[s.Name] = s
		c.byAlias[s.Name] = s.Name
		for _, a := range s.Aliases {
			c.byAlias[normalize(a)] = s.Name
		}
	}
	return c
}

// FromConfig builds a Catalog from the securities and exemption rates of cfg.
func FromConfig(cfg *config.Config) (*Catalog, error) {
	rates := make(map[string]gains.Rate, len(cfg.Tax.ExemptionRates))
	for class, d := range cfg.Tax.ExemptionRates {
		r, err := gains.NewRate(d.Decimal)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class, err)
		}
		rates[class] = r
	}

	secs := make([]Security, len(cfg.Securities))
	for i, s := range cfg.Securities {
		secs[i] = Security{Name: s.Name, Class: s.Class, Aliases: s.Aliases}
	}
	return NewCatalog(secs, rates), nil
}

// DefaultCatalog returns the catalog of a freshly initialized directory.
func DefaultCatalog() *Catalog {
	c, err := FromConfig(config.Default("", 1))
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve maps a broker instrument name to its canonical name. Unknown names
// are returned lower-cased and trimmed.
func (c *Catalog) Resolve(name string) string {
	n := normalize(name)
	if canonical, ok := c.byAlias[n]; ok {
		return canonical
	}
	return n
}

// All returns all securities.
func (c *Catalog) All() []Security {
	return c.securities
}

// Get returns a security by canonical name or alias.
func (c *Catalog) Get(name string) (Security, bool) {
	s, ok := c.byName[c.Resolve(name)]
	return s, ok
}

// Exists reports whether name is a known security or alias.
func (c *Catalog) Exists(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// ByClass returns all securities of the given fund class.
func (c *Catalog) ByClass(class string) []Security {
	var result []Security
	for _, s := range c.securities {
		if s.Class == class {
			result = append(result, s)
		}
	}
	return result
}

// Rate returns the exemption rate of a security, zero when it is unknown or
// unclassified.
func (c *Catalog) Rate(name string) gains.Rate {
	s, ok := c.Get(name)
	if !ok || s.Class == "" {
		return gains.Rate{}
	}
	return c.rates[s.Class]
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
