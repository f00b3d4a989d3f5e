package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a gainplan directory.
const FileName = "gainplan.yaml"

// Config represents the top-level gainplan.yaml configuration.
type Config struct {
	Investor   InvestorConfig     `yaml:"investor"`
	Tax        TaxConfig          `yaml:"tax"`
	Securities []SecurityConfig   `yaml:"securities,omitempty"`
	Prices     map[string]Decimal `yaml:"prices,omitempty"`
	Git        GitConfig          `yaml:"git"`
}

// InvestorConfig identifies the portfolio owner.
type InvestorConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217, e.g. "EUR"
}

// TaxConfig holds the single-year allowance and the exemption rate of each
// fund class.
type TaxConfig struct {
	Year           int                `yaml:"year"`
	Allowance      Decimal            `yaml:"allowance"`
	ExemptionRates map[string]Decimal `yaml:"exemption_rates"`
}

// GitConfig sets the author of the commits made when the directory is a git
// repository.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// SecurityConfig declares a canonical security, its fund class and the
// names it appears under in broker exports.
type SecurityConfig struct {
	Name    string   `yaml:"name"`
	Class   string   `yaml:"class,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Decimal is a decimal.Decimal that reads and writes as a plain YAML number.
type Decimal struct {
	decimal.Decimal
}

// D parses s and panics on invalid input. Intended for defaults.
func D(s string) Decimal {
	return Decimal{decimal.RequireFromString(s)}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Decimal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	v, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: parsing number %q: %w", value.Line, value.Value, err)
	}
	d.Decimal = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Decimal) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: d.String()}, nil
}

// PriceMap returns the configured prices as plain decimals.
func (c *Config) PriceMap() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.Prices))
	for name, p := range c.Prices {
		out[name] = p.Decimal
	}
	return out
}

// Load reads a gainplan.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate reads path, fills in defaults and validates the result.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new directory.
func Default(investorName string, year int) *Config {
	cfg := &Config{
		Investor: InvestorConfig{
			Name:     investorName,
			Currency: DefaultCurrency,
		},
		Tax: TaxConfig{
			Year:      year,
			Allowance: D(DefaultAllowance),
		},
		Securities: defaultSecurities(),
		Prices:     defaultPrices(),
	}
	cfg.applyDefaults()
	return cfg
}
