package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if money.GetCurrency(c.Investor.Currency) == nil {
		return fmt.Errorf("investor.currency %q is not an ISO 4217 code", c.Investor.Currency)
	}

	if c.Tax.Year < 1 {
		return errors.New("tax.year is required")
	}
	if c.Tax.Allowance.IsNegative() {
		return fmt.Errorf("tax.allowance must be >= 0, got %s", c.Tax.Allowance)
	}
	for class, rate := range c.Tax.ExemptionRates {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("tax.exemption_rates.%s must be between 0 and 1, got %s", class, rate)
		}
	}

	seen := make(map[string]string)
	for i, sec := range c.Securities {
		name := strings.ToLower(strings.TrimSpace(sec.Name))
		if name == "" {
			return fmt.Errorf("securities[%d].name is required", i)
		}
		if sec.Class != "" {
			if _, ok := c.Tax.ExemptionRates[sec.Class]; !ok {
				return fmt.Errorf("securities[%d].class %q has no exemption rate", i, sec.Class)
			}
		}
		for _, n := range append([]string{name}, sec.Aliases...) {
			n = strings.ToLower(strings.TrimSpace(n))
			if owner, ok := seen[n]; ok && owner != name {
				return fmt.Errorf("securities[%d]: name %q already belongs to %q", i, n, owner)
			}
			seen[n] = name
		}
	}

	for name, p := range c.Prices {
		if !p.IsPositive() {
			return fmt.Errorf("prices.%s must be > 0, got %s", name, p)
		}
	}

	return nil
}
