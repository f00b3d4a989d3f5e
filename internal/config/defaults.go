package config

// Default values for optional configuration fields.
const (
	DefaultCurrency  = "EUR"
	DefaultAllowance = "1000" // Sparerpauschbetrag, single filer
	DefaultGitAuthor = "gainplan"
	DefaultGitEmail  = "gainplan@localhost"
)

// Fund classes with a partial exemption.
const (
	ClassEquityFund            = "equity_fund"
	ClassMixedFund             = "mixed_fund"
	ClassRealEstateFund        = "real_estate_fund"
	ClassForeignRealEstateFund = "foreign_real_estate_fund"
)

// DefaultExemptionRates returns the statutory partial exemption per class.
func DefaultExemptionRates() map[string]Decimal {
	return map[string]Decimal{
		ClassEquityFund:            D("0.30"),
		ClassMixedFund:             D("0.15"),
		ClassRealEstateFund:        D("0.60"),
		ClassForeignRealEstateFund: D("0.80"),
	}
}

func (c *Config) applyDefaults() {
	if c.Investor.Currency == "" {
		c.Investor.Currency = DefaultCurrency
	}
	if c.Tax.Allowance.Decimal.IsZero() {
		c.Tax.Allowance = D(DefaultAllowance)
	}
	if len(c.Tax.ExemptionRates) == 0 {
		c.Tax.ExemptionRates = DefaultExemptionRates()
	}
	if c.Git.AuthorName == "" {
		c.Git.AuthorName = DefaultGitAuthor
	}
	if c.Git.AuthorEmail == "" {
		c.Git.AuthorEmail = DefaultGitEmail
	}
	if c.Prices == nil {
		c.Prices = make(map[string]Decimal)
	}
}

func defaultSecurities() []SecurityConfig {
	return []SecurityConfig{
		{
			Name:  "amundi msci world v (acc)",
			Class: ClassEquityFund,
			Aliases: []string{
				"amundi msci world v ucits etf acc",
				"amundi msci world v",
				"lyxor core msci world (dr) ucits etf - acc",
			},
		},
		{
			Name:  "ishares core msci europe (acc)",
			Class: ClassEquityFund,
			Aliases: []string{
				"ishares core msci europe ucits etf eur (acc)",
				"ishares core msci europe ucits etf eur",
				"ishares core msci europe",
			},
		},
		{
			Name:  "amundi msci emerging markets ii (dist)",
			Class: ClassEquityFund,
			Aliases: []string{
				"amundi msci emerging markets ii ucits etf dist",
				"amundi msci emerging markets ii ucits etf",
				"amundi msci emerging markets ii",
				"lyxor msci emerging markets (lux) ucits etf",
				"lu2573966905",
			},
		},
	}
}

func defaultPrices() map[string]Decimal {
	return map[string]Decimal{
		"amundi msci world v (acc)":              D("18.80"),
		"ishares core msci europe (acc)":         D("78.96"),
		"amundi msci emerging markets ii (dist)": D("47.12"),
	}
}
