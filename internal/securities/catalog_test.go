package securities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gainplan/internal/config"
	"github.com/cleared-dev/gainplan/internal/gains"
)

func rate(s string) gains.Rate {
	r, err := gains.NewRate(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return r
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Len(t, c.All(), 3)

	for _, s := range c.All() {
		assert.NotEmpty(t, s.Name)
		assert.Equal(t, config.ClassEquityFund, s.Class, "%s", s.Name)
	}
	assert.Len(t, c.ByClass(config.ClassEquityFund), 3)
	assert.Empty(t, c.ByClass(config.ClassMixedFund))
}

func TestResolve(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		in   string
		want string
	}{
		{"Amundi MSCI World V UCITS ETF Acc", "amundi msci world v (acc)"},
		{"Lyxor Core MSCI World (DR) UCITS ETF - Acc", "amundi msci world v (acc)"},
		{"  iShares Core MSCI Europe ", "ishares core msci europe (acc)"},
		{"LU2573966905", "amundi msci emerging markets ii (dist)"},
		{"amundi msci world v (acc)", "amundi msci world v (acc)"},
		{"Some Other ETF", "some other etf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Resolve(tt.in), "Resolve(%q)", tt.in)
	}
}

func TestGetExists(t *testing.T) {
	c := DefaultCatalog()

	s, ok := c.Get("amundi msci world v")
	assert.True(t, ok)
	assert.Equal(t, "amundi msci world v (acc)", s.Name)

	_, ok = c.Get("unknown fund")
	assert.False(t, ok)

	assert.True(t, c.Exists("ishares core msci europe ucits etf eur"))
	assert.False(t, c.Exists("unknown fund"))
}

func TestRate(t *testing.T) {
	c := NewCatalog([]Security{
		{Name: "Equity", Class: "equity_fund"},
		{Name: "Mixed", Class: "mixed_fund"},
		{Name: "Bond"},
	}, map[string]gains.Rate{
		"equity_fund": rate("0.3"),
		"mixed_fund":  rate("0.15"),
	})

	assert.Equal(t, "30%", c.Rate("equity").String())
	assert.Equal(t, "15%", c.Rate("MIXED").String())
	assert.Equal(t, "0%", c.Rate("bond").String(), "unclassified")
	assert.Equal(t, "0%", c.Rate("nothing").String(), "unknown")
}

func TestFromConfig_BadRate(t *testing.T) {
	cfg := config.Default("Jane", 2024)
	cfg.Tax.ExemptionRates[config.ClassEquityFund] = config.D("2")

	_, err := FromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equity_fund")
}
