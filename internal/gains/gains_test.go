package gains

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gainplan/internal/ledger"
)

func mustRate(s string) Rate {
	r, err := NewRate(dec(s))
	if err != nil {
		panic(err)
	}
	return r
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0", false},
		{"0.3", false},
		{"1", false},
		{"-0.01", true},
		{"1.5", true},
	}
	for _, tt := range tests {
		_, err := NewRate(dec(tt.in))
		if tt.wantErr {
			assert.Error(t, err, "NewRate(%s)", tt.in)
		} else {
			assert.NoError(t, err, "NewRate(%s)", tt.in)
		}
	}
}

func TestRateApply(t *testing.T) {
	r := mustRate("0.30")
	assert.True(t, r.Apply(dec("100")).Equal(dec("70")), "100 with a 30 percent exemption")
	assert.True(t, r.Apply(dec("-100")).Equal(dec("-70")), "losses are not floored")
	assert.True(t, Rate{}.Apply(dec("100")).Equal(dec("100")), "zero value exempts nothing")
	assert.Equal(t, "30%", r.String())
}

func TestUnrealized(t *testing.T) {
	l := ledger.New("etf")
	l.Buy(day(2024, 1, 1), dec("10"), dec("100")) // 10 @ 10
	l.Buy(day(2024, 2, 1), dec("10"), dec("250")) // 10 @ 25

	// At 20: +100 on the first lot, -50 on the second.
	assert.True(t, UnrealizedRaw(l, dec("20")).Equal(dec("50")))
	assert.True(t, Unrealized(l, dec("20"), mustRate("0.3")).Equal(dec("35")))

	// At 5 everything is a loss and stays negative.
	assert.True(t, Unrealized(l, dec("5"), mustRate("0.3")).Equal(dec("-175")))
}

func TestRealized(t *testing.T) {
	l := ledger.New("etf")
	l.Buy(day(2023, 1, 1), dec("20"), dec("200"))
	_, err := l.Sell(day(2023, 6, 1), dec("10"), dec("200")) // +100
	require.NoError(t, err)
	_, err = l.Sell(day(2024, 6, 1), dec("5"), dec("40")) // -10
	require.NoError(t, err)

	assert.True(t, RealizedRaw(l).Equal(dec("90")))
	assert.True(t, Realized(l, mustRate("0.3")).Equal(dec("63")))

	from, to := Year(2023)
	assert.True(t, RealizedBetween(l, mustRate("0.3"), from, to).Equal(dec("70")))
	from, to = Year(2024)
	assert.True(t, RealizedBetween(l, mustRate("0.3"), from, to).Equal(dec("-7")))
	from, to = Year(2025)
	assert.True(t, RealizedBetween(l, mustRate("0.3"), from, to).IsZero())
}

func TestYearBounds(t *testing.T) {
	from, to := Year(2024)
	assert.Equal(t, day(2024, 1, 1), from)
	assert.Equal(t, day(2025, 1, 1), to)
}
