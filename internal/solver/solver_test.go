package solver

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gainplan/internal/gains"
	"github.com/cleared-dev/gainplan/internal/ledger"
)

func rate(s string) gains.Rate {
	r, err := gains.NewRate(decimal.RequireFromString(s))
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

// lots builds a ledger from (quantity, unit cost) pairs, one lot per month.
func lots(pairs ...string) *ledger.Ledger {
	l := ledger.New("etf")
	for i := 0; i+1 < len(pairs); i += 2 {
		qty, cost := dec(pairs[i]), dec(pairs[i+1])
		l.Buy(day(2024, time.Month(i/2+1), 1), qty, qty.Mul(cost))
	}
	return l
}

func TestSolve_SingleLot(t *testing.T) {
	// 100 shares, per-share taxable gain (12 - 10) * 0.5 = 1.
	l := lots("100", "10")
	r := rate("0.5")

	res, err := Solve(l, dec("12"), r, dec("50"))
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(dec("50")), "got %s", res.Quantity)
	require.Len(t, res.Slices, 1)
	assert.True(t, res.Slices[0].Partial)
	assert.True(t, res.TaxableGain().Equal(dec("50")))

	_, err = Solve(l, dec("12"), r, dec("150"))
	var ute *UnreachableTargetError
	require.True(t, errors.As(err, &ute))
	assert.True(t, ute.Achievable.Equal(dec("100")))
	assert.True(t, ute.Quantity.Equal(dec("100")))
	assert.Equal(t, "etf", ute.Security)
}

func TestSolve_SkipsLossLots(t *testing.T) {
	// Lot A: per-share gain 10 - 12 = -2. Lot B: 10 - 9 = +1.
	l := lots("10", "12", "10", "9")

	res, err := Solve(l, dec("10"), gains.Rate{}, dec("5"))
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(dec("5")))

	require.Len(t, res.Slices, 1)
	assert.Equal(t, day(2024, 2, 1), res.Slices[0].PurchaseDate, "only lot B is sold")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, day(2024, 1, 1), res.Skipped[0].PurchaseDate)
	assert.True(t, res.Skipped[0].PerShareGain.Equal(dec("-2")))

	assert.True(t, l.OpenQuantity().Equal(dec("20")), "solving does not consume lots")
}

func TestSolve_ZeroGainLotIsSkipped(t *testing.T) {
	l := lots("10", "10", "10", "8")
	res, err := Solve(l, dec("10"), gains.Rate{}, dec("4"))
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(dec("2")))
	assert.Len(t, res.Skipped, 1)
}

func TestSolve_SpansLots(t *testing.T) {
	// Per-share taxable gains at 20 with 30% exemption: 7, 3.5, 14.
	l := lots("10", "10", "4", "15", "10", "0")
	r := rate("0.3")

	res, err := Solve(l, dec("20"), r, dec("98"))
	require.NoError(t, err)
	// 70 from lot 1, 14 from lot 2, 14 / 14 = 1 share of lot 3.
	assert.True(t, res.Quantity.Equal(dec("15")), "got %s", res.Quantity)
	require.Len(t, res.Slices, 3)
	assert.False(t, res.Slices[0].Partial)
	assert.False(t, res.Slices[1].Partial)
	assert.True(t, res.Slices[2].Partial)
	assert.True(t, res.TaxableGain().Equal(dec("98")))
	assert.True(t, res.CostBasis().Equal(dec("160")))
}

func TestSolve_ExactLotBoundary(t *testing.T) {
	l := lots("10", "10", "10", "10")
	res, err := Solve(l, dec("11"), gains.Rate{}, dec("10"))
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(dec("10")))
	require.Len(t, res.Slices, 1)
	assert.False(t, res.Slices[0].Partial)
}

func TestSolve_ZeroTarget(t *testing.T) {
	res, err := Solve(ledger.New("empty"), dec("10"), gains.Rate{}, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Quantity.IsZero())
	assert.Empty(t, res.Slices)
}

func TestSolve_NoLots(t *testing.T) {
	_, err := Solve(ledger.New("empty"), dec("10"), gains.Rate{}, dec("1"))
	var ute *UnreachableTargetError
	require.True(t, errors.As(err, &ute))
	assert.True(t, ute.Achievable.IsZero())
	assert.Contains(t, err.Error(), "empty cannot realize")
}

func TestSolve_NegativeTarget(t *testing.T) {
	_, err := Solve(lots("1", "1"), dec("10"), gains.Rate{}, dec("-1"))
	assert.ErrorIs(t, err, ErrNegativeTarget)
}

func TestSolve_AllLotsUnderwater(t *testing.T) {
	l := lots("10", "20", "5", "30")
	res, err := Solve(l, dec("10"), rate("0.3"), dec("1"))
	var ute *UnreachableTargetError
	require.True(t, errors.As(err, &ute))
	assert.True(t, res.Quantity.IsZero())
	assert.Len(t, res.Skipped, 2)
}

func TestSolve_SkipsAhead(t *testing.T) {
	res, err := Solve(lots("10", "12", "10", "9"), dec("10"), gains.Rate{}, dec("5"))
	require.NoError(t, err)
	assert.True(t, res.SkipsAhead(), "the loss lot is older than the sold one")

	// The loss lot comes after the sold one.
	res, err = Solve(lots("10", "9", "10", "12"), dec("10"), gains.Rate{}, dec("5"))
	require.NoError(t, err)
	assert.Len(t, res.Skipped, 0, "scan stops at the first lot")
	assert.False(t, res.SkipsAhead())

	res, err = Solve(lots("10", "9", "10", "12", "10", "8"), dec("10"), gains.Rate{}, dec("10"))
	require.NoError(t, err)
	assert.Len(t, res.Slices, 1)
	assert.False(t, res.SkipsAhead())
}

func TestSolve_NonTerminatingQuantity(t *testing.T) {
	// 100 shares for 1000, price 18.80, 30% exempt: 6.16 taxable per share.
	l := ledger.New("etf")
	l.Buy(day(2024, 1, 1), dec("100"), dec("-1000"))

	res, err := Solve(l, dec("18.80"), rate("0.3"), dec("100"))
	require.NoError(t, err)
	assert.True(t, res.TaxableGain().Equal(dec("100")))
	assert.Equal(t, "16.2338", res.Quantity.StringFixed(4))
	assert.False(t, res.SkipsAhead())
}

func TestResult_Limit(t *testing.T) {
	// Per-share taxable gains at 20 with 30% exemption: 7, 3.5, 14.
	l := lots("10", "10", "4", "15", "10", "0")
	res, err := Solve(l, dec("20"), rate("0.3"), dec("98"))
	require.NoError(t, err)

	cut := res.Limit(dec("12"))
	assert.True(t, cut.Quantity.Equal(dec("12")))
	require.Len(t, cut.Slices, 2)
	assert.True(t, cut.Slices[1].Partial)
	assert.True(t, cut.Slices[1].Quantity.Equal(dec("2")))
	// 70 + 2 * 3.5.
	assert.True(t, cut.TaxableGain().Equal(dec("77")), "got %s", cut.TaxableGain())
	assert.True(t, cut.CostBasis().Equal(dec("130")), "got %s", cut.CostBasis())
	assert.Equal(t, res.Skipped, cut.Skipped)

	assert.Equal(t, res, res.Limit(dec("20")), "a larger limit changes nothing")
	assert.Empty(t, res.Limit(decimal.Zero).Slices)
}
