package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/gainplan/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func buy(date time.Time, sec, qty, amount string) model.Transaction {
	return model.Transaction{Date: date, Kind: model.KindBuy, Security: sec, Quantity: dec(qty), Amount: dec(amount)}
}

func sell(date time.Time, sec, qty, amount string) model.Transaction {
	return model.Transaction{Date: date, Kind: model.KindSell, Security: sec, Quantity: dec(qty), Amount: dec(amount)}
}

func TestBuild_FIFOConsumesOldestFirst(t *testing.T) {
	txs := []model.Transaction{
		buy(day(2024, 1, 1), "etf", "10", "-100"),
		buy(day(2024, 2, 1), "etf", "10", "-200"),
		sell(day(2024, 3, 1), "etf", "15", "375"),
	}

	ledgers, err := Build(txs)
	require.NoError(t, err)
	l := ledgers["etf"]
	require.NotNil(t, l)

	require.Len(t, l.Sales, 1)
	sale := l.Sales[0]
	assertDecimal(t, "15", sale.Quantity)
	assertDecimal(t, "25", sale.ProceedsPerShare)
	// 10 shares at 10 plus 5 shares at 20.
	assertDecimal(t, "200", sale.CostBasis())
	assertDecimal(t, "175", sale.TaxableGain)

	require.Len(t, l.Lots, 1)
	assert.Equal(t, day(2024, 2, 1), l.Lots[0].PurchaseDate)
	assertDecimal(t, "5", l.Lots[0].Quantity)
	assertDecimal(t, "20", l.Lots[0].UnitCost)
}

func TestBuild_UnitCostFromAmount(t *testing.T) {
	ledgers, err := Build([]model.Transaction{
		buy(day(2024, 1, 1), "etf", "4", "-50"),
		buy(day(2024, 1, 2), "etf", "2", "30"),
	})
	require.NoError(t, err)

	lots := ledgers["etf"].Lots
	require.Len(t, lots, 2)
	assertDecimal(t, "12.5", lots[0].UnitCost)
	assertDecimal(t, "15", lots[1].UnitCost, "sign of the amount is ignored")
}

func TestBuild_ConservesQuantity(t *testing.T) {
	txs := []model.Transaction{
		buy(day(2023, 1, 5), "world", "3.5", "-70"),
		buy(day(2023, 2, 5), "world", "2.25", "-47.25"),
		buy(day(2023, 2, 6), "europe", "1", "-75"),
		sell(day(2023, 3, 1), "world", "4", "88"),
		buy(day(2023, 4, 5), "world", "1.1234", "-24.01"),
		sell(day(2023, 5, 1), "europe", "1", "80"),
		sell(day(2023, 6, 1), "world", "0.5", "11"),
		{Date: day(2023, 6, 2), Kind: model.KindDeposit, Amount: dec("500")},
	}

	ledgers, err := Build(txs)
	require.NoError(t, err)

	bought := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Kind == model.KindBuy {
			bought[tx.Security] = bought[tx.Security].Add(tx.Quantity)
		}
	}
	require.Len(t, ledgers, len(bought))
	for sec, total := range bought {
		l := ledgers[sec]
		got := l.OpenQuantity().Add(l.RealizedQuantity())
		assert.True(t, total.Equal(got), "%s: bought %s, open+sold %s", sec, total, got)
	}

	assert.False(t, ledgers["europe"].IsOpen(), "fully sold ledger stays with its sales")
	assert.Len(t, ledgers["europe"].Sales, 1)
}

func TestBuild_InsufficientLots(t *testing.T) {
	txs := []model.Transaction{
		buy(day(2024, 1, 1), "etf", "10", "-100"),
		sell(day(2024, 2, 1), "etf", "12", "150"),
	}

	_, err := Build(txs)
	require.Error(t, err)

	var ile *InsufficientLotsError
	require.True(t, errors.As(err, &ile))
	assert.Equal(t, "etf", ile.Security)
	assert.Equal(t, day(2024, 2, 1), ile.Date)
	assertDecimal(t, "12", ile.Requested)
	assertDecimal(t, "10", ile.Available)
	assert.Contains(t, err.Error(), "2024-02-01")
}

func TestBuild_SellWithoutBuy(t *testing.T) {
	_, err := Build([]model.Transaction{sell(day(2024, 2, 1), "etf", "1", "10")})
	var ile *InsufficientLotsError
	require.True(t, errors.As(err, &ile))
	assertDecimal(t, "0", ile.Available)
}

func TestBuild_MalformedRecord(t *testing.T) {
	txs := []model.Transaction{
		buy(day(2024, 1, 1), "etf", "10", "-100"),
		{Date: day(2024, 1, 2), Kind: model.KindBuy, Quantity: dec("1"), Amount: dec("-10")},
	}
	_, err := Build(txs)

	var mre *model.MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Index)
}

func TestBuild_SortsByDateKeepingTies(t *testing.T) {
	txs := []model.Transaction{
		sell(day(2024, 3, 1), "etf", "5", "100"),
		buy(day(2024, 1, 1), "etf", "5", "-50"),
		buy(day(2024, 1, 1), "etf", "5", "-60"),
	}
	original := append([]model.Transaction(nil), txs...)

	ledgers, err := Build(txs)
	require.NoError(t, err)
	assert.Equal(t, original, txs, "input is not reordered")

	l := ledgers["etf"]
	require.Len(t, l.Lots, 1)
	// The first of the two same-day buys was consumed.
	assertDecimal(t, "12", l.Lots[0].UnitCost)
	assertDecimal(t, "50", l.Sales[0].TaxableGain)
}

func TestBuild_Idempotent(t *testing.T) {
	txs := []model.Transaction{
		buy(day(2024, 1, 1), "a", "3", "-30"),
		buy(day(2024, 1, 3), "b", "7", "-91"),
		buy(day(2024, 2, 1), "a", "2", "-25"),
		sell(day(2024, 3, 1), "a", "4", "52"),
	}

	first, err := Build(txs)
	require.NoError(t, err)
	second, err := Build(txs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_IgnoresCashTransactions(t *testing.T) {
	ledgers, err := Build([]model.Transaction{
		{Date: day(2024, 1, 1), Kind: model.KindDeposit, Amount: dec("1000")},
		{Date: day(2024, 1, 2), Kind: model.KindWithdrawal, Amount: dec("-10")},
		{Date: day(2024, 1, 3), Kind: model.KindOther, Amount: dec("3.21")},
	})
	require.NoError(t, err)
	assert.Empty(t, ledgers)
}

func TestLedger_CloneIsIndependent(t *testing.T) {
	l := New("etf")
	l.Buy(day(2024, 1, 1), dec("10"), dec("100"))

	c := l.Clone()
	_, err := c.Sell(day(2024, 2, 1), dec("4"), dec("60"))
	require.NoError(t, err)

	assertDecimal(t, "10", l.OpenQuantity())
	assert.Empty(t, l.Sales)
	assertDecimal(t, "6", c.OpenQuantity())
}

func TestLedger_AverageCost(t *testing.T) {
	l := New("etf")
	assertDecimal(t, "0", l.AverageCost())

	l.Buy(day(2024, 1, 1), dec("10"), dec("100"))
	l.Buy(day(2024, 1, 2), dec("10"), dec("300"))
	assertDecimal(t, "20", l.AverageCost())
	assertDecimal(t, "400", l.CostBasis())
}

func TestLedger_SellKeepsExactCost(t *testing.T) {
	// 3 shares for 10: the unit cost has no exact decimal form.
	l := New("etf")
	l.Buy(day(2024, 1, 1), dec("3"), dec("-10"))
	l.Buy(day(2024, 1, 2), dec("3"), dec("-10"))

	sale, err := l.Sell(day(2024, 2, 1), dec("3"), dec("10"))
	require.NoError(t, err)
	assertDecimal(t, "10", sale.CostBasis())
	assertDecimal(t, "0", sale.TaxableGain)

	sale, err = l.Sell(day(2024, 2, 2), dec("1.5"), dec("6"))
	require.NoError(t, err)
	assertDecimal(t, "5", sale.CostBasis())
	assertDecimal(t, "1", sale.TaxableGain)
	assertDecimal(t, "5", l.CostBasis(), "the rest of the lot keeps the remaining cost")
}

func TestLedger_SellLeavesLotsOnFailure(t *testing.T) {
	l := New("etf")
	l.Buy(day(2024, 1, 1), dec("2"), dec("20"))

	_, err := l.Sell(day(2024, 2, 1), dec("3"), dec("30"))
	require.Error(t, err)
	assertDecimal(t, "2", l.OpenQuantity())
	assert.Empty(t, l.Sales)
}

func TestSecuritiesSorted(t *testing.T) {
	ledgers := map[string]*Ledger{"b": New("b"), "a": New("a"), "c": New("c")}
	assert.Equal(t, []string{"a", "b", "c"}, Securities(ledgers))
}
