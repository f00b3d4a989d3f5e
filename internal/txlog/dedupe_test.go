package txlog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/gainplan/internal/model"
)

func TestNewRecords_DropsKnown(t *testing.T) {
	known := []model.Transaction{buyTx(1, "1"), buyTx(2, "2")}
	incoming := []model.Transaction{buyTx(1, "1"), buyTx(2, "2"), buyTx(3, "3")}

	fresh, dropped := NewRecords(known, incoming)
	assert.Equal(t, []model.Transaction{buyTx(3, "3")}, fresh)
	assert.Equal(t, 2, dropped)
}

func TestNewRecords_CountsDuplicates(t *testing.T) {
	// Two identical savings plan executions, one already recorded.
	known := []model.Transaction{buyTx(1, "1")}
	incoming := []model.Transaction{buyTx(1, "1"), buyTx(1, "1")}

	fresh, dropped := NewRecords(known, incoming)
	assert.Len(t, fresh, 1)
	assert.Equal(t, 1, dropped)
}

func TestNewRecords_TrailingZerosMatch(t *testing.T) {
	stored := buyTx(1, "5.3191")
	stored.Amount = decimal.RequireFromString("-100.00")

	fresh, dropped := NewRecords([]model.Transaction{stored}, []model.Transaction{buyTx(1, "5.31910")})
	assert.Empty(t, fresh)
	assert.Equal(t, 1, dropped)
}

func TestNewRecords_DifferentAmountIsNew(t *testing.T) {
	other := buyTx(1, "1")
	other.Amount = decimal.RequireFromString("-101")

	fresh, dropped := NewRecords([]model.Transaction{buyTx(1, "1")}, []model.Transaction{other})
	assert.Len(t, fresh, 1)
	assert.Zero(t, dropped)
}
