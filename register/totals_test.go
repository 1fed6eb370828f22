package register_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/cashdesk/register"
)

func sale(id int, amount string, m register.PaymentMethod) register.Sale {
	return register.Sale{ID: id, Amount: decimal.RequireFromString(amount), PaymentMethod: m}
}

func TestSummarize_MatchesGetters(t *testing.T) {
	day := register.NewDayLedger(register.NewDate(2026, 10, 19))
	day.OpeningCash = decimal.RequireFromString("100")
	day.OpeningCard = decimal.RequireFromString("50")
	day.Sales = []register.Sale{
		sale(3, "0.10", register.Card),
		sale(2, "0.20", register.Cash),
		sale(1, "30", register.Cash),
	}

	totals := register.Summarize(day)

	assert.True(t, totals.CashTotal.Equal(day.CashTotal()))
	assert.True(t, totals.CardTotal.Equal(day.CardTotal()))
	assert.True(t, totals.ClosingCash.Equal(day.ClosingCash()))
	assert.True(t, totals.ClosingCard.Equal(day.ClosingCard()))
	assert.True(t, totals.OpeningTotal.Equal(day.OpeningTotal()))
	assert.True(t, totals.ClosingTotal.Equal(day.ClosingTotal()))
	assert.True(t, totals.Revenue.Equal(day.Revenue()))
	assert.Equal(t, 3, totals.SaleCount)

	// Decimal sums stay exact where floats would drift
	assert.Equal(t, "130.20", register.FormatAmount(totals.ClosingCash))
	assert.True(t, totals.Revenue.Equal(decimal.RequireFromString("30.3")))
}

func TestDuplicateIDs(t *testing.T) {
	day := register.NewDayLedger(register.NewDate(2026, 10, 19))
	assert.Empty(t, register.DuplicateIDs(day))

	day.Sales = []register.Sale{
		sale(3, "1", register.Cash),
		sale(3, "1", register.Cash),
		sale(2, "1", register.Card),
		sale(2, "1", register.Card),
		sale(1, "1", register.Card),
	}
	assert.Equal(t, []int{2, 3}, register.DuplicateIDs(day))
}
