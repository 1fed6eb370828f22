package register_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashdesk/register"
	"github.com/warp/cashdesk/register/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var monday = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*register.Ledger, *store.Memory, *register.FixedClock) {
	t.Helper()
	mem := store.NewMemory()
	clock := register.NewFixedClock(monday)
	l, err := register.NewLedger(context.Background(), mem, clock)
	require.NoError(t, err)
	return l, mem, clock
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

// =============================================================================
// READS
// =============================================================================

func TestLedger_GetDay_DefaultIsNotPersisted(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	today := l.Today()

	day := l.GetDay(today)
	assert.Equal(t, today, day.Date)
	assert.Empty(t, day.Sales)
	assert.False(t, day.Locked)
	assertDecimal(t, "0", day.OpeningCash)
	assertDecimal(t, "0", day.OpeningCard)

	assert.Equal(t, 0, mem.Saves(), "reading must not write")
	assert.Empty(t, l.Days())
}

func TestLedger_LoadsExistingState(t *testing.T) {
	// GIVEN: a backend that already holds yesterday's locked ledger
	yesterday := register.DateOf(monday).AddDays(-1)
	day := register.NewDayLedger(yesterday)
	day.OpeningCash = decimal.NewFromInt(10)
	day.Locked = true
	mem := store.NewMemoryWith(map[register.Date]register.DayLedger{yesterday: day})

	// WHEN: the ledger is constructed
	l, err := register.NewLedger(context.Background(), mem, register.NewFixedClock(monday))
	require.NoError(t, err)

	// THEN: the day is readable as stored
	got := l.GetDay(yesterday)
	assert.True(t, got.Locked)
	assertDecimal(t, "10", got.OpeningCash)
	assert.Equal(t, []register.Date{yesterday}, l.Days())
}

func TestLedger_LoadFailure(t *testing.T) {
	_, err := register.NewLedger(context.Background(), failingLoader{}, nil)
	assert.ErrorIs(t, err, register.ErrPersistence)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (map[register.Date]register.DayLedger, error) {
	return nil, errors.New("disk gone")
}

func (failingLoader) Save(context.Context, map[register.Date]register.DayLedger) error {
	return nil
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestLedger_Scenario_OpeningAndTwoSales(t *testing.T) {
	// GIVEN: opening cash=100, card=50
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.SetOpeningBalances(ctx, today, "100", "50"))

	// WHEN: a cash sale of 30 and a card sale of 20 are added
	require.NoError(t, l.AddSale(ctx, today, "30", register.Cash, ""))
	require.NoError(t, l.AddSale(ctx, today, "20", register.Card, ""))

	// THEN: derived balances follow
	day := l.GetDay(today)
	assertDecimal(t, "130", day.ClosingCash())
	assertDecimal(t, "70", day.ClosingCard())
	assertDecimal(t, "150", day.OpeningTotal())
	assertDecimal(t, "200", day.ClosingTotal())
	assertDecimal(t, "50", day.Revenue())
	assert.Equal(t, 2, day.SaleCount())
}

func TestLedger_Scenario_LockThenAdd(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()

	require.NoError(t, l.LockDay(ctx, today))
	before := l.GetDay(today)
	saves := mem.Saves()

	err := l.AddSale(ctx, today, "10", register.Cash, "")
	assert.ErrorIs(t, err, register.ErrDayLocked)
	assert.True(t, register.IsReadOnly(err))

	assert.Equal(t, before, l.GetDay(today))
	assert.Equal(t, 0, l.GetDay(today).SaleCount())
	assert.Equal(t, saves, mem.Saves())
}

func TestLedger_Scenario_InvalidAmountsRejected(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()

	for _, input := range []string{"-5", "abc", "0", "", "12abc", "NaN"} {
		err := l.AddSale(ctx, today, input, register.Cash, "")
		assert.ErrorIs(t, err, register.ErrInvalidAmount, "input %q", input)
		assert.True(t, register.IsClientError(err))
	}
	assert.Equal(t, 0, l.GetDay(today).SaleCount())
	assert.Equal(t, 0, mem.Saves())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestLedger_AddSale_IncrementsCountAndMethodTotal(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()

	amounts := []struct {
		amount string
		method register.PaymentMethod
	}{
		{"0.01", register.Cash},
		{"12.5", register.Card},
		{"999999.99", register.Cash},
		{"3", register.Card},
	}

	for _, a := range amounts {
		before := l.GetDay(today)
		require.NoError(t, l.AddSale(ctx, today, a.amount, a.method, ""))
		after := l.GetDay(today)

		amt := decimal.RequireFromString(a.amount)
		assert.Equal(t, before.SaleCount()+1, after.SaleCount())
		if a.method == register.Cash {
			assertDecimal(t, before.CashTotal().Add(amt).String(), after.CashTotal())
			assertDecimal(t, before.CardTotal().String(), after.CardTotal())
		} else {
			assertDecimal(t, before.CardTotal().Add(amt).String(), after.CardTotal())
			assertDecimal(t, before.CashTotal().String(), after.CashTotal())
		}

		// Closing balances always equal opening + same-method sales
		assertDecimal(t, after.OpeningCash.Add(after.CashTotal()).String(), after.ClosingCash())
		assertDecimal(t, after.OpeningCard.Add(after.CardTotal()).String(), after.ClosingCard())
	}
}

func TestLedger_AddSale_NewestFirstWithSequenceIDs(t *testing.T) {
	l, _, clock := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()

	require.NoError(t, l.AddSale(ctx, today, "1", register.Cash, "coffee"))
	clock.Advance(time.Minute)
	require.NoError(t, l.AddSale(ctx, today, "2", register.Card, ""))

	sales := l.GetDay(today).Sales
	require.Len(t, sales, 2)
	assert.Equal(t, 2, sales[0].ID)
	assert.Equal(t, 1, sales[1].ID)
	assert.Equal(t, "coffee", sales[1].Comment)
	assert.Equal(t, monday.Add(time.Minute), sales[0].Timestamp)
	assert.Equal(t, monday, sales[1].Timestamp)
}

func TestLedger_AddSale_InvalidMethod(t *testing.T) {
	l, _, _ := newTestLedger(t)
	err := l.AddSale(context.Background(), l.Today(), "5", register.PaymentMethod("crypto"), "")
	assert.ErrorIs(t, err, register.ErrInvalidPaymentMethod)
	assert.Equal(t, 0, l.GetDay(l.Today()).SaleCount())
}

func TestLedger_EditSale_OnlyTargetChanges(t *testing.T) {
	// GIVEN: three sales
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, "a"))
	require.NoError(t, l.AddSale(ctx, today, "20", register.Card, "b"))
	require.NoError(t, l.AddSale(ctx, today, "30", register.Cash, "c"))
	before := l.GetDay(today).Sales

	// WHEN: sale #2 is edited
	require.NoError(t, l.EditSale(ctx, today, 2, "25.50", register.Cash, "fixed"))

	// THEN: only #2 changed, and it kept its id and timestamp
	after := l.GetDay(today).Sales
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])

	edited := after[1]
	assert.Equal(t, 2, edited.ID)
	assert.Equal(t, before[1].Timestamp, edited.Timestamp)
	assertDecimal(t, "25.50", edited.Amount)
	assert.Equal(t, register.Cash, edited.PaymentMethod)
	assert.Equal(t, "fixed", edited.Comment)
}

func TestLedger_EditSale_Rejections(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, ""))
	before := l.GetDay(today)
	saves := mem.Saves()

	err := l.EditSale(ctx, today, 1, "-1", register.Cash, "")
	assert.ErrorIs(t, err, register.ErrInvalidAmount)

	err = l.EditSale(ctx, today, 7, "5", register.Cash, "")
	assert.ErrorIs(t, err, register.ErrSaleNotFound)
	assert.True(t, register.IsNotFound(err))

	assert.Equal(t, before, l.GetDay(today))
	assert.Equal(t, saves, mem.Saves())
}

func TestLedger_DeleteSale(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, ""))
	require.NoError(t, l.AddSale(ctx, today, "20", register.Card, ""))

	require.NoError(t, l.DeleteSale(ctx, today, 1))
	day := l.GetDay(today)
	require.Len(t, day.Sales, 1)
	assert.Equal(t, 2, day.Sales[0].ID)
	assertDecimal(t, "0", day.CashTotal())

	// Unknown id: no-op, no write
	saves := mem.Saves()
	require.NoError(t, l.DeleteSale(ctx, today, 42))
	assert.Equal(t, day, l.GetDay(today))
	assert.Equal(t, saves, mem.Saves())
}

func TestLedger_DeleteThenAdd_ReusesID(t *testing.T) {
	// Sale ids are count+1, so an id can repeat after a delete.
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "1", register.Cash, ""))
	require.NoError(t, l.AddSale(ctx, today, "2", register.Cash, ""))
	require.NoError(t, l.DeleteSale(ctx, today, 1))
	require.NoError(t, l.AddSale(ctx, today, "3", register.Cash, ""))

	day := l.GetDay(today)
	assert.Equal(t, []int{2}, register.DuplicateIDs(day))

	// Edit and delete hit the newest sale carrying the id
	require.NoError(t, l.EditSale(ctx, today, 2, "4", register.Card, ""))
	day = l.GetDay(today)
	assertDecimal(t, "4", day.Sales[0].Amount)
	assertDecimal(t, "2", day.Sales[1].Amount)
}

func TestLedger_SetOpeningBalances(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()

	require.NoError(t, l.SetOpeningBalances(ctx, today, "100.25", ""))
	day := l.GetDay(today)
	assertDecimal(t, "100.25", day.OpeningCash)
	assertDecimal(t, "0", day.OpeningCard)

	err := l.SetOpeningBalances(ctx, today, "abc", "1")
	assert.ErrorIs(t, err, register.ErrInvalidAmount)
	err = l.SetOpeningBalances(ctx, today, "1", "-1")
	assert.ErrorIs(t, err, register.ErrInvalidAmount)
	assert.Equal(t, day, l.GetDay(today))
}

// =============================================================================
// EDITABILITY GATE
// =============================================================================

func TestLedger_LockPreventsEveryMutation(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.SetOpeningBalances(ctx, today, "5", "5"))
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, ""))
	require.NoError(t, l.LockDay(ctx, today))
	assert.False(t, l.Editable(today))

	before := l.GetDay(today)
	saves := mem.Saves()

	for name, err := range map[string]error{
		"opening": l.SetOpeningBalances(ctx, today, "1", "1"),
		"add":     l.AddSale(ctx, today, "1", register.Card, ""),
		"edit":    l.EditSale(ctx, today, 1, "1", register.Card, ""),
		"delete":  l.DeleteSale(ctx, today, 1),
		"lock":    l.LockDay(ctx, today),
	} {
		assert.ErrorIs(t, err, register.ErrDayLocked, name)
	}

	assert.Equal(t, before, l.GetDay(today))
	assert.Equal(t, saves, mem.Saves())
}

func TestLedger_PastDayIsReadOnlyEvenIfUnlocked(t *testing.T) {
	// GIVEN: a sale recorded today, never locked
	l, _, clock := newTestLedger(t)
	ctx := context.Background()
	day1 := l.Today()
	require.NoError(t, l.AddSale(ctx, day1, "10", register.Cash, ""))

	// WHEN: the calendar moves to the next day
	clock.Advance(24 * time.Hour)
	require.NotEqual(t, day1, l.Today())

	// THEN: the old day is archived, unlocked but read-only
	assert.False(t, l.GetDay(day1).Locked, "rollover must not lock")
	assert.False(t, l.Editable(day1))

	err := l.AddSale(ctx, day1, "5", register.Cash, "")
	assert.ErrorIs(t, err, register.ErrReadOnly)
	var roErr *register.ReadOnlyError
	require.ErrorAs(t, err, &roErr)
	assert.Equal(t, day1, roErr.Date)
	assert.Equal(t, l.Today(), roErr.Today)

	assert.ErrorIs(t, l.LockDay(ctx, day1), register.ErrReadOnly)
	assert.Equal(t, 1, l.GetDay(day1).SaleCount())

	// And the new day starts fresh and editable
	assert.True(t, l.Editable(l.Today()))
	assert.Equal(t, 0, l.GetDay(l.Today()).SaleCount())
}

func TestLedger_FutureDayIsReadOnly(t *testing.T) {
	l, _, _ := newTestLedger(t)
	tomorrow := l.Today().AddDays(1)
	err := l.AddSale(context.Background(), tomorrow, "1", register.Cash, "")
	assert.ErrorIs(t, err, register.ErrReadOnly)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestLedger_EveryMutationPersistsWholeStore(t *testing.T) {
	l, mem, clock := newTestLedger(t)
	ctx := context.Background()

	day1 := l.Today()
	require.NoError(t, l.AddSale(ctx, day1, "10", register.Cash, ""))
	assert.Equal(t, 1, mem.Saves())

	clock.Advance(24 * time.Hour)
	day2 := l.Today()
	require.NoError(t, l.AddSale(ctx, day2, "20", register.Card, ""))
	require.NoError(t, l.LockDay(ctx, day2))
	assert.Equal(t, 3, mem.Saves())

	stored, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.True(t, stored[day2].Locked)
	assert.Equal(t, 1, stored[day1].SaleCount())

	assert.Equal(t, []register.Date{day2, day1}, l.Days())
}

func TestLedger_PersistenceFailureRollsBack(t *testing.T) {
	l, mem, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, ""))
	before := l.GetDay(today)

	boom := errors.New("quota exceeded")
	mem.FailWith(boom)

	err := l.AddSale(ctx, today, "20", register.Card, "")
	assert.ErrorIs(t, err, register.ErrPersistence)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, l.GetDay(today))

	err = l.LockDay(ctx, today)
	assert.ErrorIs(t, err, register.ErrPersistence)
	assert.True(t, l.Editable(today))

	mem.FailWith(nil)
	require.NoError(t, l.AddSale(ctx, today, "20", register.Card, ""))
	assert.Equal(t, 2, l.GetDay(today).SaleCount())
}

func TestLedger_GetDayReturnsCopy(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	today := l.Today()
	require.NoError(t, l.AddSale(ctx, today, "10", register.Cash, ""))

	day := l.GetDay(today)
	day.Sales[0].Amount = decimal.NewFromInt(1000)
	day.Locked = true

	fresh := l.GetDay(today)
	assertDecimal(t, "10", fresh.Sales[0].Amount)
	assert.False(t, fresh.Locked)
}
