package register

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DERIVED VALUES - Computed from the sales on every call, never stored
// =============================================================================

func (d DayLedger) methodTotal(m PaymentMethod) decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Sales {
		if s.PaymentMethod == m {
			total = total.Add(s.Amount)
		}
	}
	return total
}

// CashTotal is the sum of the day's cash sales.
func (d DayLedger) CashTotal() decimal.Decimal { return d.methodTotal(Cash) }

// CardTotal is the sum of the day's card sales.
func (d DayLedger) CardTotal() decimal.Decimal { return d.methodTotal(Card) }

func (d DayLedger) ClosingCash() decimal.Decimal  { return d.OpeningCash.Add(d.CashTotal()) }
func (d DayLedger) ClosingCard() decimal.Decimal  { return d.OpeningCard.Add(d.CardTotal()) }
func (d DayLedger) OpeningTotal() decimal.Decimal { return d.OpeningCash.Add(d.OpeningCard) }
func (d DayLedger) ClosingTotal() decimal.Decimal { return d.ClosingCash().Add(d.ClosingCard()) }

// Revenue is cash plus card sales, without opening balances.
func (d DayLedger) Revenue() decimal.Decimal { return d.CashTotal().Add(d.CardTotal()) }

func (d DayLedger) SaleCount() int { return len(d.Sales) }

// =============================================================================
// TOTALS - All derived values of one day, for presentation layers
// =============================================================================

type Totals struct {
	CashTotal    decimal.Decimal
	CardTotal    decimal.Decimal
	ClosingCash  decimal.Decimal
	ClosingCard  decimal.Decimal
	OpeningTotal decimal.Decimal
	ClosingTotal decimal.Decimal
	Revenue      decimal.Decimal
	SaleCount    int
}

func Summarize(d DayLedger) Totals {
	cash, card := d.CashTotal(), d.CardTotal()
	closingCash := d.OpeningCash.Add(cash)
	closingCard := d.OpeningCard.Add(card)
	return Totals{
		CashTotal:    cash,
		CardTotal:    card,
		ClosingCash:  closingCash,
		ClosingCard:  closingCard,
		OpeningTotal: d.OpeningTotal(),
		ClosingTotal: closingCash.Add(closingCard),
		Revenue:      cash.Add(card),
		SaleCount:    len(d.Sales),
	}
}

// DuplicateIDs returns, in ascending order, the sale ids carried by more
// than one sale of the day.
func DuplicateIDs(d DayLedger) []int {
	seen := make(map[int]int, len(d.Sales))
	for _, s := range d.Sales {
		seen[s.ID]++
	}
	var dups []int
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Ints(dups)
	return dups
}
