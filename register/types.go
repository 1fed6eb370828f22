/*
Package register provides the daily cash-register ledger.

PURPOSE:
  A register keeps one ledger per calendar day: the opening cash and card
  balances, and the sales rung up that day. Closing balances and totals
  are never stored, they are recomputed from the sales on every read.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaymentMethod: how a sale was paid (cash or card)
  - Sale: one recorded sale, identified by its per-day sequence number
  - DayLedger: a day's opening balances, its sales (newest first), and
    its lock flag

LIFECYCLE:
  A day is editable only while it is "today" and unlocked. Locking is
  one-way. Once the calendar moves on, the day becomes part of the
  read-only archive whether or not it was ever locked.

USAGE:
  l, err := register.NewLedger(ctx, memory, register.SystemClock{})
  today := l.Today()
  _ = l.SetOpeningBalances(ctx, today, "100", "50")
  _ = l.AddSale(ctx, today, "30", register.Cash, "")
  day := l.GetDay(today)
  fmt.Println(day.ClosingCash()) // 130

SEE ALSO:
  - ledger.go: mutation operations and the editability gate
  - totals.go: derived balances
  - store.go: persistence collaborator
*/
package register

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT METHOD
// =============================================================================

type PaymentMethod string

const (
	Cash PaymentMethod = "cash"
	Card PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool { return m == Cash || m == Card }

func (m PaymentMethod) String() string { return string(m) }

// ParsePaymentMethod accepts "cash" or "card".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

// =============================================================================
// SALE
// =============================================================================

// Sale is a single recorded sale.
//
// ID is the day's sale count plus one at insertion time. It is NOT a
// monotonic counter: deleting a sale and adding another can hand out an id
// that an older sale still carries. See DuplicateIDs.
type Sale struct {
	ID            int             `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
	Comment       string          `json:"comment,omitempty"`
}

// =============================================================================
// DAY LEDGER
// =============================================================================

// DayLedger is one calendar day's record.
type DayLedger struct {
	Date        Date            `json:"date"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
	OpeningCard decimal.Decimal `json:"opening_card"`
	Sales       []Sale          `json:"sales"` // newest first
	Locked      bool            `json:"locked"`
}

// NewDayLedger returns the default ledger for a date: zero balances,
// no sales, unlocked.
func NewDayLedger(date Date) DayLedger {
	return DayLedger{
		Date:        date,
		OpeningCash: decimal.Zero,
		OpeningCard: decimal.Zero,
		Sales:       []Sale{},
	}
}

// Clone returns a copy that shares no slice storage with d.
func (d DayLedger) Clone() DayLedger {
	c := d
	c.Sales = make([]Sale, len(d.Sales))
	copy(c.Sales, d.Sales)
	return c
}

// FindSale returns the index of the first (newest) sale with the given id,
// or -1.
func (d DayLedger) FindSale(id int) int {
	for i, s := range d.Sales {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// CloneDays deep-copies a date-keyed mapping.
func CloneDays(days map[Date]DayLedger) map[Date]DayLedger {
	out := make(map[Date]DayLedger, len(days))
	for k, v := range days {
		out[k] = v.Clone()
	}
	return out
}
