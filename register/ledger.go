/*
ledger.go - The register's ledger store

PURPOSE:
  Ledger owns the in-memory date → DayLedger mapping. Reads return copies;
  every successful mutation hands the full mapping to the Persistence
  before it becomes visible.

EDITABILITY GATE:
  editable(date) = date == today AND NOT locked

  Every mutation goes through the gate first. A past day is read-only even
  if it was never locked; a future day is read-only too. The lock flag only
  matters for today. Nothing locks a day automatically, including the date
  rolling over.

FAILURE MODEL:
  Mutations run on a clone of the day. The clone replaces the stored day
  only after Save succeeds, so a failed write leaves memory equal to the
  last persisted state. There is no retry.

SEE ALSO:
  - store.go: Persistence interface
  - totals.go: derived balances on DayLedger
*/
package register

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	mu    sync.Mutex
	store Persistence
	clock Clock
	days  map[Date]DayLedger
}

// NewLedger loads the stored mapping and returns a ledger over it.
// A nil clock means the system clock in the local time zone.
func NewLedger(ctx context.Context, store Persistence, clock Clock) (*Ledger, error) {
	days, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	if days == nil {
		days = make(map[Date]DayLedger)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Ledger{store: store, clock: clock, days: days}, nil
}

// Today is the calendar day of the ledger's clock.
func (l *Ledger) Today() Date { return DateOf(l.clock.Now()) }

// GetDay returns the stored ledger for date, or the default ledger if the
// day was never touched. The default is not persisted.
func (l *Ledger) GetDay(date Date) DayLedger {
	l.mu.Lock()
	defer l.mu.Unlock()

	if d, ok := l.days[date]; ok {
		return d.Clone()
	}
	return NewDayLedger(date)
}

// Editable reports whether date accepts mutations right now.
func (l *Ledger) Editable(date Date) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return date == l.Today() && !l.days[date].Locked
}

// Days returns every stored date, newest first.
func (l *Ledger) Days() []Date {
	l.mu.Lock()
	defer l.mu.Unlock()

	dates := make([]Date, 0, len(l.days))
	for d := range l.days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SetOpeningBalances overwrites both opening balances of today's ledger.
func (l *Ledger) SetOpeningBalances(ctx context.Context, date Date, cash, card string) error {
	cashAmt, err := ParseBalance(cash)
	if err != nil {
		return err
	}
	cardAmt, err := ParseBalance(card)
	if err != nil {
		return err
	}

	return l.mutate(ctx, date, func(day *DayLedger) (bool, error) {
		day.OpeningCash = cashAmt
		day.OpeningCard = cardAmt
		return true, nil
	})
}

// AddSale records a sale at the top of today's list. Its id is the day's
// sale count plus one.
func (l *Ledger) AddSale(ctx context.Context, date Date, amount string, method PaymentMethod, comment string) error {
	amt, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}

	return l.mutate(ctx, date, func(day *DayLedger) (bool, error) {
		sale := Sale{
			ID:            len(day.Sales) + 1,
			Amount:        amt,
			PaymentMethod: method,
			Timestamp:     l.clock.Now(),
			Comment:       comment,
		}
		day.Sales = append([]Sale{sale}, day.Sales...)
		return true, nil
	})
}

// EditSale replaces amount, method and comment of the newest sale carrying
// id. Its id and timestamp are kept. Other sales are left untouched.
func (l *Ledger) EditSale(ctx context.Context, date Date, id int, amount string, method PaymentMethod, comment string) error {
	amt, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}

	return l.mutate(ctx, date, func(day *DayLedger) (bool, error) {
		i := day.FindSale(id)
		if i < 0 {
			return false, fmt.Errorf("%w: #%d on %s", ErrSaleNotFound, id, date)
		}
		s := day.Sales[i]
		s.Amount = amt
		s.PaymentMethod = method
		s.Comment = comment
		day.Sales[i] = s
		return true, nil
	})
}

// DeleteSale removes the newest sale carrying id. An unknown id is a no-op.
func (l *Ledger) DeleteSale(ctx context.Context, date Date, id int) error {
	return l.mutate(ctx, date, func(day *DayLedger) (bool, error) {
		i := day.FindSale(id)
		if i < 0 {
			return false, nil
		}
		day.Sales = append(day.Sales[:i], day.Sales[i+1:]...)
		return true, nil
	})
}

// LockDay finalizes today's ledger. There is no unlock.
func (l *Ledger) LockDay(ctx context.Context, date Date) error {
	return l.mutate(ctx, date, func(day *DayLedger) (bool, error) {
		day.Locked = true
		return true, nil
	})
}

// mutate applies fn to a clone of date's ledger behind the editability
// gate. fn reports whether it changed anything; unchanged days are not
// written.
func (l *Ledger) mutate(ctx context.Context, date Date, fn func(day *DayLedger) (bool, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.Today()
	day, ok := l.days[date]
	if ok {
		day = day.Clone()
	} else {
		day = NewDayLedger(date)
	}

	if date != today || day.Locked {
		return &ReadOnlyError{Date: date, Today: today, Locked: day.Locked}
	}

	changed, err := fn(&day)
	if err != nil || !changed {
		return err
	}

	next := make(map[Date]DayLedger, len(l.days)+1)
	for k, v := range l.days {
		next[k] = v
	}
	next[date] = day

	if err := l.store.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	l.days = next
	return nil
}
