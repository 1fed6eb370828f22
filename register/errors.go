/*
errors.go - Error types for the register

ERROR CATEGORIES:
  1. Input errors - unparseable or non-positive amounts, bad methods/dates
  2. Gate errors - the day is not today, or it is locked
  3. Store errors - the persistence write failed

CONTRACT:
  A rejected operation never changes state. Callers that only need the
  silent-reject behaviour can ignore the error; presentation layers use
  the classifiers below to decide what to show or disable.
*/
package register

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned for amounts that are not numbers or are
	// out of range (sales must be > 0, opening balances >= 0).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPaymentMethod is returned for anything other than cash or card.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidDate is returned when a date key cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrReadOnly is returned when mutating a day other than today.
	ErrReadOnly = errors.New("day is read-only")

	// ErrDayLocked is returned when mutating today's ledger after it was locked.
	ErrDayLocked = errors.New("day is locked")

	// ErrSaleNotFound is returned when editing a sale id that is not present.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrPersistence wraps failures of the persistence collaborator.
	ErrPersistence = errors.New("persistence failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidAmountError carries the rejected input.
type InvalidAmountError struct {
	Input  string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// ReadOnlyError explains why a day refused a mutation.
type ReadOnlyError struct {
	Date   Date
	Today  Date
	Locked bool
}

func (e *ReadOnlyError) Error() string {
	if e.Date != e.Today {
		return fmt.Sprintf("day %s is read-only (today is %s)", e.Date, e.Today)
	}
	return fmt.Sprintf("day %s is locked", e.Date)
}

func (e *ReadOnlyError) Unwrap() error {
	if e.Date != e.Today {
		return ErrReadOnly
	}
	return ErrDayLocked
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidDate)
}

// IsReadOnly returns true if the day refused the mutation.
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnly) || errors.Is(err, ErrDayLocked)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSaleNotFound)
}
