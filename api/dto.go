/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts leave the API as strings rounded to two decimals ("130.00").
  Incoming amounts may be JSON strings or numbers; they are parsed by the
  register, which rejects anything that is not a valid number.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/warp/cashdesk/register"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AmountInput accepts "12.50" as well as 12.50 and keeps the text as typed.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	*a = AmountInput(b)
	return nil
}

// OpeningBalancesRequest sets both opening balances.
type OpeningBalancesRequest struct {
	Cash AmountInput `json:"cash"`
	Card AmountInput `json:"card"`
}

// SaleRequest adds or replaces a sale.
type SaleRequest struct {
	Amount        AmountInput `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Comment       string      `json:"comment,omitempty"`
}

// LoadScenarioRequest names a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// TodayDTO tells a client which day it may edit.
type TodayDTO struct {
	Date     string `json:"date"`
	Editable bool   `json:"editable"`
}

// SaleDTO represents a sale in API responses.
type SaleDTO struct {
	ID            int    `json:"id"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Timestamp     string `json:"timestamp"`
	Comment       string `json:"comment,omitempty"`
}

// TotalsDTO carries every derived value of a day.
type TotalsDTO struct {
	CashTotal    string `json:"cash_total"`
	CardTotal    string `json:"card_total"`
	ClosingCash  string `json:"closing_cash"`
	ClosingCard  string `json:"closing_card"`
	OpeningTotal string `json:"opening_total"`
	ClosingTotal string `json:"closing_total"`
	Revenue      string `json:"revenue"`
	SaleCount    int    `json:"sale_count"`
}

// DayDTO is a full day view.
type DayDTO struct {
	Date         string    `json:"date"`
	OpeningCash  string    `json:"opening_cash"`
	OpeningCard  string    `json:"opening_card"`
	Locked       bool      `json:"locked"`
	Editable     bool      `json:"editable"`
	Sales        []SaleDTO `json:"sales"`
	Totals       TotalsDTO `json:"totals"`
	DuplicateIDs []int     `json:"duplicate_ids,omitempty"`
}

// DaySummaryDTO is one row of the archive index.
type DaySummaryDTO struct {
	Date         string `json:"date"`
	Locked       bool   `json:"locked"`
	Editable     bool   `json:"editable"`
	SaleCount    int    `json:"sale_count"`
	Revenue      string `json:"revenue"`
	ClosingTotal string `json:"closing_total"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTotalsDTO(t register.Totals) TotalsDTO {
	return TotalsDTO{
		CashTotal:    register.FormatAmount(t.CashTotal),
		CardTotal:    register.FormatAmount(t.CardTotal),
		ClosingCash:  register.FormatAmount(t.ClosingCash),
		ClosingCard:  register.FormatAmount(t.ClosingCard),
		OpeningTotal: register.FormatAmount(t.OpeningTotal),
		ClosingTotal: register.FormatAmount(t.ClosingTotal),
		Revenue:      register.FormatAmount(t.Revenue),
		SaleCount:    t.SaleCount,
	}
}

func toDayDTO(day register.DayLedger, editable bool) DayDTO {
	sales := make([]SaleDTO, len(day.Sales))
	for i, s := range day.Sales {
		sales[i] = SaleDTO{
			ID:            s.ID,
			Amount:        register.FormatAmount(s.Amount),
			PaymentMethod: string(s.PaymentMethod),
			Timestamp:     s.Timestamp.Format(time.RFC3339),
			Comment:       s.Comment,
		}
	}
	return DayDTO{
		Date:         day.Date.String(),
		OpeningCash:  register.FormatAmount(day.OpeningCash),
		OpeningCard:  register.FormatAmount(day.OpeningCard),
		Locked:       day.Locked,
		Editable:     editable,
		Sales:        sales,
		Totals:       toTotalsDTO(register.Summarize(day)),
		DuplicateIDs: register.DuplicateIDs(day),
	}
}

func toDaySummaryDTO(day register.DayLedger, editable bool) DaySummaryDTO {
	t := register.Summarize(day)
	return DaySummaryDTO{
		Date:         day.Date.String(),
		Locked:       day.Locked,
		Editable:     editable,
		SaleCount:    t.SaleCount,
		Revenue:      register.FormatAmount(t.Revenue),
		ClosingTotal: register.FormatAmount(t.ClosingTotal),
	}
}
