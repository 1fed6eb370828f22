/*
handlers.go - HTTP API handlers for the cash register

ENDPOINTS:
  GET    /api/today                        Today's date and editability
  GET    /api/days                         Archive index, newest first
  GET    /api/days/{date}                  One day with totals
  PUT    /api/days/{date}/opening          Set opening balances
  POST   /api/days/{date}/sales            Add a sale
  PUT    /api/days/{date}/sales/{id}       Edit a sale
  DELETE /api/days/{date}/sales/{id}       Delete a sale
  POST   /api/days/{date}/lock             Lock the day

REQUEST FLOW:
  1. Parse path and body
  2. Call the register (it owns validation and the editability gate)
  3. Return the day as it now stands

ERROR HANDLING:
  - 400: invalid amount, payment method, date or sale id
  - 404: sale not found
  - 409: the day is read-only or locked
  - 500: persistence failure

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo day loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/cashdesk/register"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *register.Ledger
}

// NewHandler creates a new handler over the given ledger.
func NewHandler(ledger *register.Ledger) *Handler {
	return &Handler{Ledger: ledger}
}

// =============================================================================
// READ HANDLERS
// =============================================================================

// GetToday returns the current business date.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	today := h.Ledger.Today()
	writeJSON(w, http.StatusOK, TodayDTO{
		Date:     today.String(),
		Editable: h.Ledger.Editable(today),
	})
}

// ListDays returns a summary of every stored day.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	dates := h.Ledger.Days()
	dtos := make([]DaySummaryDTO, len(dates))
	for i, d := range dates {
		dtos[i] = toDaySummaryDTO(h.Ledger.GetDay(d), h.Ledger.Editable(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDay returns one day. Days never written come back with defaults.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.writeDay(w, http.StatusOK, date)
}

// =============================================================================
// MUTATION HANDLERS
// =============================================================================

// SetOpeningBalances overwrites both opening balances.
func (h *Handler) SetOpeningBalances(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	var req OpeningBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Ledger.SetOpeningBalances(r.Context(), date, string(req.Cash), string(req.Card)); err != nil {
		writeLedgerError(w, "Failed to set opening balances", err)
		return
	}
	h.writeDay(w, http.StatusOK, date)
}

// AddSale records a new sale.
func (h *Handler) AddSale(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	req, method, ok := decodeSale(w, r)
	if !ok {
		return
	}

	if err := h.Ledger.AddSale(r.Context(), date, string(req.Amount), method, req.Comment); err != nil {
		writeLedgerError(w, "Failed to add sale", err)
		return
	}
	h.writeDay(w, http.StatusCreated, date)
}

// EditSale replaces a sale's amount, method and comment.
func (h *Handler) EditSale(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	id, ok := saleIDParam(w, r)
	if !ok {
		return
	}
	req, method, ok := decodeSale(w, r)
	if !ok {
		return
	}

	if err := h.Ledger.EditSale(r.Context(), date, id, string(req.Amount), method, req.Comment); err != nil {
		writeLedgerError(w, "Failed to edit sale", err)
		return
	}
	h.writeDay(w, http.StatusOK, date)
}

// DeleteSale removes a sale. Unknown ids succeed without changes.
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	id, ok := saleIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Ledger.DeleteSale(r.Context(), date, id); err != nil {
		writeLedgerError(w, "Failed to delete sale", err)
		return
	}
	h.writeDay(w, http.StatusOK, date)
}

// LockDay finalizes the day.
func (h *Handler) LockDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	if err := h.Ledger.LockDay(r.Context(), date); err != nil {
		writeLedgerError(w, "Failed to lock day", err)
		return
	}
	h.writeDay(w, http.StatusOK, date)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeDay(w http.ResponseWriter, status int, date register.Date) {
	writeJSON(w, status, toDayDTO(h.Ledger.GetDay(date), h.Ledger.Editable(date)))
}

func dateParam(w http.ResponseWriter, r *http.Request) (register.Date, bool) {
	date, err := register.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return register.Date{}, false
	}
	return date, true
}

func saleIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid sale id", err)
		return 0, false
	}
	return id, true
}

func decodeSale(w http.ResponseWriter, r *http.Request) (SaleRequest, register.PaymentMethod, bool) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, "", false
	}
	method, err := register.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, "payment_method must be cash or card", err)
		return req, "", false
	}
	return req, method, true
}

// writeLedgerError maps register errors onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, message string, err error) {
	switch {
	case register.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case register.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case register.IsReadOnly(err):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, register.ErrPersistence):
		log.Printf("persistence error: %v", err)
		writeError(w, http.StatusInternalServerError, message, err)
	default:
		log.Printf("unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
