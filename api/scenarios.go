/*
scenarios.go - Demo day loaders for testing and demonstrations

PURPOSE:
  Populates today's ledger with realistic sales so the UI has something
  to show. Scenarios go through the normal register operations, so they
  obey the same rules as a cashier: they only touch today, and they fail
  with 409 once today is locked.

AVAILABLE SCENARIOS:
  quiet-morning:  opening 100/50, one cash sale and one card sale
  busy-day:       a dozen mixed sales with comments
  reconciled-day: busy-day, then locked

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "busy-day"}

NOTE:
  Scenarios append to whatever today already holds. Day records are never
  deleted, so there is no reset.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/warp/cashdesk/register"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioSale struct {
	amount  string
	method  register.PaymentMethod
	comment string
}

type scenario struct {
	ScenarioDTO
	cash, card string
	sales      []scenarioSale
	lock       bool
}

var busySales = []scenarioSale{
	{"4.50", register.Cash, "espresso"},
	{"12.00", register.Card, ""},
	{"7.25", register.Cash, ""},
	{"31.90", register.Card, "lunch for two"},
	{"3.10", register.Cash, ""},
	{"18.00", register.Card, ""},
	{"9.99", register.Card, "gift card top-up"},
	{"2.40", register.Cash, ""},
	{"55.00", register.Card, "catering deposit"},
	{"6.75", register.Cash, ""},
	{"14.30", register.Card, ""},
	{"1.20", register.Cash, "refill"},
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "quiet-morning",
			Name:        "Quiet Morning",
			Description: "Opening 100 cash / 50 card, one cash sale of 30 and one card sale of 20",
		},
		cash: "100", card: "50",
		sales: []scenarioSale{{"30", register.Cash, ""}, {"20", register.Card, ""}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "busy-day",
			Name:        "Busy Day",
			Description: "A dozen mixed cash and card sales",
		},
		cash: "200", card: "0",
		sales: busySales,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "reconciled-day",
			Name:        "Reconciled Day",
			Description: "Busy day that has been counted and locked",
		},
		cash: "200", card: "0",
		sales: busySales,
		lock:  true,
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario plays a scenario onto today's ledger.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	today := h.Ledger.Today()
	if err := s.apply(r.Context(), h.Ledger, today); err != nil {
		writeLedgerError(w, "Failed to load scenario", err)
		return
	}
	h.writeDay(w, http.StatusOK, today)
}

// =============================================================================
// SCENARIO LOADER
// =============================================================================

func (s scenario) apply(ctx context.Context, l *register.Ledger, date register.Date) error {
	if err := l.SetOpeningBalances(ctx, date, s.cash, s.card); err != nil {
		return err
	}
	for _, sale := range s.sales {
		if err := l.AddSale(ctx, date, sale.amount, sale.method, sale.comment); err != nil {
			return err
		}
	}
	if s.lock {
		return l.LockDay(ctx, date)
	}
	return nil
}
