/*
scenarios.go - Demo dataset loader

PURPOSE:
  Seeds the store with the canonical demo engagement so a fresh server
  has something to poke at: one trainer, one training, one purchase
  order billed daily.

SEE ALSO:
  - handlers.go: The endpoints that operate on the seeded PO
*/
package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/billing-engine/billing"
)

// DemoPO describes the seeded purchase order.
var demoScenario = struct {
	Trainer  billing.Trainer
	Training billing.Training
	Rate     int64
	Days     int
}{
	Trainer: billing.Trainer{
		Name:       "Sharath Kumar",
		Email:      "sharath@trainer.com",
		Experience: "10 Years",
	},
	Training: billing.Training{
		Course:    "Advanced React",
		Client:    "UST Global",
		StartDate: billing.Date(2025, time.December, 1),
		EndDate:   billing.Date(2026, time.February, 8),
	},
	Rate: 8000,
	Days: 40,
}

// LoadDemoScenario creates the demo purchase order: a 40-day engagement
// billed daily at 8000, ending 2026-02-08. Total amount 320000.
func (h *Handler) LoadDemoScenario(w http.ResponseWriter, r *http.Request) {
	factory := billing.NewPOFactory(h.Numbers, h.Clock)

	po, err := factory.CreatePO(r.Context(),
		demoScenario.Trainer,
		demoScenario.Training,
		billing.DailyTerms(decimal.NewFromInt(demoScenario.Rate), demoScenario.Days),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create demo purchase order", err)
		return
	}

	if err := h.Store.SavePurchaseOrder(r.Context(), po); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save demo purchase order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPurchaseOrderDTO(po))
}
