package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/zenbudget/zenbudget/pkg/budget"
)

type SegmentDTO struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

type CategoryTotalDTO struct {
	Category          string  `json:"category"`
	Amount            float64 `json:"amount"`
	PercentOfExpenses float64 `json:"percentOfExpenses"`
}

type Handler struct {
	budgetService budget.BudgetService
}

func NewHandler(budgetService budget.BudgetService) *Handler {
	return &Handler{budgetService: budgetService}
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	segments := AllocationBreakdown(h.budgetService.Totals(r.Context()))

	dto := make([]SegmentDTO, 0, len(segments))
	for _, s := range segments {
		dto = append(dto, SegmentDTO{Name: s.Name, Value: s.Value, Percent: s.Percent, Color: s.Color})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories := CategoryBreakdown(h.budgetService.Snapshot(r.Context()))

	dto := make([]CategoryTotalDTO, 0, len(categories))
	for _, c := range categories {
		dto = append(dto, CategoryTotalDTO{Category: c.Category, Amount: c.Amount, PercentOfExpenses: c.PercentOfExpenses})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
