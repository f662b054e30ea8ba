package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// The DTO field names below are the persisted wire format as well as the API
// format; they must not change without bumping StorageKey.

type IncomeDTO struct {
	Amount      float64   `json:"amount"`
	Frequency   string    `json:"frequency"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type ExpenseDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	IsRecurring bool    `json:"isRecurring"`
	Duration    string  `json:"duration"`
}

type SavingsGoalDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	AllocationAmount float64 `json:"allocationAmount"`
}

type SnapshotDTO struct {
	Income   IncomeDTO        `json:"income"`
	Expenses []ExpenseDTO     `json:"expenses"`
	Savings  []SavingsGoalDTO `json:"savings"`
}

type TotalsDTO struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
	Balance  float64 `json:"balance"`
}

type BudgetHandler struct {
	service BudgetService
}

func NewBudgetHandler(service BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snapshot := h.service.Snapshot(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SnapshotToDTO(snapshot)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BudgetHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	totals := h.service.Totals(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(TotalsToDTO(totals)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BudgetHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating income")
	w.Header().Set("Content-Type", "application/json")

	var dto struct {
		Amount    float64 `json:"amount"`
		Frequency string  `json:"frequency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	income, err := h.service.SetIncome(r.Context(), dto.Amount, PayFrequency(dto.Frequency))
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(IncomeToDTO(income)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BudgetHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		IsRecurring bool   `json:"isRecurring"`
		Duration    string `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.service.AddExpense(r.Context(), ExpenseFields{
		Name:        dto.Name,
		Category:    dto.Category,
		Amount:      dto.Amount,
		IsRecurring: dto.IsRecurring,
		Duration:    ExpenseDuration(dto.Duration),
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(expense)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BudgetHandler) RemoveExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveExpense(r.Context(), vars["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) AddSavingsGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding new savings goal")
	w.Header().Set("Content-Type", "application/json")

	var dto struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := h.service.AddSavingsGoal(r.Context(), SavingsGoalFields{
		Name:   dto.Name,
		Amount: dto.Amount,
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SavingsGoalToDTO(goal)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BudgetHandler) RemoveSavingsGoal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveSavingsGoal(r.Context(), vars["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidFrequency)
}

func IncomeToDTO(income Income) IncomeDTO {
	return IncomeDTO{
		Amount:      income.Amount,
		Frequency:   string(income.Frequency),
		LastUpdated: income.LastUpdated,
	}
}

func ExpenseToDTO(expense Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          expense.ID,
		Name:        expense.Name,
		Category:    expense.Category,
		Amount:      expense.Amount,
		IsRecurring: expense.IsRecurring,
		Duration:    string(expense.Duration),
	}
}

func SavingsGoalToDTO(goal SavingsGoal) SavingsGoalDTO {
	return SavingsGoalDTO{
		ID:               goal.ID,
		Name:             goal.Name,
		AllocationAmount: goal.AllocationAmount,
	}
}

func SnapshotToDTO(snapshot BudgetSnapshot) SnapshotDTO {
	expenses := make([]ExpenseDTO, 0, len(snapshot.Expenses))
	for _, e := range snapshot.Expenses {
		expenses = append(expenses, ExpenseToDTO(e))
	}
	savings := make([]SavingsGoalDTO, 0, len(snapshot.Savings))
	for _, g := range snapshot.Savings {
		savings = append(savings, SavingsGoalToDTO(g))
	}
	return SnapshotDTO{
		Income:   IncomeToDTO(snapshot.Income),
		Expenses: expenses,
		Savings:  savings,
	}
}

func TotalsToDTO(totals Totals) TotalsDTO {
	return TotalsDTO{
		Income:   totals.Income,
		Expenses: totals.Expenses,
		Savings:  totals.Savings,
		Balance:  totals.Balance,
	}
}

func DTOToSnapshot(dto SnapshotDTO) BudgetSnapshot {
	expenses := make([]Expense, 0, len(dto.Expenses))
	for _, e := range dto.Expenses {
		expenses = append(expenses, Expense{
			ID:          e.ID,
			Name:        e.Name,
			Category:    e.Category,
			Amount:      e.Amount,
			IsRecurring: e.IsRecurring,
			Duration:    ExpenseDuration(e.Duration),
		})
	}
	savings := make([]SavingsGoal, 0, len(dto.Savings))
	for _, g := range dto.Savings {
		savings = append(savings, SavingsGoal{
			ID:               g.ID,
			Name:             g.Name,
			AllocationAmount: g.AllocationAmount,
		})
	}
	return BudgetSnapshot{
		Income: Income{
			Amount:      dto.Income.Amount,
			Frequency:   PayFrequency(dto.Income.Frequency),
			LastUpdated: dto.Income.LastUpdated,
		},
		Expenses: expenses,
		Savings:  savings,
	}
}
