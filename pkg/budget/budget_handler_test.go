package budget

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenbudget/zenbudget/internal/event_bus"
	"github.com/zenbudget/zenbudget/internal/utils"
)

// Test setup helper
func setupHandlerTest(t *testing.T) (*BudgetHandler, *mux.Router) {
	repo := NewStubSnapshotRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	service := NewBudgetService(repo, event_bus.NewEventBus(), clock)
	handler := NewBudgetHandler(service)

	r := mux.NewRouter()
	r.HandleFunc("/api/budget", handler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/totals", handler.GetTotals).Methods("GET")
	r.HandleFunc("/api/budget/income", handler.UpdateIncome).Methods("PUT")
	r.HandleFunc("/api/budget/expense", handler.AddExpense).Methods("POST")
	r.HandleFunc("/api/budget/expense/{id}", handler.RemoveExpense).Methods("DELETE")
	r.HandleFunc("/api/budget/savings", handler.AddSavingsGoal).Methods("POST")
	r.HandleFunc("/api/budget/savings/{id}", handler.RemoveSavingsGoal).Methods("DELETE")
	return handler, r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetBudget_ReturnsDefaultSnapshot(t *testing.T) {
	_, router := setupHandlerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/budget", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto SnapshotDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, 3000.0, dto.Income.Amount)
	assert.Equal(t, "Bi-Weekly", dto.Income.Frequency)
	assert.Empty(t, dto.Expenses)
	assert.Empty(t, dto.Savings)
}

func TestUpdateIncome(t *testing.T) {
	_, router := setupHandlerTest(t)

	w := doJSON(t, router, http.MethodPut, "/api/budget/income", map[string]any{
		"amount":    4200,
		"frequency": "Monthly",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var dto IncomeDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, 4200.0, dto.Amount)
	assert.Equal(t, "Monthly", dto.Frequency)
}

func TestUpdateIncome_RejectsUnknownFrequency(t *testing.T) {
	_, router := setupHandlerTest(t)

	w := doJSON(t, router, http.MethodPut, "/api/budget/income", map[string]any{
		"amount":    4200,
		"frequency": "Daily",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddExpense_CreatedAndListedFirst(t *testing.T) {
	_, router := setupHandlerTest(t)

	first := doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{
		"name":   "Rent",
		"amount": "1200",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{
		"name":        "Internet",
		"category":    "Utilities",
		"amount":      "60",
		"isRecurring": true,
		"duration":    "Ongoing",
	})
	require.Equal(t, http.StatusCreated, second.Code)

	var created ExpenseDTO
	require.NoError(t, json.NewDecoder(second.Body).Decode(&created))
	assert.Equal(t, "Internet", created.Name)
	assert.NotEmpty(t, created.ID)

	w := doJSON(t, router, http.MethodGet, "/api/budget", nil)
	var dto SnapshotDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	require.Len(t, dto.Expenses, 2)
	assert.Equal(t, "Internet", dto.Expenses[0].Name)
	assert.Equal(t, "Rent", dto.Expenses[1].Name)
	assert.Equal(t, "General", dto.Expenses[1].Category)
}

func TestAddExpense_ValidationErrors(t *testing.T) {
	_, router := setupHandlerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{
		"name":   "",
		"amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{
		"name":   "Rent",
		"amount": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveExpense(t *testing.T) {
	_, router := setupHandlerTest(t)

	created := doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{
		"name":   "Rent",
		"amount": "1200",
	})
	var dto ExpenseDTO
	require.NoError(t, json.NewDecoder(created.Body).Decode(&dto))

	w := doJSON(t, router, http.MethodDelete, "/api/budget/expense/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// removing again is a no-op, not an error
	w = doJSON(t, router, http.MethodDelete, "/api/budget/expense/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSavingsGoalEndpoints(t *testing.T) {
	_, router := setupHandlerTest(t)

	created := doJSON(t, router, http.MethodPost, "/api/budget/savings", map[string]any{
		"name":   "Emergency Fund",
		"amount": "300",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	var dto SavingsGoalDTO
	require.NoError(t, json.NewDecoder(created.Body).Decode(&dto))
	assert.Equal(t, 300.0, dto.AllocationAmount)

	invalid := doJSON(t, router, http.MethodPost, "/api/budget/savings", map[string]any{
		"name":   "Car",
		"amount": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, invalid.Code)

	w := doJSON(t, router, http.MethodDelete, "/api/budget/savings/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetTotals(t *testing.T) {
	_, router := setupHandlerTest(t)

	doJSON(t, router, http.MethodPost, "/api/budget/expense", map[string]any{"name": "Rent", "amount": "1200"})
	doJSON(t, router, http.MethodPost, "/api/budget/savings", map[string]any{"name": "Emergency Fund", "amount": "300"})

	w := doJSON(t, router, http.MethodGet, "/api/budget/totals", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto TotalsDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, TotalsDTO{Income: 3000, Expenses: 1200, Savings: 300, Balance: 1500}, dto)
}
