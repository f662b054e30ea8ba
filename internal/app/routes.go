package app

import (
	"github.com/gorilla/mux"
	"github.com/zenbudget/zenbudget/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/totals", deps.BudgetHandler.GetTotals).Methods("GET")
	r.HandleFunc("/api/budget/income", deps.BudgetHandler.UpdateIncome).Methods("PUT")
	r.HandleFunc("/api/budget/expense", deps.BudgetHandler.AddExpense).Methods("POST")
	r.HandleFunc("/api/budget/expense/{id}", deps.BudgetHandler.RemoveExpense).Methods("DELETE")
	r.HandleFunc("/api/budget/savings", deps.BudgetHandler.AddSavingsGoal).Methods("POST")
	r.HandleFunc("/api/budget/savings/{id}", deps.BudgetHandler.RemoveSavingsGoal).Methods("DELETE")

	// Analytics
	r.HandleFunc("/api/analytics/breakdown", deps.AnalyticsHandler.GetBreakdown).Methods("GET")
	r.HandleFunc("/api/analytics/categories", deps.AnalyticsHandler.GetCategories).Methods("GET")

	// Insights
	r.HandleFunc("/api/insights", deps.InsightsHandler.GetInsight).Methods("GET")
	r.HandleFunc("/api/insights/refresh", deps.InsightsHandler.RefreshInsight).Methods("POST")
}
