package event_bus

// EventBudgetUpdated is published after every budget store mutation.
const EventBudgetUpdated EventType = "budget.updated"

// BudgetUpdated carries the freshly recomputed per-period totals. The fields
// are flattened here so subscribers do not need to depend on the budget
// package.
type BudgetUpdated struct {
	Income    float64
	Expenses  float64
	Savings   float64
	Balance   float64
	Frequency string
}
