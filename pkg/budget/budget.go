package budget

import (
	"time"
)

// PayFrequency describes how often income is received. It is informational
// only: every amount in the system is denominated per pay period and no
// conversion between frequencies is performed.
type PayFrequency string

const (
	FrequencyWeekly   PayFrequency = "Weekly"
	FrequencyBiWeekly PayFrequency = "Bi-Weekly"
	FrequencyMonthly  PayFrequency = "Monthly"
)

// ExpenseDuration is display metadata on an expense. It does not change how
// the expense is aggregated: a "6 Months" expense still counts fully every
// pay period.
type ExpenseDuration string

const (
	DurationOneTime   ExpenseDuration = "One-time"
	DurationSixMonths ExpenseDuration = "6 Months"
	DurationOngoing   ExpenseDuration = "Ongoing"
)

// DefaultCategory is assigned to expenses created without a category.
const DefaultCategory = "General"

// Income is the single per-period income record. There is always exactly one;
// it is replaced wholesale on update.
type Income struct {
	Amount      float64
	Frequency   PayFrequency
	LastUpdated time.Time
}

type Expense struct {
	ID          string
	Name        string
	Category    string
	Amount      float64
	IsRecurring bool
	Duration    ExpenseDuration
}

type SavingsGoal struct {
	ID               string
	Name             string
	AllocationAmount float64
}

// BudgetSnapshot is the complete budget state and the atomic unit of
// persistence. Expenses and savings are ordered most-recent-first.
type BudgetSnapshot struct {
	Income   Income
	Expenses []Expense
	Savings  []SavingsGoal
}

// Totals is derived from a snapshot and never persisted. Balance may be
// negative; that is a valid, displayable state.
type Totals struct {
	Income   float64
	Expenses float64
	Savings  float64
	Balance  float64
}

// DefaultSnapshot returns the snapshot installed when no persisted state
// exists yet.
func DefaultSnapshot(now time.Time) BudgetSnapshot {
	return BudgetSnapshot{
		Income: Income{
			Amount:      3000,
			Frequency:   FrequencyBiWeekly,
			LastUpdated: now,
		},
		Expenses: []Expense{},
		Savings:  []SavingsGoal{},
	}
}

// ComputeTotals aggregates a snapshot into per-period totals. It is pure:
// empty collections sum to zero and no rounding is applied here. Any currency
// rounding is a rendering concern.
func ComputeTotals(s BudgetSnapshot) Totals {
	var expenses float64
	for _, e := range s.Expenses {
		expenses += e.Amount
	}
	var savings float64
	for _, g := range s.Savings {
		savings += g.AllocationAmount
	}
	return Totals{
		Income:   s.Income.Amount,
		Expenses: expenses,
		Savings:  savings,
		Balance:  s.Income.Amount - expenses - savings,
	}
}
