package analytics

import (
	"math"
	"sort"

	"github.com/zenbudget/zenbudget/pkg/budget"
)

// Segment is one slice of the allocation chart. Percent is the share of the
// chart total, with the balance clamped at zero so an overspent budget does
// not produce a negative slice.
type Segment struct {
	Name    string
	Value   float64
	Percent float64
	Color   string
}

// CategoryTotal is the per-category expense rollup.
type CategoryTotal struct {
	Category          string
	Amount            float64
	PercentOfExpenses float64
}

const (
	colorExpenses = "#F43F5E"
	colorSavings  = "#0EA5E9"
	colorBalance  = "#6366F1"
)

// AllocationBreakdown splits the period income into the three chart segments.
// A zero-sum budget yields zero percents rather than NaN.
func AllocationBreakdown(totals budget.Totals) []Segment {
	balance := math.Max(0, totals.Balance)
	segments := []Segment{
		{Name: "Expenses", Value: totals.Expenses, Color: colorExpenses},
		{Name: "Savings", Value: totals.Savings, Color: colorSavings},
		{Name: "Remaining Balance", Value: balance, Color: colorBalance},
	}

	sum := totals.Expenses + totals.Savings + balance
	if sum > 0 {
		for i := range segments {
			segments[i].Percent = segments[i].Value / sum * 100
		}
	}
	return segments
}

// CategoryBreakdown sums expenses per category, largest first.
func CategoryBreakdown(snapshot budget.BudgetSnapshot) []CategoryTotal {
	byCategory := make(map[string]float64)
	var total float64
	for _, e := range snapshot.Expenses {
		byCategory[e.Category] += e.Amount
		total += e.Amount
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		entry := CategoryTotal{Category: category, Amount: amount}
		if total > 0 {
			entry.PercentOfExpenses = amount / total * 100
		}
		categories = append(categories, entry)
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})
	return categories
}
