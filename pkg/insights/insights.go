package insights

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zenbudget/zenbudget/pkg/budget"
)

const (
	// PlaceholderText is shown before the first advisory response arrives.
	PlaceholderText = "Gathering data to provide your financial health check..."
	// FallbackText replaces the advisory output when the service call fails.
	FallbackText = "Your personal financial advisor is currently offline. Check back soon!"
	// EmptyResponseText replaces an empty advisory response.
	EmptyResponseText = "Unable to generate insights at this time."
)

// Insight is the current advisory text shown on the dashboard.
type Insight struct {
	Text        string
	GeneratedAt time.Time
}

// BuildPrompt formats the per-period totals into the advisory request.
func BuildPrompt(totals budget.Totals, frequency budget.PayFrequency) string {
	var b strings.Builder
	b.WriteString("Act as a professional financial advisor. Analyze this budget for a single pay period:\n")
	fmt.Fprintf(&b, "- Income: $%s (%s)\n", formatAmount(totals.Income), frequency)
	fmt.Fprintf(&b, "- Expenses: $%s\n", formatAmount(totals.Expenses))
	fmt.Fprintf(&b, "- Savings Allocation: $%s\n", formatAmount(totals.Savings))
	fmt.Fprintf(&b, "- Remaining Balance: $%s\n", formatAmount(totals.Balance))
	b.WriteString("\nProvide 3 concise, bulleted bullet points of advice for this person. ")
	b.WriteString("Focus on their savings rate and how much they have left over after obligations.\n")
	b.WriteString("Keep it encouraging but firm.")
	return b.String()
}

// Sanitize removes the markdown emphasis markers models like to emit; the
// panel renders plain text.
func Sanitize(text string) string {
	return strings.ReplaceAll(text, "*", "")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
