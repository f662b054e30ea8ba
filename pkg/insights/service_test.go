package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenbudget/zenbudget/internal/event_bus"
	"github.com/zenbudget/zenbudget/internal/utils"
	"github.com/zenbudget/zenbudget/pkg/budget"
)

var testClock = &utils.MockClock{FixedNow: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

func staticTotals(totals budget.Totals, frequency budget.PayFrequency) TotalsProvider {
	return func(ctx context.Context) (budget.Totals, budget.PayFrequency) {
		return totals, frequency
	}
}

var defaultTotals = staticTotals(
	budget.Totals{Income: 3000, Expenses: 1200, Savings: 300, Balance: 1500},
	budget.FrequencyBiWeekly,
)

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestService_Refresh(t *testing.T) {
	t.Run("should install the advisory text", func(t *testing.T) {
		// given
		client := NewStubClient("Save more every period.")
		service := NewService(client, defaultTotals, nil, testClock, time.Second)
		defer service.Close()

		// when
		insight := service.Refresh(context.Background())

		// then
		assert.Equal(t, "Save more every period.", insight.Text)
		assert.Equal(t, testClock.FixedNow, insight.GeneratedAt)
		assert.Equal(t, insight, service.Current())
	})

	t.Run("should strip emphasis markers from the response", func(t *testing.T) {
		// given
		client := NewStubClient("**Great job!** Keep *saving*.")
		service := NewService(client, defaultTotals, nil, testClock, time.Second)
		defer service.Close()

		// when
		insight := service.Refresh(context.Background())

		// then
		assert.Equal(t, "Great job! Keep saving.", insight.Text)
	})

	t.Run("should fall back to the fixed message when the call fails", func(t *testing.T) {
		// given
		client := NewStubClient("")
		client.FailWith(assert.AnError)
		service := NewService(client, defaultTotals, nil, testClock, time.Second)
		defer service.Close()

		// when
		insight := service.Refresh(context.Background())

		// then
		assert.Equal(t, FallbackText, insight.Text)
	})

	t.Run("should substitute a message for an empty response", func(t *testing.T) {
		// given
		client := NewStubClient("   ")
		service := NewService(client, defaultTotals, nil, testClock, time.Second)
		defer service.Close()

		// when
		insight := service.Refresh(context.Background())

		// then
		assert.Equal(t, EmptyResponseText, insight.Text)
	})

	t.Run("should not call the advisory service while income is zero", func(t *testing.T) {
		// given
		client := NewStubClient("unused")
		provider := staticTotals(budget.Totals{}, budget.FrequencyWeekly)
		service := NewService(client, provider, nil, testClock, time.Second)
		defer service.Close()

		// when
		insight := service.Refresh(context.Background())

		// then
		assert.Zero(t, client.Calls())
		assert.Equal(t, PlaceholderText, insight.Text)
	})

	t.Run("should send the formatted totals in the prompt", func(t *testing.T) {
		// given
		client := NewStubClient("ok")
		service := NewService(client, defaultTotals, nil, testClock, time.Second)
		defer service.Close()

		// when
		service.Refresh(context.Background())

		// then
		prompt := client.LastPrompt()
		assert.Contains(t, prompt, "- Income: $3000 (Bi-Weekly)")
		assert.Contains(t, prompt, "- Expenses: $1200")
		assert.Contains(t, prompt, "- Savings Allocation: $300")
		assert.Contains(t, prompt, "- Remaining Balance: $1500")
	})
}

func TestService_LastRequestWins(t *testing.T) {
	// given two in-flight requests released out of order
	client := NewStubClient("")
	gateFirst := client.GateNext()
	gateSecond := client.GateNext()
	service := NewService(client, defaultTotals, nil, testClock, time.Second)
	defer service.Close()

	firstDone := make(chan Insight, 1)
	go func() {
		firstDone <- service.Refresh(context.Background())
	}()
	waitFor(t, func() bool { return client.Calls() == 1 })

	secondDone := make(chan Insight, 1)
	go func() {
		secondDone <- service.Refresh(context.Background())
	}()
	waitFor(t, func() bool { return client.Calls() == 2 })

	// when the newer request completes first
	gateSecond <- "newer advice"
	second := <-secondDone
	require.Equal(t, "newer advice", second.Text)

	// and the stale response arrives afterwards
	gateFirst <- "stale advice"
	first := <-firstDone

	// then the stale response is discarded
	assert.Equal(t, "newer advice", first.Text)
	assert.Equal(t, "newer advice", service.Current().Text)
}

func TestService_DebouncedRefreshOnBudgetUpdates(t *testing.T) {
	// given
	client := NewStubClient("fresh advice")
	bus := event_bus.NewEventBus()
	service := NewService(client, defaultTotals, bus, testClock, 20*time.Millisecond)
	defer service.Close()

	// when a burst of mutations is published
	for i := 0; i < 5; i++ {
		err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventBudgetUpdated, event_bus.BudgetUpdated{
			Income: 3000, Balance: 1500, Frequency: "Bi-Weekly",
		}))
		require.NoError(t, err)
	}

	// then a single debounced request fires
	waitFor(t, func() bool { return service.Current().Text == "fresh advice" })
	assert.Equal(t, 1, client.Calls())
}
