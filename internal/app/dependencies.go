package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/zenbudget/zenbudget/internal/config"
	"github.com/zenbudget/zenbudget/internal/event_bus"
	"github.com/zenbudget/zenbudget/internal/utils"
	"github.com/zenbudget/zenbudget/pkg/analytics"
	"github.com/zenbudget/zenbudget/pkg/budget"
	"github.com/zenbudget/zenbudget/pkg/insights"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	SnapshotRepo  budget.SnapshotRepo
	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	AnalyticsHandler *analytics.Handler

	GeminiClient    insights.Client
	InsightsService *insights.ServiceImpl
	InsightsHandler *insights.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{}

	deps.SnapshotRepo = budget.NewSnapshotRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.SnapshotRepo, deps.Bus, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.AnalyticsHandler = analytics.NewHandler(deps.BudgetService)

	deps.GeminiClient = insights.NewGeminiClient(cfg.Gemini)
	totals := func(ctx context.Context) (budget.Totals, budget.PayFrequency) {
		// one consistent read for both values
		snapshot := deps.BudgetService.Snapshot(ctx)
		return budget.ComputeTotals(snapshot), snapshot.Income.Frequency
	}
	debounce := time.Duration(cfg.Insights.DebounceMillis) * time.Millisecond
	deps.InsightsService = insights.NewService(deps.GeminiClient, totals, deps.Bus, deps.Clock, debounce)
	deps.InsightsHandler = insights.NewHandler(deps.InsightsService)

	return deps
}
