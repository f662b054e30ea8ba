package budget

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zenbudget/zenbudget/internal/event_bus"
	"github.com/zenbudget/zenbudget/internal/utils"
)

var (
	ErrNameRequired     = errors.New("name must not be empty")
	ErrInvalidAmount    = errors.New("amount must be a non-negative number")
	ErrInvalidFrequency = errors.New("unknown pay frequency")
)

// ExpenseFields are the caller-supplied fields for a new expense. Amount
// arrives as the raw form value and is validated here, at the store boundary.
type ExpenseFields struct {
	Name        string
	Category    string
	Amount      string
	IsRecurring bool
	Duration    ExpenseDuration
}

// SavingsGoalFields are the caller-supplied fields for a new savings goal.
type SavingsGoalFields struct {
	Name   string
	Amount string
}

type BudgetService interface {
	// Load installs the persisted snapshot, or the default one when nothing
	// usable is persisted. It is called once at startup and fails soft.
	Load(ctx context.Context) (BudgetSnapshot, error)
	Snapshot(ctx context.Context) BudgetSnapshot
	Totals(ctx context.Context) Totals
	SetIncome(ctx context.Context, amount float64, frequency PayFrequency) (Income, error)
	AddExpense(ctx context.Context, fields ExpenseFields) (Expense, error)
	RemoveExpense(ctx context.Context, id string) error
	AddSavingsGoal(ctx context.Context, fields SavingsGoalFields) (SavingsGoal, error)
	RemoveSavingsGoal(ctx context.Context, id string) error
}

// BudgetServiceImpl is the single authoritative holder of the current
// snapshot. Mutations run to completion under the mutex, persist the full
// snapshot, and announce the new totals on the event bus.
type BudgetServiceImpl struct {
	repo  SnapshotRepo
	bus   *event_bus.EventBus
	clock utils.Clock

	mu       sync.Mutex
	snapshot BudgetSnapshot
	loaded   bool
}

func NewBudgetService(repo SnapshotRepo, bus *event_bus.EventBus, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, bus: bus, clock: clock}
}

func (s *BudgetServiceImpl) Load(ctx context.Context) (BudgetSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return copySnapshot(s.snapshot), nil
}

// ensureLoaded installs the snapshot on first access. A missing or unreadable
// blob is not an error: the default snapshot takes its place.
func (s *BudgetServiceImpl) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	snapshot, found, err := s.repo.Load(ctx)
	if err != nil {
		log.Warnf("persisted budget could not be read, starting from defaults: %v", err)
		snapshot = DefaultSnapshot(s.clock.Now())
	} else if !found {
		log.Info("no persisted budget found, starting from defaults")
		snapshot = DefaultSnapshot(s.clock.Now())
	}
	s.snapshot = snapshot
	s.loaded = true
}

func (s *BudgetServiceImpl) Snapshot(ctx context.Context) BudgetSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return copySnapshot(s.snapshot)
}

func (s *BudgetServiceImpl) Totals(ctx context.Context) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return ComputeTotals(s.snapshot)
}

func (s *BudgetServiceImpl) SetIncome(ctx context.Context, amount float64, frequency PayFrequency) (Income, error) {
	if !validAmount(amount) {
		return Income{}, ErrInvalidAmount
	}
	switch frequency {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
	default:
		return Income{}, ErrInvalidFrequency
	}

	s.mu.Lock()
	s.ensureLoaded(ctx)
	income := Income{
		Amount:      amount,
		Frequency:   frequency,
		LastUpdated: s.clock.Now(),
	}
	s.snapshot.Income = income
	s.persistLocked(ctx)
	totals := ComputeTotals(s.snapshot)
	s.mu.Unlock()

	s.publishUpdated(ctx, totals, frequency)
	return income, nil
}

func (s *BudgetServiceImpl) AddExpense(ctx context.Context, fields ExpenseFields) (Expense, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return Expense{}, ErrNameRequired
	}
	amount, err := parseAmount(fields.Amount)
	if err != nil {
		return Expense{}, err
	}
	category := strings.TrimSpace(fields.Category)
	if category == "" {
		category = DefaultCategory
	}
	duration := fields.Duration
	if duration == "" {
		duration = DurationOngoing
	}

	expense := Expense{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    category,
		Amount:      amount,
		IsRecurring: fields.IsRecurring,
		Duration:    duration,
	}

	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.snapshot.Expenses = append([]Expense{expense}, s.snapshot.Expenses...)
	s.persistLocked(ctx)
	totals := ComputeTotals(s.snapshot)
	frequency := s.snapshot.Income.Frequency
	s.mu.Unlock()

	s.publishUpdated(ctx, totals, frequency)
	return expense, nil
}

func (s *BudgetServiceImpl) RemoveExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	remaining := make([]Expense, 0, len(s.snapshot.Expenses))
	for _, e := range s.snapshot.Expenses {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	s.snapshot.Expenses = remaining
	// persisted even when nothing matched, to keep behavior predictable
	s.persistLocked(ctx)
	totals := ComputeTotals(s.snapshot)
	frequency := s.snapshot.Income.Frequency
	s.mu.Unlock()

	s.publishUpdated(ctx, totals, frequency)
	return nil
}

func (s *BudgetServiceImpl) AddSavingsGoal(ctx context.Context, fields SavingsGoalFields) (SavingsGoal, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return SavingsGoal{}, ErrNameRequired
	}
	amount, err := parseAmount(fields.Amount)
	if err != nil {
		return SavingsGoal{}, err
	}

	goal := SavingsGoal{
		ID:               uuid.NewString(),
		Name:             name,
		AllocationAmount: amount,
	}

	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.snapshot.Savings = append([]SavingsGoal{goal}, s.snapshot.Savings...)
	s.persistLocked(ctx)
	totals := ComputeTotals(s.snapshot)
	frequency := s.snapshot.Income.Frequency
	s.mu.Unlock()

	s.publishUpdated(ctx, totals, frequency)
	return goal, nil
}

func (s *BudgetServiceImpl) RemoveSavingsGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	remaining := make([]SavingsGoal, 0, len(s.snapshot.Savings))
	for _, g := range s.snapshot.Savings {
		if g.ID != id {
			remaining = append(remaining, g)
		}
	}
	s.snapshot.Savings = remaining
	s.persistLocked(ctx)
	totals := ComputeTotals(s.snapshot)
	frequency := s.snapshot.Income.Frequency
	s.mu.Unlock()

	s.publishUpdated(ctx, totals, frequency)
	return nil
}

// persistLocked writes the full snapshot. A failed write must not fail the
// mutation that triggered it; the in-memory snapshot stays authoritative.
func (s *BudgetServiceImpl) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.snapshot); err != nil {
		log.Warnf("failed to persist budget snapshot: %v", err)
	}
}

func (s *BudgetServiceImpl) publishUpdated(ctx context.Context, totals Totals, frequency PayFrequency) {
	if s.bus == nil {
		return
	}
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventBudgetUpdated, event_bus.BudgetUpdated{
		Income:    totals.Income,
		Expenses:  totals.Expenses,
		Savings:   totals.Savings,
		Balance:   totals.Balance,
		Frequency: string(frequency),
	}))
	if err != nil {
		log.Warnf("failed to publish budget update: %v", err)
	}
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

func copySnapshot(s BudgetSnapshot) BudgetSnapshot {
	out := s
	out.Expenses = make([]Expense, len(s.Expenses))
	copy(out.Expenses, s.Expenses)
	out.Savings = make([]SavingsGoal, len(s.Savings))
	copy(out.Savings, s.Savings)
	return out
}
