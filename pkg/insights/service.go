package insights

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zenbudget/zenbudget/internal/event_bus"
	"github.com/zenbudget/zenbudget/internal/utils"
	"github.com/zenbudget/zenbudget/pkg/budget"
)

// TotalsProvider supplies the totals an advisory request is built from, read
// at invocation time so the request never blocks store mutations.
type TotalsProvider func(ctx context.Context) (budget.Totals, budget.PayFrequency)

type Service interface {
	Current() Insight
	Refresh(ctx context.Context) Insight
}

// ServiceImpl keeps the latest advisory text. Budget updates schedule a
// debounced refresh; requests carry a monotonic sequence number and a
// response only installs while its request is still the newest one applied
// (last-request-wins). No failure here ever propagates to the caller.
type ServiceImpl struct {
	client   Client
	totals   TotalsProvider
	clock    utils.Clock
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	seq         uint64
	applied     uint64
	latest      Insight
	unsubscribe func()
}

func NewService(client Client, totals TotalsProvider, bus *event_bus.EventBus, clock utils.Clock, debounce time.Duration) *ServiceImpl {
	s := &ServiceImpl{
		client:   client,
		totals:   totals,
		clock:    clock,
		debounce: debounce,
		latest:   Insight{Text: PlaceholderText},
	}
	if bus != nil {
		s.unsubscribe = bus.Subscribe(event_bus.EventBudgetUpdated, func(e event_bus.Event) error {
			if data, ok := e.Data.(event_bus.BudgetUpdated); ok {
				log.Debugf("budget updated (balance %.2f), scheduling insight refresh", data.Balance)
			}
			s.scheduleRefresh()
			return nil
		})
	}
	return s
}

// scheduleRefresh arms the debounce timer, restarting it when an earlier
// update is still pending so a burst of mutations yields a single request.
func (s *ServiceImpl) scheduleRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.Refresh(context.Background())
	})
}

func (s *ServiceImpl) Current() Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Refresh requests fresh advisory text and returns the insight that is
// current afterwards, which may belong to a newer concurrent request.
func (s *ServiceImpl) Refresh(ctx context.Context) Insight {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	totals, frequency := s.totals(ctx)
	if totals.Income == 0 {
		log.Debug("income is zero, skipping insight refresh")
		return s.Current()
	}

	text, err := s.client.GenerateAdvice(ctx, BuildPrompt(totals, frequency))
	if err != nil {
		log.Warnf("advisory request failed: %v", err)
		text = FallbackText
	} else if strings.TrimSpace(text) == "" {
		text = EmptyResponseText
	} else {
		text = Sanitize(text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.applied {
		s.applied = seq
		s.latest = Insight{Text: text, GeneratedAt: s.clock.Now()}
	} else {
		log.Debugf("discarding stale advisory response for request %d", seq)
	}
	return s.latest
}

// Close stops the pending refresh and detaches from the event bus.
func (s *ServiceImpl) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
