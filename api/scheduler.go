/*
scheduler.go - Automated overdue sweep

PURPOSE:
  Periodically runs the overdue monitor across every non-PAID invoice
  and persists any status transition.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips PAID invoices entirely (the monitor would too, but there is
    no point loading them)
  - Already-OVERDUE invoices are re-checked and re-alerted: the monitor
    keeps its no-dedup behavior, and the sweep does not second-guess it

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewOverdueScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CheckOverdue endpoint (manual check)
  - billing/overdue.go: The state machine being driven
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/billing-engine/billing"
)

// OverdueScheduler handles automated overdue detection.
type OverdueScheduler struct {
	Store         billing.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewOverdueScheduler creates a new scheduler.
func NewOverdueScheduler(store billing.Store, handler *Handler) *OverdueScheduler {
	return &OverdueScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (s *OverdueScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run()

	log.Printf("[Scheduler] Started with check interval: %v", s.CheckInterval)
}

// Stop stops the scheduler.
func (s *OverdueScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (s *OverdueScheduler) run() {
	defer s.wg.Done()

	// Sweep once immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.Sweep(context.Background())
		case <-s.stop:
			return
		}
	}
}

// Sweep runs the overdue monitor over every non-PAID invoice, persisting
// transitions. Returns how many invoices transitioned to OVERDUE.
func (s *OverdueScheduler) Sweep(ctx context.Context) int {
	monitor := billing.NewOverdueMonitor(s.Handler.Clock, s.Handler.Notifier)

	// Snapshot both lists before checking so an invoice that transitions
	// during this sweep is not picked up a second time by the same sweep.
	var pending []billing.Invoice
	for _, status := range []billing.InvoiceStatus{billing.InvoiceUnpaid, billing.InvoiceOverdue} {
		invoices, err := s.Store.ListInvoicesByStatus(ctx, status)
		if err != nil {
			log.Printf("[Scheduler] Failed to list %s invoices: %v", status, err)
			continue
		}
		pending = append(pending, invoices...)
	}

	transitioned := 0
	for i := range pending {
		inv := &pending[i]
		result, err := monitor.Check(ctx, inv)
		if err != nil {
			log.Printf("[Scheduler] Check failed for invoice %s: %v", inv.InvoiceNumber, err)
			continue
		}
		if result.Transitioned {
			if err := s.Store.UpdateInvoiceStatus(ctx, inv.InvoiceNumber, inv.Status); err != nil {
				log.Printf("[Scheduler] Failed to persist status for invoice %s: %v", inv.InvoiceNumber, err)
				continue
			}
			transitioned++
		}
	}

	if transitioned > 0 {
		log.Printf("[Scheduler] Sweep complete: %d invoice(s) transitioned to OVERDUE", transitioned)
	}
	return transitioned
}
