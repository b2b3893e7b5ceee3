/*
overdue.go - Overdue detection and notification

PURPOSE:
  The OverdueMonitor inspects an invoice against the current instant and
  transitions it to OVERDUE when the due date has passed. It is a small
  state machine over Invoice.Status:

    now > dueDate, status != PAID  -> status = OVERDUE, emit one alert
    now > dueDate, status == PAID  -> nothing (PAID is terminal here)
    now <= dueDate                 -> no transition, due reminder only

SHARED OWNERSHIP:
  The monitor mutates the *Invoice in place. Callers holding the same
  pointer observe the updated status immediately. Exactly one context
  owns the invoice for the duration of a check.

RE-EMISSION:
  Re-running a check on an already-OVERDUE invoice emits the alert
  again. There is no dedup guard; downstream sinks that need
  once-per-invoice delivery must dedup themselves.

SEE ALSO:
  - invoice.go: How invoices come to exist
  - api/scheduler.go: Periodic sweep over all non-PAID invoices
*/
package billing

import (
	"context"
	"fmt"
	"log"
	"time"
)

// OverdueAdvisory is the fixed message attached to every overdue alert.
const OverdueAdvisory = "Invoice is pending for more than 30 days. Please pay immediately."

// =============================================================================
// NOTIFIER - Operator-facing notification sink
// =============================================================================

// OverdueAlert is the structured payload delivered when an invoice
// crosses its due date.
type OverdueAlert struct {
	InvoiceNumber string
	Status        InvoiceStatus
	DueDate       time.Time
	Message       string
}

// Notifier delivers billing notifications to an operator-facing channel
// (a log, an email service, a dashboard). One-way: no delivery
// confirmation or retry is modeled.
type Notifier interface {
	// OverdueAlert delivers an overdue notification.
	OverdueAlert(ctx context.Context, alert OverdueAlert) error

	// DueReminder reports that an invoice is not overdue yet, including
	// when it will be.
	DueReminder(ctx context.Context, invoiceNumber string, dueDate time.Time) error
}

// LogNotifier writes notifications to the process log. The zero value
// is usable: a nil Printf falls back to the standard logger.
type LogNotifier struct {
	Printf func(format string, args ...any)
}

func (n *LogNotifier) printf(format string, args ...any) {
	if n.Printf != nil {
		n.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (n *LogNotifier) OverdueAlert(_ context.Context, alert OverdueAlert) error {
	n.printf("[Notify] OVERDUE invoice=%s due=%s: %s",
		alert.InvoiceNumber, alert.DueDate.Format("2006-01-02"), alert.Message)
	return nil
}

func (n *LogNotifier) DueReminder(_ context.Context, invoiceNumber string, dueDate time.Time) error {
	n.printf("[Notify] invoice %s is not overdue yet, due %s",
		invoiceNumber, dueDate.Format("2006-01-02"))
	return nil
}

// =============================================================================
// OVERDUE MONITOR
// =============================================================================

// CheckResult summarizes the outcome of an overdue check.
type CheckResult struct {
	InvoiceNumber string
	Status        InvoiceStatus
	DueDate       time.Time
	Transitioned  bool
	Notified      bool
}

// OverdueMonitor transitions invoices past their due date to OVERDUE and
// emits notifications through the injected sink.
type OverdueMonitor struct {
	Clock    Clock
	Notifier Notifier
}

// NewOverdueMonitor builds a monitor over the given sink. A nil
// notifier defaults to a LogNotifier.
func NewOverdueMonitor(clock Clock, notifier Notifier) *OverdueMonitor {
	if notifier == nil {
		notifier = &LogNotifier{}
	}
	return &OverdueMonitor{Clock: clock, Notifier: notifier}
}

// Check evaluates the invoice against the clock's current instant,
// mutating it in place when it transitions. A PAID invoice is never
// downgraded, regardless of how far past due it is.
func (m *OverdueMonitor) Check(ctx context.Context, inv *Invoice) (CheckResult, error) {
	now := m.Clock.Now()
	result := CheckResult{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		DueDate:       inv.DueDate,
	}

	if !now.After(inv.DueDate) {
		if err := m.Notifier.DueReminder(ctx, inv.InvoiceNumber, inv.DueDate); err != nil {
			return result, fmt.Errorf("failed to report due status: %w", err)
		}
		return result, nil
	}

	if inv.Status == InvoicePaid {
		return result, nil
	}

	result.Transitioned = inv.Status != InvoiceOverdue
	inv.Status = InvoiceOverdue
	result.Status = InvoiceOverdue

	alert := OverdueAlert{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        InvoiceOverdue,
		DueDate:       inv.DueDate,
		Message:       OverdueAdvisory,
	}
	if err := m.Notifier.OverdueAlert(ctx, alert); err != nil {
		return result, fmt.Errorf("failed to deliver overdue alert: %w", err)
	}
	result.Notified = true

	return result, nil
}
