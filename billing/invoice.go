/*
invoice.go - Invoice issuance policy

PURPOSE:
  The IssuanceGate is the system's primary decision point: whether a
  purchase order may yield an invoice at a given instant. The policy has
  three states over the relationship between "now" and the training end:

  TRAINING_ACTIVE   now <= endDate              deny (engagement running)
  GRACE_PENDING     endDate < now < endDate+24h deny (not next day yet)
  ISSUABLE          now >= endDate+24h          issue

BOUNDARY SEMANTICS:
  The comparisons are against exact timestamps, not calendar days.
  Source dates sit at midnight UTC, so a check at the end-date midnight
  instant denies as TRAINING_ACTIVE, any later instant on the end day
  denies as GRACE_PENDING, and at exactly endDate+24h the gate issues.
  GRACE_PENDING is only observable when "now" carries sub-day
  precision.

DENIAL IS NOT A FAULT:
  A denied issuance returns an IssuanceDeniedError carrying the state
  and an advisory reason. Callers surface the reason and move on; they
  must not retry automatically.

NO PO TRANSITION:
  Issuing an invoice does not touch the purchase order. The PO remains
  ACTIVE whether issuance succeeds or not.

SEE ALSO:
  - overdue.go: What happens after the due date passes
  - errors.go: IssuanceDeniedError and the ErrIssuanceDenied sentinel
*/
package billing

import (
	"context"
	"fmt"

	"github.com/warp/billing-engine/docnum"
)

// Advisory reasons returned with denials.
const (
	ReasonTrainingInProgress = "Training is in progress. Invoice cannot be raised."
	ReasonGracePending       = "Invoice can be raised only from the next day after training end."
)

// IssuanceGate decides whether a PO may yield an invoice and builds it.
type IssuanceGate struct {
	Numbers docnum.Generator
	Clock   Clock
}

func NewIssuanceGate(numbers docnum.Generator, clock Clock) *IssuanceGate {
	return &IssuanceGate{Numbers: numbers, Clock: clock}
}

// GenerateInvoice evaluates the issuance policy for the PO at the
// clock's current instant. On success it returns a fresh UNPAID invoice
// with a 30-day due date; on denial it returns an IssuanceDeniedError
// (unwrap to ErrIssuanceDenied). The PO itself is never modified.
func (g *IssuanceGate) GenerateInvoice(ctx context.Context, po *PurchaseOrder) (*Invoice, error) {
	now := g.Clock.Now()
	endDate := po.Training.EndDate
	nextDay := endDate.AddDate(0, 0, 1)

	// Training still running; end date is inclusive.
	if !now.After(endDate) {
		return nil, &IssuanceDeniedError{
			PONumber: po.PONumber,
			State:    StateTrainingActive,
			Reason:   ReasonTrainingInProgress,
			EndDate:  endDate,
			Now:      now,
		}
	}

	// Training ended but the next-day instant has not been reached.
	if now.Before(nextDay) {
		return nil, &IssuanceDeniedError{
			PONumber: po.PONumber,
			State:    StateGracePending,
			Reason:   ReasonGracePending,
			EndDate:  endDate,
			Now:      now,
		}
	}

	number, err := g.Numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	return &Invoice{
		InvoiceNumber: number,
		PONumber:      po.PONumber,
		TrainerName:   po.Trainer.Name,
		Course:        po.Training.Course,
		Amount:        po.TotalAmount,
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, GracePeriodDays),
		Status:        InvoiceUnpaid,
	}, nil
}
