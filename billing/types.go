/*
Package billing implements the training-services billing core.

PURPOSE:
  Models the document lifecycle for trainer engagements: a Purchase Order
  (PO) authorizes an engagement and its payment terms, an Invoice is
  derived from the PO once the engagement ends, and the invoice is
  monitored for overdue status.

KEY CONCEPTS IN THIS FILE (types.go):
  - Trainer/Training: immutable engagement descriptors referenced by a PO
  - PaymentTerms: a closed tagged variant (hourly/daily/monthly)
  - PurchaseOrder: the authorizing document, single ACTIVE state
  - Invoice: derived document with UNPAID/PAID/OVERDUE lifecycle

DESIGN PRINCIPLES:
  1. Immutability: Trainer, Training and PurchaseOrder never change after
     creation. Only Invoice.Status transitions.
  2. Precision: Uses decimal.Decimal for all monetary amounts.
  3. Snapshots: An Invoice copies trainer name, course and amount at
     issuance time. It links back to the PO by number only, never by
     reference.
  4. Closed variants: PaymentTerms can only be built through its
     constructors, so an unrecognized payment kind cannot enter the flow.

SEE ALSO:
  - amount.go: Amount calculation from payment terms
  - po.go: PO construction
  - invoice.go: Invoice issuance policy
  - overdue.go: Overdue detection and notification
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRAINER / TRAINING - Engagement descriptors
// =============================================================================

// Trainer identifies the person delivering a training engagement.
// Immutable after creation; shared by reference from a PurchaseOrder.
type Trainer struct {
	Name       string
	Email      string
	Experience string
}

// Training describes an engagement: what is taught, for whom, and when.
// Dates are day-granularity calendar dates (midnight UTC), but all
// lifecycle comparisons against them are exact-instant.
type Training struct {
	Course    string
	Client    string
	StartDate time.Time
	EndDate   time.Time
}

// TrainingStatus is derived from the training end date, never stored.
type TrainingStatus string

const (
	TrainingInProgress TrainingStatus = "IN_PROGRESS"
	TrainingCompleted  TrainingStatus = "COMPLETED"
)

// StatusAt reports whether the training is still running at the given
// instant. The end date is inclusive: a training ending on 2026-02-08 is
// IN_PROGRESS for the whole of that day.
func (t Training) StatusAt(now time.Time) TrainingStatus {
	if !now.After(t.EndDate) {
		return TrainingInProgress
	}
	return TrainingCompleted
}

// =============================================================================
// PAYMENT TERMS - Closed tagged variant
// =============================================================================

type PaymentKind string

const (
	PaymentHourly  PaymentKind = "hourly"
	PaymentDaily   PaymentKind = "daily"
	PaymentMonthly PaymentKind = "monthly"
)

// Duration holds the billable quantity for each payment kind. Only the
// field matching the kind is consulted by the amount calculation.
type Duration struct {
	Hours  int
	Days   int
	Months int
}

// PaymentTerms couples a payment kind with its rate and duration.
// Build through HourlyTerms/DailyTerms/MonthlyTerms so the kind and the
// populated duration field always agree.
type PaymentTerms struct {
	Kind     PaymentKind
	Rate     decimal.Decimal
	Duration Duration
}

func HourlyTerms(rate decimal.Decimal, hours int) PaymentTerms {
	return PaymentTerms{Kind: PaymentHourly, Rate: rate, Duration: Duration{Hours: hours}}
}

func DailyTerms(rate decimal.Decimal, days int) PaymentTerms {
	return PaymentTerms{Kind: PaymentDaily, Rate: rate, Duration: Duration{Days: days}}
}

func MonthlyTerms(rate decimal.Decimal, months int) PaymentTerms {
	return PaymentTerms{Kind: PaymentMonthly, Rate: rate, Duration: Duration{Months: months}}
}

// Amount computes the total owed under these terms.
func (p PaymentTerms) Amount() decimal.Decimal {
	return CalculateAmount(p.Kind, p.Rate, p.Duration)
}

// =============================================================================
// PURCHASE ORDER
// =============================================================================

type POStatus string

// POActive is the only purchase order state. No transition out of it is
// defined: a PO stays ACTIVE even after an invoice has been issued
// against it. That gap is deliberate until product defines what an
// invoiced PO should become.
const POActive POStatus = "ACTIVE"

// PurchaseOrder authorizes a trainer engagement and its billing terms.
// Created once by POFactory and never mutated afterwards.
type PurchaseOrder struct {
	PONumber    string
	Trainer     Trainer
	Training    Training
	Terms       PaymentTerms
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Status      POStatus
}

// =============================================================================
// INVOICE
// =============================================================================

type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "UNPAID"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// GracePeriodDays is the fixed window between invoice date and due date.
const GracePeriodDays = 30

// Invoice is derived from a PurchaseOrder by the IssuanceGate.
// TrainerName, Course and Amount are snapshots taken at issuance time;
// PONumber is a non-owning back-link to the originating PO.
// Status is mutated only by OverdueMonitor (UNPAID -> OVERDUE) or by an
// external payment recording (-> PAID via MarkPaid).
type Invoice struct {
	InvoiceNumber string
	PONumber      string
	TrainerName   string
	Course        string
	Amount        decimal.Decimal
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        InvoiceStatus
}

// MarkPaid records an external payment against the invoice. Valid from
// both UNPAID and OVERDUE. Once PAID the overdue monitor will never
// downgrade the invoice again.
func (inv *Invoice) MarkPaid() {
	inv.Status = InvoicePaid
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// Date builds a day-granularity calendar date at midnight UTC, the form
// all training and due dates take in this system.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
