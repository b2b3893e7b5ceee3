/*
errors.go - Centralized error types for the billing core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Outer layers (api, stores) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Policy denials - the issuance gate declining to issue. A denial is a
     normal outcome with an advisory reason, not a failure; callers must
     treat "no invoice" as valid and must not retry.
  2. Not-found errors - missing documents.
  3. Collaborator errors - document number generation failures.

USAGE:
  inv, err := gate.GenerateInvoice(po)
  if billing.IsDenied(err) {
      // expected: training not finished yet
  }
*/
package billing

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrIssuanceDenied is the sentinel under every IssuanceDeniedError.
	// Denial is an expected outcome, never a fault.
	ErrIssuanceDenied = errors.New("invoice issuance denied")

	// ErrPONotFound is returned when a referenced purchase order doesn't exist.
	ErrPONotFound = errors.New("purchase order not found")

	// ErrInvoiceNotFound is returned when a referenced invoice doesn't exist.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrDuplicateDocumentNumber is returned when a store is asked to save
	// a document under a number that already exists.
	ErrDuplicateDocumentNumber = errors.New("duplicate document number")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IssuanceState names the gate's position relative to the training end.
type IssuanceState string

const (
	// StateTrainingActive: now <= endDate, the engagement is still running.
	StateTrainingActive IssuanceState = "TRAINING_ACTIVE"
	// StateGracePending: the training ended but the next-day instant has
	// not been reached yet. Reachable only with sub-day precision, since
	// source dates sit at midnight.
	StateGracePending IssuanceState = "GRACE_PENDING"
)

// IssuanceDeniedError explains why the gate declined to issue.
type IssuanceDeniedError struct {
	PONumber string
	State    IssuanceState
	Reason   string
	EndDate  time.Time
	Now      time.Time
}

func (e *IssuanceDeniedError) Error() string {
	return fmt.Sprintf("invoice denied for PO %s (%s): %s", e.PONumber, e.State, e.Reason)
}

func (e *IssuanceDeniedError) Unwrap() error {
	return ErrIssuanceDenied
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDenied returns true if the error is an issuance denial. Denials are
// normal outcomes; callers should surface the reason, not retry.
func IsDenied(err error) bool {
	return errors.Is(err, ErrIssuanceDenied)
}

// IsNotFound returns true if the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPONotFound) || errors.Is(err, ErrInvoiceNotFound)
}
