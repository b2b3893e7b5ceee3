package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/docnum"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func demoPO(t *testing.T) *billing.PurchaseOrder {
	t.Helper()

	factory := billing.NewPOFactory(
		docnum.NewRandomWithSeed(1),
		billing.FixedClock{At: billing.Date(2025, time.November, 20)},
	)
	po, err := factory.CreatePO(context.Background(),
		billing.Trainer{Name: "Sharath Kumar", Email: "sharath@trainer.com", Experience: "10 Years"},
		advancedReact(),
		billing.DailyTerms(decimal.NewFromInt(8000), 40),
	)
	require.NoError(t, err)
	return po
}

func gateAt(now time.Time) *billing.IssuanceGate {
	return billing.NewIssuanceGate(docnum.NewRandomWithSeed(2), billing.FixedClock{At: now})
}

// =============================================================================
// ISSUANCE POLICY TESTS
// =============================================================================

func TestGenerateInvoice_DeniedWhileTrainingActive(t *testing.T) {
	// GIVEN: A PO for a training ending 2026-02-08
	// WHEN:  Issuance is attempted on the end date itself
	// THEN:  Denied as TRAINING_ACTIVE (end date is inclusive)
	po := demoPO(t)

	inv, err := gateAt(billing.Date(2026, time.February, 8)).GenerateInvoice(context.Background(), po)
	assert.Nil(t, inv)
	require.Error(t, err)
	assert.True(t, billing.IsDenied(err))

	var denied *billing.IssuanceDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, billing.StateTrainingActive, denied.State)
	assert.Equal(t, billing.ReasonTrainingInProgress, denied.Reason)
}

func TestGenerateInvoice_DeniedDuringGraceWindow(t *testing.T) {
	// The next-day check compares exact instants. With day-granularity
	// source dates, the window between the end-date midnight and the
	// next-day midnight is where GRACE_PENDING lives.
	po := demoPO(t)
	now := billing.Date(2026, time.February, 8).Add(15 * time.Hour)

	inv, err := gateAt(now).GenerateInvoice(context.Background(), po)
	assert.Nil(t, inv)

	var denied *billing.IssuanceDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, billing.StateGracePending, denied.State)
	assert.Equal(t, billing.ReasonGracePending, denied.Reason)
}

func TestGenerateInvoice_ExactNextDayBoundaryIssues(t *testing.T) {
	// At exactly endDate+24h the instant comparison is >= and the gate
	// issues. One second earlier it still denies.
	po := demoPO(t)
	boundary := billing.Date(2026, time.February, 9)

	inv, err := gateAt(boundary.Add(-1 * time.Second)).GenerateInvoice(context.Background(), po)
	assert.Nil(t, inv)
	assert.True(t, billing.IsDenied(err))

	inv, err = gateAt(boundary).GenerateInvoice(context.Background(), po)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, billing.InvoiceUnpaid, inv.Status)
}

func TestGenerateInvoice_Success(t *testing.T) {
	// GIVEN: The demo PO (daily 8000 x 40, training ends 2026-02-08)
	// WHEN:  Issuance runs on 2026-02-10
	// THEN:  Invoice carries the snapshot, the amount copy, and a due
	//        date exactly 30 days out (2026-03-12)
	po := demoPO(t)
	now := billing.Date(2026, time.February, 10)

	inv, err := gateAt(now).GenerateInvoice(context.Background(), po)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Regexp(t, `^[A-Z]{3}[0-9]{3}$`, inv.InvoiceNumber)
	assert.Equal(t, po.PONumber, inv.PONumber)
	assert.Equal(t, "Sharath Kumar", inv.TrainerName)
	assert.Equal(t, "Advanced React", inv.Course)
	assert.True(t, inv.Amount.Equal(decimal.NewFromInt(320000)))
	assert.True(t, inv.InvoiceDate.Equal(now))
	assert.True(t, inv.DueDate.Equal(billing.Date(2026, time.March, 12)))
	assert.Equal(t, billing.InvoiceUnpaid, inv.Status)
}

func TestGenerateInvoice_DueDateAlwaysThirtyDaysOut(t *testing.T) {
	po := demoPO(t)

	for _, now := range []time.Time{
		billing.Date(2026, time.February, 9),
		billing.Date(2026, time.March, 1),
		billing.Date(2026, time.December, 31),
	} {
		inv, err := gateAt(now).GenerateInvoice(context.Background(), po)
		require.NoError(t, err)
		assert.True(t, inv.DueDate.Equal(now.AddDate(0, 0, billing.GracePeriodDays)),
			"due date must be invoice date + 30 days at %s", now)
	}
}

func TestGenerateInvoice_NeverMutatesPO(t *testing.T) {
	po := demoPO(t)
	before := *po

	// Denied path
	_, _ = gateAt(billing.Date(2026, time.January, 1)).GenerateInvoice(context.Background(), po)
	assert.Equal(t, before, *po)

	// Success path: the PO stays ACTIVE, no transition exists for it.
	_, err := gateAt(billing.Date(2026, time.March, 1)).GenerateInvoice(context.Background(), po)
	require.NoError(t, err)
	assert.Equal(t, before, *po)
	assert.Equal(t, billing.POActive, po.Status)
}

func TestPOFactory_ComputesTotal(t *testing.T) {
	po := demoPO(t)

	assert.Regexp(t, `^[A-Z]{3}[0-9]{3}$`, po.PONumber)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(320000)),
		"daily 8000 x 40 days, got %s", po.TotalAmount)
	assert.Equal(t, billing.POActive, po.Status)
	assert.True(t, po.CreatedAt.Equal(billing.Date(2025, time.November, 20)))
}
