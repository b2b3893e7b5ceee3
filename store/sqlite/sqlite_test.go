package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPO(number string) *billing.PurchaseOrder {
	return &billing.PurchaseOrder{
		PONumber: number,
		Trainer:  billing.Trainer{Name: "Sharath Kumar", Email: "sharath@trainer.com", Experience: "10 Years"},
		Training: billing.Training{
			Course:    "Advanced React",
			Client:    "UST Global",
			StartDate: billing.Date(2025, time.December, 1),
			EndDate:   billing.Date(2026, time.February, 8),
		},
		Terms:       billing.DailyTerms(decimal.NewFromInt(8000), 40),
		TotalAmount: decimal.NewFromInt(320000),
		CreatedAt:   billing.Date(2025, time.November, 20),
		Status:      billing.POActive,
	}
}

func testInvoice(number string, invoiceDate time.Time) *billing.Invoice {
	return &billing.Invoice{
		InvoiceNumber: number,
		PONumber:      "ABC123",
		TrainerName:   "Sharath Kumar",
		Course:        "Advanced React",
		Amount:        decimal.NewFromInt(320000),
		InvoiceDate:   invoiceDate,
		DueDate:       invoiceDate.AddDate(0, 0, billing.GracePeriodDays),
		Status:        billing.InvoiceUnpaid,
	}
}

// =============================================================================
// PURCHASE ORDER PERSISTENCE
// =============================================================================

func TestSQLite_PurchaseOrderRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	po := testPO("ABC123")
	require.NoError(t, store.SavePurchaseOrder(ctx, po))

	got, err := store.GetPurchaseOrder(ctx, "ABC123")
	require.NoError(t, err)

	assert.Equal(t, po.PONumber, got.PONumber)
	assert.Equal(t, po.Trainer, got.Trainer)
	assert.Equal(t, po.Training.Course, got.Training.Course)
	assert.Equal(t, po.Training.Client, got.Training.Client)
	// Date instants must survive the roundtrip exactly: the issuance
	// boundary is an instant comparison.
	assert.True(t, got.Training.EndDate.Equal(po.Training.EndDate))
	assert.True(t, got.Training.StartDate.Equal(po.Training.StartDate))
	assert.Equal(t, billing.PaymentDaily, got.Terms.Kind)
	assert.True(t, got.Terms.Rate.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, 40, got.Terms.Duration.Days)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(320000)))
	assert.Equal(t, billing.POActive, got.Status)
}

func TestSQLite_DuplicatePONumberRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePurchaseOrder(ctx, testPO("ABC123")))
	err := store.SavePurchaseOrder(ctx, testPO("ABC123"))
	assert.ErrorIs(t, err, billing.ErrDuplicateDocumentNumber)
}

func TestSQLite_MissingDocumentsNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetPurchaseOrder(ctx, "XYZ999")
	assert.ErrorIs(t, err, billing.ErrPONotFound)

	_, err = store.GetInvoice(ctx, "XYZ999")
	assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
}

// =============================================================================
// INVOICE PERSISTENCE
// =============================================================================

func TestSQLite_InvoiceRoundtripAndStatusUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inv := testInvoice("INV001", billing.Date(2026, time.February, 10))
	require.NoError(t, store.SaveInvoice(ctx, inv))

	got, err := store.GetInvoice(ctx, "INV001")
	require.NoError(t, err)
	assert.Equal(t, inv.PONumber, got.PONumber)
	assert.True(t, got.DueDate.Equal(billing.Date(2026, time.March, 12)))
	assert.Equal(t, billing.InvoiceUnpaid, got.Status)

	require.NoError(t, store.UpdateInvoiceStatus(ctx, "INV001", billing.InvoiceOverdue))

	got, err = store.GetInvoice(ctx, "INV001")
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceOverdue, got.Status)

	err = store.UpdateInvoiceStatus(ctx, "INV999", billing.InvoicePaid)
	assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
}

func TestSQLite_ListInvoicesByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testInvoice("INV001", billing.Date(2026, time.February, 10))
	b := testInvoice("INV002", billing.Date(2026, time.February, 11))
	require.NoError(t, store.SaveInvoice(ctx, a))
	require.NoError(t, store.SaveInvoice(ctx, b))
	require.NoError(t, store.UpdateInvoiceStatus(ctx, "INV002", billing.InvoicePaid))

	unpaid, err := store.ListInvoicesByStatus(ctx, billing.InvoiceUnpaid)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "INV001", unpaid[0].InvoiceNumber)

	all, err := store.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// =============================================================================
// NUMBER RESERVATIONS & NOTIFICATIONS
// =============================================================================

func TestSQLite_ReserveDocumentNumber(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, ok, "second reservation of the same code must fail")

	ok, err = store.Reserve(ctx, "ABC124")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_NotificationLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := billing.NotificationRecord{
		ID:            "n-1",
		InvoiceNumber: "INV001",
		Status:        billing.InvoiceOverdue,
		Message:       billing.OverdueAdvisory,
		DueDate:       billing.Date(2025, time.January, 1),
		SentAt:        billing.Date(2025, time.February, 1),
	}
	require.NoError(t, store.SaveNotification(ctx, n))

	records, err := store.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, n.ID, records[0].ID)
	assert.Equal(t, n.Message, records[0].Message)
	assert.True(t, records[0].DueDate.Equal(n.DueDate))
}
