package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/billing/store"
)

func samplePO(number string, createdAt time.Time) *billing.PurchaseOrder {
	return &billing.PurchaseOrder{
		PONumber: number,
		Trainer:  billing.Trainer{Name: "Sharath Kumar", Email: "sharath@trainer.com"},
		Training: billing.Training{
			Course:    "Advanced React",
			Client:    "UST Global",
			StartDate: billing.Date(2025, time.December, 1),
			EndDate:   billing.Date(2026, time.February, 8),
		},
		Terms:       billing.DailyTerms(decimal.NewFromInt(8000), 40),
		TotalAmount: decimal.NewFromInt(320000),
		CreatedAt:   createdAt,
		Status:      billing.POActive,
	}
}

func sampleInvoice(number string, invoiceDate time.Time) *billing.Invoice {
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

func TestMemory_PurchaseOrderRoundtrip(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	po := samplePO("ABC123", billing.Date(2025, time.November, 20))
	require.NoError(t, m.SavePurchaseOrder(ctx, po))

	got, err := m.GetPurchaseOrder(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, *po, *got)

	_, err = m.GetPurchaseOrder(ctx, "XYZ999")
	assert.ErrorIs(t, err, billing.ErrPONotFound)
}

func TestMemory_DuplicateNumberRejected(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SavePurchaseOrder(ctx, samplePO("ABC123", billing.Date(2025, time.November, 20))))
	err := m.SavePurchaseOrder(ctx, samplePO("ABC123", billing.Date(2025, time.November, 21)))
	assert.ErrorIs(t, err, billing.ErrDuplicateDocumentNumber)

	require.NoError(t, m.SaveInvoice(ctx, sampleInvoice("INV001", billing.Date(2026, time.February, 10))))
	err = m.SaveInvoice(ctx, sampleInvoice("INV001", billing.Date(2026, time.February, 11)))
	assert.ErrorIs(t, err, billing.ErrDuplicateDocumentNumber)
}

func TestMemory_ListOrdering(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SavePurchaseOrder(ctx, samplePO("BBB222", billing.Date(2025, time.November, 25))))
	require.NoError(t, m.SavePurchaseOrder(ctx, samplePO("AAA111", billing.Date(2025, time.November, 20))))

	orders, err := m.ListPurchaseOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "AAA111", orders[0].PONumber)
	assert.Equal(t, "BBB222", orders[1].PONumber)
}

func TestMemory_InvoiceStatusUpdate(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveInvoice(ctx, sampleInvoice("INV001", billing.Date(2026, time.February, 10))))
	require.NoError(t, m.UpdateInvoiceStatus(ctx, "INV001", billing.InvoiceOverdue))

	got, err := m.GetInvoice(ctx, "INV001")
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceOverdue, got.Status)

	overdue, err := m.ListInvoicesByStatus(ctx, billing.InvoiceOverdue)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	unpaid, err := m.ListInvoicesByStatus(ctx, billing.InvoiceUnpaid)
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	err = m.UpdateInvoiceStatus(ctx, "INV999", billing.InvoicePaid)
	assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
}

func TestMemory_Notifications(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	n := billing.NotificationRecord{
		ID:            "n-1",
		InvoiceNumber: "INV001",
		Status:        billing.InvoiceOverdue,
		Message:       billing.OverdueAdvisory,
		DueDate:       billing.Date(2025, time.January, 1),
		SentAt:        billing.Date(2025, time.February, 1),
	}
	require.NoError(t, m.SaveNotification(ctx, n))

	records, err := m.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, n, records[0])
}
