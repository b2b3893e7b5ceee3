package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Corrupt stored values must surface as scan errors, never collapse to
// zero amounts or zero times.
func TestScanRejectsCorruptStoredValues(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	_, err = store.db.Exec(`
	INSERT INTO invoices (invoice_number, po_number, trainer_name, course,
		amount, invoice_date, due_date, status)
	VALUES ('INV001', 'ABC123', 'Sharath Kumar', 'Advanced React',
		'not-a-number', '2026-02-10T00:00:00Z', '2026-03-12T00:00:00Z', 'UNPAID')`)
	require.NoError(t, err)

	_, err = store.GetInvoice(ctx, "INV001")
	assert.ErrorContains(t, err, "corrupt decimal value")

	_, err = store.db.Exec(`
	UPDATE invoices SET amount = '320000', due_date = 'someday' WHERE invoice_number = 'INV001'`)
	require.NoError(t, err)

	_, err = store.GetInvoice(ctx, "INV001")
	assert.ErrorContains(t, err, "corrupt timestamp")

	_, err = store.db.Exec(`
	INSERT INTO purchase_orders (po_number, trainer_name, trainer_email, trainer_experience,
		course, client, start_date, end_date, payment_kind, rate,
		duration_hours, duration_days, duration_months, total_amount, created_at, status)
	VALUES ('XYZ001', 'Sharath Kumar', 'sharath@trainer.com', '10 Years',
		'Advanced React', 'UST Global', 'not-a-date', '2026-02-08T00:00:00Z', 'daily', '8000',
		0, 40, 0, '320000', '2025-11-20T00:00:00Z', 'ACTIVE')`)
	require.NoError(t, err)

	_, err = store.GetPurchaseOrder(ctx, "XYZ001")
	assert.ErrorContains(t, err, "corrupt timestamp")
}
