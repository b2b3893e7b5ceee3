package api

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/warp/billing-engine/billing"
)

// RecordingNotifier delivers overdue alerts by logging them and
// appending a row to the notification store, so operators can review
// what was sent. Due reminders are logged only.
type RecordingNotifier struct {
	Store billing.NotificationStore
	Clock billing.Clock
}

func NewRecordingNotifier(store billing.NotificationStore, clock billing.Clock) *RecordingNotifier {
	return &RecordingNotifier{Store: store, Clock: clock}
}

func (n *RecordingNotifier) OverdueAlert(ctx context.Context, alert billing.OverdueAlert) error {
	log.Printf("[Notify] OVERDUE invoice=%s due=%s: %s",
		alert.InvoiceNumber, alert.DueDate.Format("2006-01-02"), alert.Message)

	return n.Store.SaveNotification(ctx, billing.NotificationRecord{
		ID:            uuid.NewString(),
		InvoiceNumber: alert.InvoiceNumber,
		Status:        alert.Status,
		Message:       alert.Message,
		DueDate:       alert.DueDate,
		SentAt:        n.Clock.Now(),
	})
}

func (n *RecordingNotifier) DueReminder(_ context.Context, invoiceNumber string, dueDate time.Time) error {
	log.Printf("[Notify] invoice %s is not overdue yet, due %s",
		invoiceNumber, dueDate.Format("2006-01-02"))
	return nil
}

var _ billing.Notifier = (*RecordingNotifier)(nil)
