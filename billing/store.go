/*
store.go - Persistence interface for billing documents

PURPOSE:
  Defines the interface between the billing core and the database. The
  core rules themselves are persistence-free: the gate and the monitor
  operate on in-memory documents. The Store exists so the operational
  shell (API server, overdue scheduler) can keep documents across
  process restarts.

WRITE DISCIPLINE:
  Purchase orders and invoices are written once and never rewritten.
  The single mutable field in the whole model is Invoice.Status, which
  moves through UpdateInvoiceStatus. Notifications are append-only.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - billing/store/memory.go: In-memory for testing

SEE ALSO:
  - overdue.go: The status transitions recorded here
  - api/handlers.go: The main consumer
*/
package billing

import (
	"context"
	"time"
)

// Store persists billing documents. Documents are keyed by their
// document numbers.
type Store interface {
	// SavePurchaseOrder persists a new PO. Returns
	// ErrDuplicateDocumentNumber if the number is already taken.
	SavePurchaseOrder(ctx context.Context, po *PurchaseOrder) error

	// GetPurchaseOrder returns a PO by number, or ErrPONotFound.
	GetPurchaseOrder(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// ListPurchaseOrders returns all POs ordered by creation time.
	ListPurchaseOrders(ctx context.Context) ([]PurchaseOrder, error)

	// SaveInvoice persists a new invoice. Returns
	// ErrDuplicateDocumentNumber if the number is already taken.
	SaveInvoice(ctx context.Context, inv *Invoice) error

	// GetInvoice returns an invoice by number, or ErrInvoiceNotFound.
	GetInvoice(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// ListInvoices returns all invoices ordered by invoice date.
	ListInvoices(ctx context.Context) ([]Invoice, error)

	// ListInvoicesByStatus returns invoices with the given status.
	ListInvoicesByStatus(ctx context.Context, status InvoiceStatus) ([]Invoice, error)

	// UpdateInvoiceStatus records a status transition for an invoice.
	UpdateInvoiceStatus(ctx context.Context, invoiceNumber string, status InvoiceStatus) error
}

// NotificationRecord is a persisted copy of a delivered notification,
// kept so operators can see what has been sent.
type NotificationRecord struct {
	ID            string
	InvoiceNumber string
	Status        InvoiceStatus
	Message       string
	DueDate       time.Time
	SentAt        time.Time
}

// NotificationStore records delivered notifications. Append-only.
type NotificationStore interface {
	SaveNotification(ctx context.Context, n NotificationRecord) error
	ListNotifications(ctx context.Context) ([]NotificationRecord, error)
}
