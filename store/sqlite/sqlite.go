/*
Package sqlite provides a SQLite-backed implementation of the billing
storage interfaces.

PURPOSE:
  Persists purchase orders, invoices, document number reservations and
  delivered notifications. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  billing.Store:             Purchase order and invoice persistence
  billing.NotificationStore: Delivered-notification log
  docnum.Reservations:       Collision-checked document numbers

WRITE DISCIPLINE:
  Documents are INSERTed once and never rewritten. The only UPDATE in
  this package targets invoices.status; notifications and number
  reservations are append-only.

KEY TABLES:
  purchase_orders:  One row per PO, terms flattened into columns
  invoices:         One row per invoice, snapshot fields included
  document_numbers: UNIQUE reservation table behind docnum.Registry
  notifications:    Append-only log of emitted alerts

MONEY AND DATES:
  Amounts are stored as decimal strings (never floats). Timestamps are
  stored as RFC3339 text; day-granularity dates keep their midnight-UTC
  instants intact so the issuance boundary semantics survive a reload.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/billing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - billing/store.go: Interface definitions
  - billing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/docnum"
)

// Store implements the billing storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and a ":memory:"
	// database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS purchase_orders (
		po_number TEXT PRIMARY KEY,
		trainer_name TEXT NOT NULL,
		trainer_email TEXT NOT NULL,
		trainer_experience TEXT,
		course TEXT NOT NULL,
		client TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		payment_kind TEXT NOT NULL,
		rate TEXT NOT NULL,
		duration_hours INTEGER NOT NULL DEFAULT 0,
		duration_days INTEGER NOT NULL DEFAULT 0,
		duration_months INTEGER NOT NULL DEFAULT 0,
		total_amount TEXT NOT NULL,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		invoice_number TEXT PRIMARY KEY,
		po_number TEXT NOT NULL,
		trainer_name TEXT NOT NULL,
		course TEXT NOT NULL,
		amount TEXT NOT NULL,
		invoice_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_status
		ON invoices(status);
	CREATE INDEX IF NOT EXISTS idx_invoices_po_number
		ON invoices(po_number);

	-- Document number reservations: uniqueness lives here, not in the
	-- random formatter.
	CREATE TABLE IF NOT EXISTS document_numbers (
		code TEXT PRIMARY KEY,
		reserved_at TEXT NOT NULL
	);

	-- Append-only log of delivered notifications.
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT NOT NULL,
		due_date TEXT NOT NULL,
		sent_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_invoice
		ON notifications(invoice_number);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

func (s *Store) SavePurchaseOrder(ctx context.Context, po *billing.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
	INSERT INTO purchase_orders (
		po_number, trainer_name, trainer_email, trainer_experience,
		course, client, start_date, end_date,
		payment_kind, rate, duration_hours, duration_days, duration_months,
		total_amount, created_at, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		po.PONumber, po.Trainer.Name, po.Trainer.Email, po.Trainer.Experience,
		po.Training.Course, po.Training.Client,
		po.Training.StartDate.Format(time.RFC3339), po.Training.EndDate.Format(time.RFC3339),
		string(po.Terms.Kind), po.Terms.Rate.String(),
		po.Terms.Duration.Hours, po.Terms.Duration.Days, po.Terms.Duration.Months,
		po.TotalAmount.String(), po.CreatedAt.Format(time.RFC3339), string(po.Status),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return billing.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("failed to save purchase order: %w", err)
	}
	return nil
}

func (s *Store) GetPurchaseOrder(ctx context.Context, poNumber string) (*billing.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectPOQuery + ` WHERE po_number = ?`
	rows, err := s.db.QueryContext(ctx, query, poNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase order: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, billing.ErrPONotFound
	}
	po, err := scanPurchaseOrder(rows)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (s *Store) ListPurchaseOrders(ctx context.Context) ([]billing.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectPOQuery + ` ORDER BY created_at, po_number`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []billing.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

const selectPOQuery = `
	SELECT po_number, trainer_name, trainer_email, trainer_experience,
		course, client, start_date, end_date,
		payment_kind, rate, duration_hours, duration_days, duration_months,
		total_amount, created_at, status
	FROM purchase_orders`

func scanPurchaseOrder(rows *sql.Rows) (billing.PurchaseOrder, error) {
	var po billing.PurchaseOrder
	var startDate, endDate, rate, total, createdAt, kind, status string

	err := rows.Scan(
		&po.PONumber, &po.Trainer.Name, &po.Trainer.Email, &po.Trainer.Experience,
		&po.Training.Course, &po.Training.Client, &startDate, &endDate,
		&kind, &rate,
		&po.Terms.Duration.Hours, &po.Terms.Duration.Days, &po.Terms.Duration.Months,
		&total, &createdAt, &status,
	)
	if err != nil {
		return po, fmt.Errorf("failed to scan purchase order: %w", err)
	}

	po.Terms.Kind = billing.PaymentKind(kind)
	po.Status = billing.POStatus(status)
	if po.Terms.Rate, err = parseDecimal(rate); err != nil {
		return po, fmt.Errorf("purchase order %s: %w", po.PONumber, err)
	}
	if po.TotalAmount, err = parseDecimal(total); err != nil {
		return po, fmt.Errorf("purchase order %s: %w", po.PONumber, err)
	}
	if po.Training.StartDate, err = parseTime(startDate); err != nil {
		return po, fmt.Errorf("purchase order %s: %w", po.PONumber, err)
	}
	if po.Training.EndDate, err = parseTime(endDate); err != nil {
		return po, fmt.Errorf("purchase order %s: %w", po.PONumber, err)
	}
	if po.CreatedAt, err = parseTime(createdAt); err != nil {
		return po, fmt.Errorf("purchase order %s: %w", po.PONumber, err)
	}
	return po, nil
}

// =============================================================================
// INVOICES
// =============================================================================

func (s *Store) SaveInvoice(ctx context.Context, inv *billing.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
	INSERT INTO invoices (
		invoice_number, po_number, trainer_name, course,
		amount, invoice_date, due_date, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		inv.InvoiceNumber, inv.PONumber, inv.TrainerName, inv.Course,
		inv.Amount.String(),
		inv.InvoiceDate.Format(time.RFC3339), inv.DueDate.Format(time.RFC3339),
		string(inv.Status),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return billing.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectInvoiceQuery + ` WHERE invoice_number = ?`
	rows, err := s.db.QueryContext(ctx, query, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, billing.ErrInvoiceNotFound
	}
	inv, err := scanInvoice(rows)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]billing.Invoice, error) {
	return s.queryInvoices(ctx, selectInvoiceQuery+` ORDER BY invoice_date, invoice_number`)
}

func (s *Store) ListInvoicesByStatus(ctx context.Context, status billing.InvoiceStatus) ([]billing.Invoice, error) {
	return s.queryInvoices(ctx,
		selectInvoiceQuery+` WHERE status = ? ORDER BY invoice_date, invoice_number`,
		string(status))
}

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]billing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []billing.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

const selectInvoiceQuery = `
	SELECT invoice_number, po_number, trainer_name, course,
		amount, invoice_date, due_date, status
	FROM invoices`

func scanInvoice(rows *sql.Rows) (billing.Invoice, error) {
	var inv billing.Invoice
	var amount, invoiceDate, dueDate, status string

	err := rows.Scan(
		&inv.InvoiceNumber, &inv.PONumber, &inv.TrainerName, &inv.Course,
		&amount, &invoiceDate, &dueDate, &status,
	)
	if err != nil {
		return inv, fmt.Errorf("failed to scan invoice: %w", err)
	}

	inv.Status = billing.InvoiceStatus(status)
	if inv.Amount, err = parseDecimal(amount); err != nil {
		return inv, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}
	if inv.InvoiceDate, err = parseTime(invoiceDate); err != nil {
		return inv, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}
	if inv.DueDate, err = parseTime(dueDate); err != nil {
		return inv, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}
	return inv, nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, invoiceNumber string, status billing.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE invoice_number = ?`,
		string(status), invoiceNumber)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return billing.ErrInvoiceNotFound
	}
	return nil
}

// =============================================================================
// DOCUMENT NUMBER RESERVATIONS
// =============================================================================

// Reserve claims a document number. Returns false when the code is
// already taken.
func (s *Store) Reserve(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO document_numbers (code, reserved_at) VALUES (?, ?)`,
		code, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to reserve document number: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (s *Store) SaveNotification(ctx context.Context, n billing.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO notifications (id, invoice_number, status, message, due_date, sent_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.InvoiceNumber, string(n.Status), n.Message,
		n.DueDate.Format(time.RFC3339), n.SentAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context) ([]billing.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, invoice_number, status, message, due_date, sent_at
	FROM notifications ORDER BY sent_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []billing.NotificationRecord
	for rows.Next() {
		var n billing.NotificationRecord
		var status, dueDate, sentAt string
		if err := rows.Scan(&n.ID, &n.InvoiceNumber, &status, &n.Message, &dueDate, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Status = billing.InvoiceStatus(status)
		if n.DueDate, err = parseTime(dueDate); err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		if n.SentAt, err = parseTime(sentAt); err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		records = append(records, n)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt decimal value %q: %w", s, err)
	}
	return d, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Interface checks
var (
	_ billing.Store             = (*Store)(nil)
	_ billing.NotificationStore = (*Store)(nil)
	_ docnum.Reservations       = (*Store)(nil)
)
