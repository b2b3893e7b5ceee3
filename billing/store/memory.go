// Package store provides billing.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/billing-engine/billing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	orders        map[string]billing.PurchaseOrder
	invoices      map[string]billing.Invoice
	notifications []billing.NotificationRecord
}

func NewMemory() *Memory {
	return &Memory{
		orders:   make(map[string]billing.PurchaseOrder),
		invoices: make(map[string]billing.Invoice),
	}
}

func (m *Memory) SavePurchaseOrder(_ context.Context, po *billing.PurchaseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[po.PONumber]; ok {
		return billing.ErrDuplicateDocumentNumber
	}
	m.orders[po.PONumber] = *po
	return nil
}

func (m *Memory) GetPurchaseOrder(_ context.Context, poNumber string) (*billing.PurchaseOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	po, ok := m.orders[poNumber]
	if !ok {
		return nil, billing.ErrPONotFound
	}
	return &po, nil
}

func (m *Memory) ListPurchaseOrders(_ context.Context) ([]billing.PurchaseOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]billing.PurchaseOrder, 0, len(m.orders))
	for _, po := range m.orders {
		orders = append(orders, po)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].PONumber < orders[j].PONumber
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *Memory) SaveInvoice(_ context.Context, inv *billing.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.InvoiceNumber]; ok {
		return billing.ErrDuplicateDocumentNumber
	}
	m.invoices[inv.InvoiceNumber] = *inv
	return nil
}

func (m *Memory) GetInvoice(_ context.Context, invoiceNumber string) (*billing.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[invoiceNumber]
	if !ok {
		return nil, billing.ErrInvoiceNotFound
	}
	return &inv, nil
}

func (m *Memory) ListInvoices(_ context.Context) ([]billing.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(billing.Invoice) bool { return true }), nil
}

func (m *Memory) ListInvoicesByStatus(_ context.Context, status billing.InvoiceStatus) ([]billing.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(inv billing.Invoice) bool { return inv.Status == status }), nil
}

func (m *Memory) listLocked(keep func(billing.Invoice) bool) []billing.Invoice {
	invoices := make([]billing.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		if keep(inv) {
			invoices = append(invoices, inv)
		}
	}
	sort.Slice(invoices, func(i, j int) bool {
		if invoices[i].InvoiceDate.Equal(invoices[j].InvoiceDate) {
			return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber
		}
		return invoices[i].InvoiceDate.Before(invoices[j].InvoiceDate)
	})
	return invoices
}

func (m *Memory) UpdateInvoiceStatus(_ context.Context, invoiceNumber string, status billing.InvoiceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[invoiceNumber]
	if !ok {
		return billing.ErrInvoiceNotFound
	}
	inv.Status = status
	m.invoices[invoiceNumber] = inv
	return nil
}

func (m *Memory) SaveNotification(_ context.Context, n billing.NotificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *Memory) ListNotifications(_ context.Context) ([]billing.NotificationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.NotificationRecord, len(m.notifications))
	copy(out, m.notifications)
	return out, nil
}

// Interface checks
var (
	_ billing.Store             = (*Memory)(nil)
	_ billing.NotificationStore = (*Memory)(nil)
)
