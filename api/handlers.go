/*
handlers.go - HTTP API handlers for the billing engine

PURPOSE:
  Exposes the billing lifecycle via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the domain
  logic in the billing package.

ENDPOINTS:
  Purchase orders:
    GET  /api/purchase-orders                          List POs
    POST /api/purchase-orders                          Create PO
    GET  /api/purchase-orders/{poNumber}               Get PO
    GET  /api/purchase-orders/{poNumber}/training-status
    POST /api/purchase-orders/{poNumber}/invoice       Attempt issuance

  Invoices:
    GET  /api/invoices                                 List invoices
    GET  /api/invoices/{number}                        Get invoice
    POST /api/invoices/{number}/overdue-check          Run overdue monitor
    POST /api/invoices/{number}/payment                Record payment

  Notifications:
    GET  /api/notifications                            Delivered alerts

  Scenarios:
    POST /api/scenarios/demo                           Load demo dataset

TIME:
  Handlers evaluate time through the injected Clock. Endpoints with
  temporal decisions accept an optional as_of=YYYY-MM-DD query parameter
  so demos and exploratory clients can evaluate the policy at an
  arbitrary instant.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Document not found
  - 409: Duplicate document number
  - 500: Internal errors
  An issuance DENIAL is not an error: it returns 200 with issued=false
  and the advisory reason.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Background overdue sweep
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/billing-engine/billing"
	"github.com/warp/billing-engine/docnum"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         billing.Store
	Notifications billing.NotificationStore
	Numbers       docnum.Generator
	Clock         billing.Clock
	Notifier      billing.Notifier
}

// NewHandler wires a handler over the given store. The same store value
// may implement the notification log and the number reservations; pass
// it for each role it plays.
func NewHandler(store billing.Store, notifications billing.NotificationStore, numbers docnum.Generator, clock billing.Clock) *Handler {
	h := &Handler{
		Store:         store,
		Notifications: notifications,
		Numbers:       numbers,
		Clock:         clock,
	}
	h.Notifier = NewRecordingNotifier(notifications, clock)
	return h
}

// clockFor returns the clock to evaluate a request with: the injected
// clock, or a fixed one when the client supplied as_of.
func (h *Handler) clockFor(r *http.Request) (billing.Clock, error) {
	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		return h.Clock, nil
	}
	if t, err := time.Parse(dateLayout, asOf); err == nil {
		return billing.FixedClock{At: t}, nil
	}
	t, err := time.Parse(time.RFC3339, asOf)
	if err != nil {
		return nil, err
	}
	return billing.FixedClock{At: t.UTC()}, nil
}

// =============================================================================
// PURCHASE ORDER HANDLERS
// =============================================================================

// ListPurchaseOrders returns all purchase orders.
func (h *Handler) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListPurchaseOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list purchase orders", err)
		return
	}

	dtos := make([]PurchaseOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = toPurchaseOrderDTO(&orders[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPurchaseOrder returns a single purchase order.
func (h *Handler) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poNumber := chi.URLParam(r, "poNumber")

	po, err := h.Store.GetPurchaseOrder(r.Context(), poNumber)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Purchase order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get purchase order", err)
		return
	}

	writeJSON(w, http.StatusOK, toPurchaseOrderDTO(po))
}

// CreatePurchaseOrder builds and persists a new purchase order.
func (h *Handler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req CreatePORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.Training.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	endDate, err := time.Parse(dateLayout, req.Training.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	terms, err := termsFromDTO(req.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment terms", err)
		return
	}

	factory := billing.NewPOFactory(h.Numbers, h.Clock)
	po, err := factory.CreatePO(r.Context(),
		billing.Trainer{
			Name:       req.Trainer.Name,
			Email:      req.Trainer.Email,
			Experience: req.Trainer.Experience,
		},
		billing.Training{
			Course:    req.Training.Course,
			Client:    req.Training.Client,
			StartDate: startDate,
			EndDate:   endDate,
		},
		terms,
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create purchase order", err)
		return
	}

	if err := h.Store.SavePurchaseOrder(r.Context(), po); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrDuplicateDocumentNumber) {
			status = http.StatusConflict
		}
		writeError(w, status, "Failed to save purchase order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPurchaseOrderDTO(po))
}

// GetTrainingStatus reports the derived IN_PROGRESS/COMPLETED status of
// the PO's training. Informational only; issuance decisions re-derive
// the same comparison independently.
func (h *Handler) GetTrainingStatus(w http.ResponseWriter, r *http.Request) {
	poNumber := chi.URLParam(r, "poNumber")

	po, err := h.Store.GetPurchaseOrder(r.Context(), poNumber)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Purchase order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get purchase order", err)
		return
	}

	clock, err := h.clockFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format", err)
		return
	}
	now := clock.Now()

	writeJSON(w, http.StatusOK, TrainingStatusDTO{
		PONumber: po.PONumber,
		Course:   po.Training.Course,
		EndDate:  po.Training.EndDate.Format(dateLayout),
		AsOf:     now.Format(time.RFC3339),
		Status:   string(po.Training.StatusAt(now)),
	})
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// GenerateInvoice runs the issuance gate for a purchase order. A denial
// is a normal outcome: 200 with issued=false and the advisory reason.
func (h *Handler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	poNumber := chi.URLParam(r, "poNumber")

	po, err := h.Store.GetPurchaseOrder(r.Context(), poNumber)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Purchase order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get purchase order", err)
		return
	}

	clock, err := h.clockFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format", err)
		return
	}

	gate := billing.NewIssuanceGate(h.Numbers, clock)
	inv, err := gate.GenerateInvoice(r.Context(), po)
	if err != nil {
		var denied *billing.IssuanceDeniedError
		if errors.As(err, &denied) {
			writeJSON(w, http.StatusOK, IssuanceResultDTO{
				Issued: false,
				State:  string(denied.State),
				Reason: denied.Reason,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate invoice", err)
		return
	}

	if err := h.Store.SaveInvoice(r.Context(), inv); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrDuplicateDocumentNumber) {
			status = http.StatusConflict
		}
		writeError(w, status, "Failed to save invoice", err)
		return
	}

	dto := toInvoiceDTO(inv)
	writeJSON(w, http.StatusCreated, IssuanceResultDTO{Issued: true, Invoice: &dto})
}

// ListInvoices returns all invoices, optionally filtered by ?status=.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	var invoices []billing.Invoice
	var err error

	if status := r.URL.Query().Get("status"); status != "" {
		invoices, err = h.Store.ListInvoicesByStatus(r.Context(), billing.InvoiceStatus(status))
	} else {
		invoices, err = h.Store.ListInvoices(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = toInvoiceDTO(&invoices[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetInvoice returns a single invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	inv, err := h.Store.GetInvoice(r.Context(), number)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Invoice not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

// CheckOverdue runs the overdue monitor against a single invoice and
// persists any transition.
func (h *Handler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	ctx := r.Context()

	inv, err := h.Store.GetInvoice(ctx, number)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Invoice not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}

	clock, err := h.clockFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format", err)
		return
	}

	monitor := billing.NewOverdueMonitor(clock, h.Notifier)
	result, err := monitor.Check(ctx, inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Overdue check failed", err)
		return
	}

	if result.Transitioned {
		if err := h.Store.UpdateInvoiceStatus(ctx, inv.InvoiceNumber, inv.Status); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist invoice status", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, OverdueCheckDTO{
		InvoiceNumber: result.InvoiceNumber,
		Status:        string(result.Status),
		DueDate:       result.DueDate.Format(dateLayout),
		Transitioned:  result.Transitioned,
		Notified:      result.Notified,
	})
}

// RecordPayment records an external payment against an invoice, driving
// it to PAID. The overdue monitor never touches a PAID invoice again.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	ctx := r.Context()

	inv, err := h.Store.GetInvoice(ctx, number)
	if err != nil {
		if billing.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Invoice not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}

	inv.MarkPaid()
	if err := h.Store.UpdateInvoiceStatus(ctx, inv.InvoiceNumber, inv.Status); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist invoice status", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

// =============================================================================
// NOTIFICATION HANDLERS
// =============================================================================

// ListNotifications returns every delivered overdue alert.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	records, err := h.Notifications.ListNotifications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	dtos := make([]NotificationDTO, len(records))
	for i, n := range records {
		dtos[i] = toNotificationDTO(n)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func termsFromDTO(p PaymentDTO) (billing.PaymentTerms, error) {
	rate, err := decimal.NewFromString(p.Rate)
	if err != nil {
		return billing.PaymentTerms{}, err
	}

	switch billing.PaymentKind(p.Kind) {
	case billing.PaymentHourly:
		return billing.HourlyTerms(rate, p.Hours), nil
	case billing.PaymentDaily:
		return billing.DailyTerms(rate, p.Days), nil
	case billing.PaymentMonthly:
		return billing.MonthlyTerms(rate, p.Months), nil
	default:
		return billing.PaymentTerms{}, &unknownKindError{kind: p.Kind}
	}
}

type unknownKindError struct {
	kind string
}

func (e *unknownKindError) Error() string {
	return "unknown payment kind: " + e.kind
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
