/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts and rates travel as decimal strings ("320000"), never floats.

DATES:
  Calendar dates (start/end/due) use YYYY-MM-DD; creation timestamps use
  RFC3339.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/billing-engine/billing"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// TrainerDTO carries trainer identity in both directions.
type TrainerDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Experience string `json:"experience,omitempty"`
}

// TrainingDTO carries engagement details in both directions.
type TrainingDTO struct {
	Course    string `json:"course"`
	Client    string `json:"client"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PaymentDTO carries the payment terms. Exactly one of hours/days/months
// should be set, matching the kind.
type PaymentDTO struct {
	Kind   string `json:"kind"`
	Rate   string `json:"rate"`
	Hours  int    `json:"hours,omitempty"`
	Days   int    `json:"days,omitempty"`
	Months int    `json:"months,omitempty"`
}

// CreatePORequest is the request to create a purchase order.
type CreatePORequest struct {
	Trainer  TrainerDTO  `json:"trainer"`
	Training TrainingDTO `json:"training"`
	Payment  PaymentDTO  `json:"payment"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PurchaseOrderDTO represents a PO in API responses.
type PurchaseOrderDTO struct {
	PONumber    string      `json:"po_number"`
	Trainer     TrainerDTO  `json:"trainer"`
	Training    TrainingDTO `json:"training"`
	Payment     PaymentDTO  `json:"payment"`
	TotalAmount string      `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`
	Status      string      `json:"status"`
}

// InvoiceDTO represents an invoice in API responses.
type InvoiceDTO struct {
	InvoiceNumber string `json:"invoice_number"`
	PONumber      string `json:"po_number"`
	TrainerName   string `json:"trainer_name"`
	Course        string `json:"course"`
	Amount        string `json:"amount"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
}

// IssuanceResultDTO reports the outcome of an issuance attempt. A denial
// is a normal outcome: issued=false with the advisory reason, HTTP 200.
type IssuanceResultDTO struct {
	Issued  bool        `json:"issued"`
	State   string      `json:"state,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Invoice *InvoiceDTO `json:"invoice,omitempty"`
}

// TrainingStatusDTO reports the derived training status.
type TrainingStatusDTO struct {
	PONumber string `json:"po_number"`
	Course   string `json:"course"`
	EndDate  string `json:"end_date"`
	AsOf     string `json:"as_of"`
	Status   string `json:"status"`
}

// OverdueCheckDTO reports the outcome of an overdue check.
type OverdueCheckDTO struct {
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	DueDate       string `json:"due_date"`
	Transitioned  bool   `json:"transitioned"`
	Notified      bool   `json:"notified"`
}

// NotificationDTO represents a delivered notification.
type NotificationDTO struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	DueDate       string `json:"due_date"`
	SentAt        string `json:"sent_at"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

const dateLayout = "2006-01-02"

func toPurchaseOrderDTO(po *billing.PurchaseOrder) PurchaseOrderDTO {
	return PurchaseOrderDTO{
		PONumber: po.PONumber,
		Trainer: TrainerDTO{
			Name:       po.Trainer.Name,
			Email:      po.Trainer.Email,
			Experience: po.Trainer.Experience,
		},
		Training: TrainingDTO{
			Course:    po.Training.Course,
			Client:    po.Training.Client,
			StartDate: po.Training.StartDate.Format(dateLayout),
			EndDate:   po.Training.EndDate.Format(dateLayout),
		},
		Payment: PaymentDTO{
			Kind:   string(po.Terms.Kind),
			Rate:   po.Terms.Rate.String(),
			Hours:  po.Terms.Duration.Hours,
			Days:   po.Terms.Duration.Days,
			Months: po.Terms.Duration.Months,
		},
		TotalAmount: po.TotalAmount.String(),
		CreatedAt:   po.CreatedAt.Format(time.RFC3339),
		Status:      string(po.Status),
	}
}

func toInvoiceDTO(inv *billing.Invoice) InvoiceDTO {
	return InvoiceDTO{
		InvoiceNumber: inv.InvoiceNumber,
		PONumber:      inv.PONumber,
		TrainerName:   inv.TrainerName,
		Course:        inv.Course,
		Amount:        inv.Amount.String(),
		InvoiceDate:   inv.InvoiceDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Status:        string(inv.Status),
	}
}

func toNotificationDTO(n billing.NotificationRecord) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID,
		InvoiceNumber: n.InvoiceNumber,
		Status:        string(n.Status),
		Message:       n.Message,
		DueDate:       n.DueDate.Format(dateLayout),
		SentAt:        n.SentAt.Format(time.RFC3339),
	}
}
