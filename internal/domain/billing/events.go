package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
)

// ReceiptCreatedEvent is raised when a receipt is recorded
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID  `json:"receipt_id"`
	ReceiptNumber string     `json:"receipt_number"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	TourID        *uuid.UUID `json:"tour_id,omitempty"`
}

// EventType returns the event type name
func (e *ReceiptCreatedEvent) EventType() string {
	return "ReceiptCreated"
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReceiptCreated", "Receipt", r.ID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		OrderID:         r.OrderID,
		TourID:          r.TourID,
	}
}

// ReceiptConfirmedEvent is raised when money collection is confirmed
type ReceiptConfirmedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	TourID        *uuid.UUID      `json:"tour_id,omitempty"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// EventType returns the event type name
func (e *ReceiptConfirmedEvent) EventType() string {
	return "ReceiptConfirmed"
}

// NewReceiptConfirmedEvent creates a new ReceiptConfirmedEvent
func NewReceiptConfirmedEvent(r *Receipt) *ReceiptConfirmedEvent {
	receivedAt := time.Now()
	if r.ReceivedAt != nil {
		receivedAt = *r.ReceivedAt
	}
	amount := decimal.Zero
	if r.ActualAmount != nil {
		amount = *r.ActualAmount
	}
	return &ReceiptConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReceiptConfirmed", "Receipt", r.ID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		OrderID:         r.OrderID,
		TourID:          r.TourID,
		ActualAmount:    amount,
		ReceivedAt:      receivedAt,
	}
}

// ReceiptVoidedEvent is raised when a receipt is soft-deleted
type ReceiptVoidedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID  `json:"receipt_id"`
	ReceiptNumber string     `json:"receipt_number"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	TourID        *uuid.UUID `json:"tour_id,omitempty"`
	VoidReason    string     `json:"void_reason"`
}

// EventType returns the event type name
func (e *ReceiptVoidedEvent) EventType() string {
	return "ReceiptVoided"
}

// NewReceiptVoidedEvent creates a new ReceiptVoidedEvent
func NewReceiptVoidedEvent(r *Receipt) *ReceiptVoidedEvent {
	return &ReceiptVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReceiptVoided", "Receipt", r.ID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		OrderID:         r.OrderID,
		TourID:          r.TourID,
		VoidReason:      r.VoidReason,
	}
}

// PaymentRequestCreatedEvent is raised when a payment request is submitted
type PaymentRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	TourID        uuid.UUID `json:"tour_id"`
	SupplierName  string    `json:"supplier_name"`
}

// EventType returns the event type name
func (e *PaymentRequestCreatedEvent) EventType() string {
	return "PaymentRequestCreated"
}

// NewPaymentRequestCreatedEvent creates a new PaymentRequestCreatedEvent
func NewPaymentRequestCreatedEvent(pr *PaymentRequest) *PaymentRequestCreatedEvent {
	return &PaymentRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestCreated", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		TourID:          pr.TourID,
		SupplierName:    pr.SupplierName,
	}
}

// PaymentRequestRejectedEvent is raised when a payment request is rejected
type PaymentRequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID       `json:"request_id"`
	RequestNumber string          `json:"request_number"`
	TourID        uuid.UUID       `json:"tour_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	RejectReason  string          `json:"reject_reason"`
}

// EventType returns the event type name
func (e *PaymentRequestRejectedEvent) EventType() string {
	return "PaymentRequestRejected"
}

// NewPaymentRequestRejectedEvent creates a new PaymentRequestRejectedEvent
func NewPaymentRequestRejectedEvent(pr *PaymentRequest) *PaymentRequestRejectedEvent {
	return &PaymentRequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestRejected", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		TourID:          pr.TourID,
		TotalAmount:     pr.TotalAmount(),
		RejectReason:    pr.RejectReason,
	}
}

// PaymentRequestPaidEvent is raised when a payment request is disbursed
type PaymentRequestPaidEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID       `json:"request_id"`
	RequestNumber string          `json:"request_number"`
	TourID        uuid.UUID       `json:"tour_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAt        time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *PaymentRequestPaidEvent) EventType() string {
	return "PaymentRequestPaid"
}

// NewPaymentRequestPaidEvent creates a new PaymentRequestPaidEvent
func NewPaymentRequestPaidEvent(pr *PaymentRequest) *PaymentRequestPaidEvent {
	paidAt := time.Now()
	if pr.PaidAt != nil {
		paidAt = *pr.PaidAt
	}
	return &PaymentRequestPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestPaid", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		TourID:          pr.TourID,
		TotalAmount:     pr.TotalAmount(),
		PaidAt:          paidAt,
	}
}

// PaymentRequestDeletedEvent is raised when a payment request is soft-deleted
type PaymentRequestDeletedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	TourID        uuid.UUID `json:"tour_id"`
}

// EventType returns the event type name
func (e *PaymentRequestDeletedEvent) EventType() string {
	return "PaymentRequestDeleted"
}

// NewPaymentRequestDeletedEvent creates a new PaymentRequestDeletedEvent
func NewPaymentRequestDeletedEvent(pr *PaymentRequest) *PaymentRequestDeletedEvent {
	return &PaymentRequestDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRequestDeleted", "PaymentRequest", pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		TourID:          pr.TourID,
	}
}

// DisbursementOrderCreatedEvent is raised when a disbursement order is created
type DisbursementOrderCreatedEvent struct {
	shared.BaseDomainEvent
	DisbursementID     uuid.UUID     `json:"disbursement_id"`
	DisbursementNumber string        `json:"disbursement_number"`
	RequestIDs         RequestIDList `json:"request_ids"`
}

// EventType returns the event type name
func (e *DisbursementOrderCreatedEvent) EventType() string {
	return "DisbursementOrderCreated"
}

// NewDisbursementOrderCreatedEvent creates a new DisbursementOrderCreatedEvent
func NewDisbursementOrderCreatedEvent(d *DisbursementOrder) *DisbursementOrderCreatedEvent {
	return &DisbursementOrderCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("DisbursementOrderCreated", "DisbursementOrder", d.ID),
		DisbursementID:     d.ID,
		DisbursementNumber: d.DisbursementNumber,
		RequestIDs:         d.RequestIDs,
	}
}

// DisbursementOrderPaidEvent is raised when a disbursement order is paid out
type DisbursementOrderPaidEvent struct {
	shared.BaseDomainEvent
	DisbursementID     uuid.UUID     `json:"disbursement_id"`
	DisbursementNumber string        `json:"disbursement_number"`
	RequestIDs         RequestIDList `json:"request_ids"`
	PaidAt             time.Time     `json:"paid_at"`
}

// EventType returns the event type name
func (e *DisbursementOrderPaidEvent) EventType() string {
	return "DisbursementOrderPaid"
}

// NewDisbursementOrderPaidEvent creates a new DisbursementOrderPaidEvent
func NewDisbursementOrderPaidEvent(d *DisbursementOrder) *DisbursementOrderPaidEvent {
	paidAt := time.Now()
	if d.PaidAt != nil {
		paidAt = *d.PaidAt
	}
	return &DisbursementOrderPaidEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("DisbursementOrderPaid", "DisbursementOrder", d.ID),
		DisbursementID:     d.ID,
		DisbursementNumber: d.DisbursementNumber,
		RequestIDs:         d.RequestIDs,
		PaidAt:             paidAt,
	}
}
