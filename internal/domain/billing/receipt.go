package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// ReceiptStatus represents the confirmation status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "PENDING"   // Recorded, money not yet confirmed
	ReceiptStatusConfirmed ReceiptStatus = "CONFIRMED" // Money confirmed, counts toward aggregates
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusPending || s == ReceiptStatusConfirmed
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// Receipt records money collected against an order and/or directly against
// a tour. A receipt is never hard-deleted: voiding sets the soft-delete
// marker and the receipt stops contributing to every aggregate.
type Receipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber string           `json:"receipt_number"`
	OrderID       *uuid.UUID       `json:"order_id"` // Set for order-level collections
	TourID        *uuid.UUID       `json:"tour_id"`  // Set for direct tour attribution
	Status        ReceiptStatus    `json:"status"`
	ActualAmount  *decimal.Decimal `json:"actual_amount"` // Nil until confirmed
	PaymentMethod string           `json:"payment_method"`
	ReceivedAt    *time.Time       `json:"received_at"`
	Remark        string           `json:"remark"`
	DeletedAt     *time.Time       `json:"deleted_at"` // Soft-delete (void) marker
	VoidReason    string           `json:"void_reason"`
}

// NewReceipt creates a new pending receipt. At least one of orderID and
// tourID must be set so the receipt is attributable to an aggregate root.
func NewReceipt(receiptNumber string, orderID, tourID *uuid.UUID, paymentMethod string) (*Receipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if len(receiptNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot exceed 50 characters")
	}
	if (orderID == nil || *orderID == uuid.Nil) && (tourID == nil || *tourID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Receipt must reference an order or a tour")
	}

	r := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		OrderID:           orderID,
		TourID:            tourID,
		Status:            ReceiptStatusPending,
		PaymentMethod:     paymentMethod,
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))

	return r, nil
}

// Confirm records the actually collected amount and marks the receipt
// confirmed. Only confirmed receipts contribute to aggregates.
func (r *Receipt) Confirm(amount valueobject.Money) error {
	if r.IsVoided() {
		return shared.NewDomainError("INVALID_STATE", "Cannot confirm a voided receipt")
	}
	if r.Status == ReceiptStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Receipt is already confirmed")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Confirmed amount must be positive")
	}

	now := time.Now()
	actual := amount.Amount()
	r.Status = ReceiptStatusConfirmed
	r.ActualAmount = &actual
	r.ReceivedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReceiptConfirmedEvent(r))

	return nil
}

// Void soft-deletes the receipt. The amount field is kept populated for
// audit, but the receipt contributes zero to every aggregate afterwards.
func (r *Receipt) Void(reason string) error {
	if r.IsVoided() {
		return shared.NewDomainError("INVALID_STATE", "Receipt is already voided")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	r.DeletedAt = &now
	r.VoidReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReceiptVoidedEvent(r))

	return nil
}

// IsVoided returns true if the receipt has been soft-deleted
func (r *Receipt) IsVoided() bool {
	return r.DeletedAt != nil
}

// IsConfirmed returns true if the receipt has been confirmed
func (r *Receipt) IsConfirmed() bool {
	return r.Status == ReceiptStatusConfirmed
}

// CountsTowardAggregates is the single activity predicate used by every
// aggregator: confirmed, not voided, with a recorded amount.
func (r *Receipt) CountsTowardAggregates() bool {
	return r.Status == ReceiptStatusConfirmed && r.DeletedAt == nil && r.ActualAmount != nil
}

// CountableAmount returns the amount this receipt contributes to
// aggregates: the actual amount when countable, zero otherwise.
func (r *Receipt) CountableAmount() decimal.Decimal {
	if !r.CountsTowardAggregates() {
		return decimal.Zero
	}
	return *r.ActualAmount
}

// GetActualAmountMoney returns the actual amount as Money, zero when unset
func (r *Receipt) GetActualAmountMoney() valueobject.Money {
	if r.ActualAmount == nil {
		return valueobject.ZeroCNY()
	}
	return valueobject.NewMoneyCNY(*r.ActualAmount)
}

// BelongsToOrder returns true if the receipt is attributed to the given order
func (r *Receipt) BelongsToOrder(orderID uuid.UUID) bool {
	return r.OrderID != nil && *r.OrderID == orderID
}

// String returns a short description for logging
func (r *Receipt) String() string {
	return fmt.Sprintf("Receipt(%s, %s)", r.ReceiptNumber, r.Status)
}
