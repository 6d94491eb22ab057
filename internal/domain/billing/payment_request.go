package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// PaymentRequestStatus represents the approval status of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending   PaymentRequestStatus = "PENDING"   // Submitted, awaiting approval
	PaymentRequestStatusApproved  PaymentRequestStatus = "APPROVED"  // Approved by a manager
	PaymentRequestStatusConfirmed PaymentRequestStatus = "CONFIRMED" // Confirmed by accounting
	PaymentRequestStatusPaid      PaymentRequestStatus = "PAID"      // Disbursed to the supplier
	PaymentRequestStatusRejected  PaymentRequestStatus = "REJECTED"  // Rejected, contributes zero cost
)

// IsValid checks if the status is a valid PaymentRequestStatus
func (s PaymentRequestStatus) IsValid() bool {
	switch s {
	case PaymentRequestStatusPending, PaymentRequestStatusApproved,
		PaymentRequestStatusConfirmed, PaymentRequestStatusPaid, PaymentRequestStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of PaymentRequestStatus
func (s PaymentRequestStatus) String() string {
	return string(s)
}

// IsActive returns true for statuses that contribute to tour cost.
// Rejection zeroes out the contribution without deleting the records.
func (s PaymentRequestStatus) IsActive() bool {
	switch s {
	case PaymentRequestStatusPending, PaymentRequestStatusApproved,
		PaymentRequestStatusConfirmed, PaymentRequestStatusPaid:
		return true
	}
	return false
}

// PaymentRequestItem is one expense line of a payment request
type PaymentRequestItem struct {
	shared.BaseEntity
	PaymentRequestID uuid.UUID       `json:"payment_request_id"`
	Description      string          `json:"description"`
	Quantity         int             `json:"quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// NewPaymentRequestItem creates a new payment request item
func NewPaymentRequestItem(requestID uuid.UUID, description string, quantity int, subtotal valueobject.Money) (*PaymentRequestItem, error) {
	if requestID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Payment request ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}

	return &PaymentRequestItem{
		BaseEntity:       shared.NewBaseEntity(),
		PaymentRequestID: requestID,
		Description:      description,
		Quantity:         quantity,
		Subtotal:         subtotal.Amount(),
	}, nil
}

// GetSubtotalMoney returns the subtotal as Money
func (i *PaymentRequestItem) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(i.Subtotal)
}

// PaymentRequest is a request to pay a supplier or expense against a tour,
// composed of line items. It contributes to tour cost only while in an
// active status and not soft-deleted.
type PaymentRequest struct {
	shared.BaseAggregateRoot
	RequestNumber string               `json:"request_number"`
	TourID        uuid.UUID            `json:"tour_id"`
	SupplierName  string               `json:"supplier_name"`
	Status        PaymentRequestStatus `json:"status"`
	Items         []PaymentRequestItem `json:"items"`
	Remark        string               `json:"remark"`
	RejectReason  string               `json:"reject_reason"`
	DeletedAt     *time.Time           `json:"deleted_at"` // Soft-delete marker
	PaidAt        *time.Time           `json:"paid_at"`
}

// NewPaymentRequest creates a new payment request in PENDING status
func NewPaymentRequest(requestNumber string, tourID uuid.UUID, supplierName string) (*PaymentRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if len(requestNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot exceed 50 characters")
	}
	if tourID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TOUR", "Tour ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}

	pr := &PaymentRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		TourID:            tourID,
		SupplierName:      supplierName,
		Status:            PaymentRequestStatusPending,
		Items:             make([]PaymentRequestItem, 0),
	}

	pr.AddDomainEvent(NewPaymentRequestCreatedEvent(pr))

	return pr, nil
}

// AddItem adds an expense line to the request
func (pr *PaymentRequest) AddItem(description string, quantity int, subtotal valueobject.Money) (*PaymentRequestItem, error) {
	if pr.IsDeleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted payment request")
	}
	if pr.Status != PaymentRequestStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify items of a %s payment request", pr.Status))
	}

	item, err := NewPaymentRequestItem(pr.ID, description, quantity, subtotal)
	if err != nil {
		return nil, err
	}

	pr.Items = append(pr.Items, *item)
	pr.Touch()
	pr.IncrementVersion()

	return item, nil
}

// RemoveItem removes an expense line from the request
func (pr *PaymentRequest) RemoveItem(itemID uuid.UUID) error {
	if pr.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify items of a %s payment request", pr.Status))
	}
	for i, item := range pr.Items {
		if item.ID == itemID {
			pr.Items = append(pr.Items[:i], pr.Items[i+1:]...)
			pr.Touch()
			pr.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Item %s not found on request %s", itemID, pr.RequestNumber))
}

// TotalAmount returns the sum of all item subtotals
func (pr *PaymentRequest) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range pr.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Approve advances the request from PENDING to APPROVED
func (pr *PaymentRequest) Approve() error {
	return pr.transition(PaymentRequestStatusPending, PaymentRequestStatusApproved)
}

// Confirm advances the request from APPROVED to CONFIRMED
func (pr *PaymentRequest) Confirm() error {
	return pr.transition(PaymentRequestStatusApproved, PaymentRequestStatusConfirmed)
}

// MarkPaid advances the request to PAID. Invoked when the disbursement
// order covering this request is confirmed. Paid requests still count
// as cost.
func (pr *PaymentRequest) MarkPaid() error {
	if err := pr.transition(PaymentRequestStatusConfirmed, PaymentRequestStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	pr.PaidAt = &now
	pr.AddDomainEvent(NewPaymentRequestPaidEvent(pr))
	return nil
}

// Reject moves the request to REJECTED. The items keep their subtotals
// but the request contributes zero cost from this point on.
func (pr *PaymentRequest) Reject(reason string) error {
	if pr.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot reject a deleted payment request")
	}
	if pr.Status == PaymentRequestStatusPaid || pr.Status == PaymentRequestStatusRejected {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject a %s payment request", pr.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	pr.Status = PaymentRequestStatusRejected
	pr.RejectReason = reason
	pr.Touch()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestRejectedEvent(pr))

	return nil
}

// Delete soft-deletes the request. Records are retained for audit but the
// request contributes zero to every aggregate afterwards.
func (pr *PaymentRequest) Delete() error {
	if pr.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Payment request is already deleted")
	}
	if pr.Status == PaymentRequestStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a paid payment request")
	}

	now := time.Now()
	pr.DeletedAt = &now
	pr.UpdatedAt = now
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPaymentRequestDeletedEvent(pr))

	return nil
}

// IsDeleted returns true if the request has been soft-deleted
func (pr *PaymentRequest) IsDeleted() bool {
	return pr.DeletedAt != nil
}

// ContributesCost is the single activity predicate used by the cost
// aggregator: active status and not soft-deleted.
func (pr *PaymentRequest) ContributesCost() bool {
	return pr.Status.IsActive() && pr.DeletedAt == nil
}

// CountableCost returns the cost this request contributes to the tour:
// the item subtotal sum when active, zero otherwise.
func (pr *PaymentRequest) CountableCost() decimal.Decimal {
	if !pr.ContributesCost() {
		return decimal.Zero
	}
	return pr.TotalAmount()
}

func (pr *PaymentRequest) transition(from, to PaymentRequestStatus) error {
	if pr.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot transition a deleted payment request")
	}
	if pr.Status != from {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move payment request from %s to %s", pr.Status, to))
	}

	pr.Status = to
	pr.Touch()
	pr.IncrementVersion()

	return nil
}
