package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
)

// DisbursementStatus represents the status of a disbursement order
type DisbursementStatus string

const (
	DisbursementStatusPending DisbursementStatus = "PENDING" // Scheduled, not yet paid out
	DisbursementStatusPaid    DisbursementStatus = "PAID"    // Paid out to suppliers
)

// IsValid checks if the status is a valid DisbursementStatus
func (s DisbursementStatus) IsValid() bool {
	return s == DisbursementStatusPending || s == DisbursementStatusPaid
}

// String returns the string representation of DisbursementStatus
func (s DisbursementStatus) String() string {
	return string(s)
}

// RequestIDList is a list of payment request IDs stored as a JSON column
type RequestIDList []uuid.UUID

// Value implements driver.Valuer for GORM storage
func (l RequestIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM retrieval
func (l *RequestIDList) Scan(value interface{}) error {
	if value == nil {
		*l = RequestIDList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RequestIDList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = RequestIDList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// GormDataType tells GORM which column type backs the list
func (RequestIDList) GormDataType() string {
	return "text"
}

// Contains returns true if the list contains the given ID
func (l RequestIDList) Contains(id uuid.UUID) bool {
	for _, existing := range l {
		if existing == id {
			return true
		}
	}
	return false
}

// DisbursementOrder batches confirmed payment requests for actual payout.
// Confirming the disbursement is the operational trigger that advances the
// covered payment requests to PAID; the disbursement itself has no direct
// bearing on tour aggregates.
type DisbursementOrder struct {
	shared.BaseAggregateRoot
	DisbursementNumber string             `json:"disbursement_number"`
	RequestIDs         RequestIDList      `json:"request_ids"`
	Status             DisbursementStatus `json:"status"`
	Remark             string             `json:"remark"`
	PaidAt             *time.Time         `json:"paid_at"`
}

// NewDisbursementOrder creates a new pending disbursement order covering
// the given payment requests
func NewDisbursementOrder(disbursementNumber string, requestIDs []uuid.UUID) (*DisbursementOrder, error) {
	if disbursementNumber == "" {
		return nil, shared.NewDomainError("INVALID_DISBURSEMENT_NUMBER", "Disbursement number cannot be empty")
	}
	if len(requestIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_REQUESTS", "Disbursement order must cover at least one payment request")
	}

	ids := make(RequestIDList, 0, len(requestIDs))
	for _, id := range requestIDs {
		if id == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_REQUESTS", "Payment request ID cannot be empty")
		}
		if ids.Contains(id) {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", fmt.Sprintf("Payment request %s listed more than once", id))
		}
		ids = append(ids, id)
	}

	d := &DisbursementOrder{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		DisbursementNumber: disbursementNumber,
		RequestIDs:         ids,
		Status:             DisbursementStatusPending,
	}

	d.AddDomainEvent(NewDisbursementOrderCreatedEvent(d))

	return d, nil
}

// MarkPaid marks the disbursement order as paid out
func (d *DisbursementOrder) MarkPaid() error {
	if d.Status == DisbursementStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Disbursement order is already paid")
	}

	now := time.Now()
	d.Status = DisbursementStatusPaid
	d.PaidAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDisbursementOrderPaidEvent(d))

	return nil
}

// IsPaid returns true if the disbursement has been paid out
func (d *DisbursementOrder) IsPaid() bool {
	return d.Status == DisbursementStatusPaid
}
