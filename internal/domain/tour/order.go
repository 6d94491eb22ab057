package tour

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the collection status of an order
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"  // Nothing collected, or nothing to collect
	PaymentStatusPartial PaymentStatus = "PARTIAL" // Some but not all collected
	PaymentStatusPaid    PaymentStatus = "PAID"    // Fully collected
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IdentityType classifies a member for pricing and manifest purposes
type IdentityType string

const (
	IdentityTypeAdult  IdentityType = "ADULT"
	IdentityTypeChild  IdentityType = "CHILD"
	IdentityTypeInfant IdentityType = "INFANT"
)

// IsValid checks if the identity type is valid
func (t IdentityType) IsValid() bool {
	switch t {
	case IdentityTypeAdult, IdentityTypeChild, IdentityTypeInfant:
		return true
	}
	return false
}

// OrderMember is one billable head on an order. TotalPayable is signed:
// a negative amount represents a discount or adjustment applied as a
// synthetic member row, and still counts as one head for participants.
type OrderMember struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `json:"order_id"`
	Name         string          `json:"name"`
	IdentityType IdentityType    `json:"identity_type"`
	PassportNo   string          `json:"passport_no"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	Remark       string          `json:"remark"`
}

// NewOrderMember creates a new order member
func NewOrderMember(orderID uuid.UUID, name string, identityType IdentityType, totalPayable valueobject.Money) (*OrderMember, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MEMBER_NAME", "Member name cannot be empty")
	}
	if !identityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_IDENTITY_TYPE", "Identity type is not valid")
	}

	return &OrderMember{
		BaseEntity:   shared.NewBaseEntity(),
		OrderID:      orderID,
		Name:         name,
		IdentityType: identityType,
		TotalPayable: totalPayable.Amount(),
	}, nil
}

// GetTotalPayableMoney returns the payable amount as Money
func (m *OrderMember) GetTotalPayableMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(m.TotalPayable)
}

// Order represents a booking made by one contact under exactly one tour.
// TotalAmount, PaidAmount, RemainingAmount and PaymentStatus are derived
// fields owned by the recalculation pass.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string          `json:"order_number"`
	TourID          uuid.UUID       `json:"tour_id"`
	ContactName     string          `json:"contact_name"`
	ContactPhone    string          `json:"contact_phone"`
	Members         []OrderMember   `json:"members"`
	TotalAmount     decimal.Decimal `json:"total_amount"`     // Derived
	PaidAmount      decimal.Decimal `json:"paid_amount"`      // Derived
	RemainingAmount decimal.Decimal `json:"remaining_amount"` // Derived
	PaymentStatus   PaymentStatus   `json:"payment_status"`   // Derived
	Remark          string          `json:"remark"`
}

// NewOrder creates a new order under a tour
func NewOrder(orderNumber string, tourID uuid.UUID, contactName, contactPhone string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if tourID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TOUR", "Tour ID cannot be empty")
	}
	if contactName == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact name cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		TourID:            tourID,
		ContactName:       contactName,
		ContactPhone:      contactPhone,
		Members:           make([]OrderMember, 0),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		RemainingAmount:   decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddMember adds a member row to the order. Negative payable amounts are
// accepted: they represent discount/adjustment rows.
func (o *Order) AddMember(name string, identityType IdentityType, totalPayable valueobject.Money) (*OrderMember, error) {
	member, err := NewOrderMember(o.ID, name, identityType, totalPayable)
	if err != nil {
		return nil, err
	}

	o.Members = append(o.Members, *member)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderMemberAddedEvent(o, member))

	return member, nil
}

// RemoveMember removes a member row from the order
func (o *Order) RemoveMember(memberID uuid.UUID) error {
	for i, m := range o.Members {
		if m.ID == memberID {
			removed := m
			o.Members = append(o.Members[:i], o.Members[i+1:]...)
			o.Touch()
			o.IncrementVersion()
			o.AddDomainEvent(NewOrderMemberRemovedEvent(o, &removed))
			return nil
		}
	}
	return shared.NewDomainError("MEMBER_NOT_FOUND", fmt.Sprintf("Member %s not found on order %s", memberID, o.OrderNumber))
}

// FindMember returns the member with the given ID, or nil
func (o *Order) FindMember(memberID uuid.UUID) *OrderMember {
	for i := range o.Members {
		if o.Members[i].ID == memberID {
			return &o.Members[i]
		}
	}
	return nil
}

// MemberCount returns the number of member rows (one row = one head,
// regardless of the sign of its payable amount)
func (o *Order) MemberCount() int {
	return len(o.Members)
}

// ApplyAggregates overwrites the four derived fields in one step so that
// no caller ever observes a half-updated combination.
func (o *Order) ApplyAggregates(totalAmount, paidAmount, remainingAmount decimal.Decimal, status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status is not valid")
	}

	previousStatus := o.PaymentStatus
	o.TotalAmount = totalAmount
	o.PaidAmount = paidAmount
	o.RemainingAmount = remainingAmount
	o.PaymentStatus = status
	o.Touch()
	o.IncrementVersion()

	if previousStatus != status {
		o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, previousStatus))
	}

	return nil
}

// IsSettled returns true if the order blocks nothing: fully paid, or
// there is nothing to pay at all.
func (o *Order) IsSettled() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.TotalAmount.IsZero()
}

// GetTotalAmountMoney returns total amount as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(o.TotalAmount)
}

// GetPaidAmountMoney returns paid amount as Money
func (o *Order) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(o.PaidAmount)
}

// GetRemainingAmountMoney returns remaining amount as Money
func (o *Order) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(o.RemainingAmount)
}

// SetRemark sets the remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.Touch()
	o.IncrementVersion()
}
