package tour

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	TourID      uuid.UUID `json:"tour_id"`
	ContactName string    `json:"contact_name"`
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return "OrderCreated"
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderCreated", "Order", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TourID:          o.TourID,
		ContactName:     o.ContactName,
	}
}

// OrderMemberAddedEvent is raised when a member row is added to an order
type OrderMemberAddedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	TourID       uuid.UUID       `json:"tour_id"`
	MemberID     uuid.UUID       `json:"member_id"`
	MemberName   string          `json:"member_name"`
	IdentityType IdentityType    `json:"identity_type"`
	TotalPayable decimal.Decimal `json:"total_payable"`
}

// EventType returns the event type name
func (e *OrderMemberAddedEvent) EventType() string {
	return "OrderMemberAdded"
}

// NewOrderMemberAddedEvent creates a new OrderMemberAddedEvent
func NewOrderMemberAddedEvent(o *Order, m *OrderMember) *OrderMemberAddedEvent {
	return &OrderMemberAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderMemberAdded", "Order", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TourID:          o.TourID,
		MemberID:        m.ID,
		MemberName:      m.Name,
		IdentityType:    m.IdentityType,
		TotalPayable:    m.TotalPayable,
	}
}

// OrderMemberRemovedEvent is raised when a member row is removed from an order
type OrderMemberRemovedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	TourID       uuid.UUID       `json:"tour_id"`
	MemberID     uuid.UUID       `json:"member_id"`
	MemberName   string          `json:"member_name"`
	TotalPayable decimal.Decimal `json:"total_payable"`
}

// EventType returns the event type name
func (e *OrderMemberRemovedEvent) EventType() string {
	return "OrderMemberRemoved"
}

// NewOrderMemberRemovedEvent creates a new OrderMemberRemovedEvent
func NewOrderMemberRemovedEvent(o *Order, m *OrderMember) *OrderMemberRemovedEvent {
	return &OrderMemberRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderMemberRemoved", "Order", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TourID:          o.TourID,
		MemberID:        m.ID,
		MemberName:      m.Name,
		TotalPayable:    m.TotalPayable,
	}
}

// OrderPaymentStatusChangedEvent is raised when recomputation changes an
// order's payment status
type OrderPaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	TourID          uuid.UUID       `json:"tour_id"`
	PreviousStatus  PaymentStatus   `json:"previous_status"`
	CurrentStatus   PaymentStatus   `json:"current_status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *OrderPaymentStatusChangedEvent) EventType() string {
	return "OrderPaymentStatusChanged"
}

// NewOrderPaymentStatusChangedEvent creates a new OrderPaymentStatusChangedEvent
func NewOrderPaymentStatusChangedEvent(o *Order, previous PaymentStatus) *OrderPaymentStatusChangedEvent {
	return &OrderPaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderPaymentStatusChanged", "Order", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TourID:          o.TourID,
		PreviousStatus:  previous,
		CurrentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount,
	}
}
