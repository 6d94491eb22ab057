package tour

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
)

// TourCreatedEvent is raised when a new tour is created
type TourCreatedEvent struct {
	shared.BaseDomainEvent
	TourID        uuid.UUID  `json:"tour_id"`
	TourNumber    string     `json:"tour_number"`
	Name          string     `json:"name"`
	Destination   string     `json:"destination"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
}

// EventType returns the event type name
func (e *TourCreatedEvent) EventType() string {
	return "TourCreated"
}

// NewTourCreatedEvent creates a new TourCreatedEvent
func NewTourCreatedEvent(t *Tour) *TourCreatedEvent {
	return &TourCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TourCreated", "Tour", t.ID),
		TourID:          t.ID,
		TourNumber:      t.TourNumber,
		Name:            t.Name,
		Destination:     t.Destination,
		DepartureDate:   t.DepartureDate,
	}
}

// TourOpenedEvent is raised when a tour opens for booking
type TourOpenedEvent struct {
	shared.BaseDomainEvent
	TourID     uuid.UUID `json:"tour_id"`
	TourNumber string    `json:"tour_number"`
}

// EventType returns the event type name
func (e *TourOpenedEvent) EventType() string {
	return "TourOpened"
}

// NewTourOpenedEvent creates a new TourOpenedEvent
func NewTourOpenedEvent(t *Tour) *TourOpenedEvent {
	return &TourOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TourOpened", "Tour", t.ID),
		TourID:          t.ID,
		TourNumber:      t.TourNumber,
	}
}

// TourClosedEvent is raised when a tour passes the closure gate.
// OrderCount is carried so that closures of tours with no bookings
// remain auditable.
type TourClosedEvent struct {
	shared.BaseDomainEvent
	TourID       uuid.UUID       `json:"tour_id"`
	TourNumber   string          `json:"tour_number"`
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Profit       decimal.Decimal `json:"profit"`
	ClosedAt     time.Time       `json:"closed_at"`
}

// EventType returns the event type name
func (e *TourClosedEvent) EventType() string {
	return "TourClosed"
}

// NewTourClosedEvent creates a new TourClosedEvent
func NewTourClosedEvent(t *Tour, orderCount int) *TourClosedEvent {
	closedAt := time.Now()
	if t.ClosedAt != nil {
		closedAt = *t.ClosedAt
	}
	return &TourClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TourClosed", "Tour", t.ID),
		TourID:          t.ID,
		TourNumber:      t.TourNumber,
		OrderCount:      orderCount,
		TotalRevenue:    t.TotalRevenue,
		TotalCost:       t.TotalCost,
		Profit:          t.Profit,
		ClosedAt:        closedAt,
	}
}
