package tour

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// TourStatus represents the lifecycle status of a tour
type TourStatus string

const (
	TourStatusDraft  TourStatus = "DRAFT"  // Being planned, not yet open for booking
	TourStatusOpen   TourStatus = "OPEN"   // Open for booking and collection
	TourStatusClosed TourStatus = "CLOSED" // Financially settled and closed
)

// IsValid checks if the status is a valid TourStatus
func (s TourStatus) IsValid() bool {
	switch s {
	case TourStatusDraft, TourStatusOpen, TourStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of TourStatus
func (s TourStatus) String() string {
	return string(s)
}

// Tour represents a scheduled group departure.
// It is the aggregation root for participants, revenue, cost and profit;
// those fields are derived and only written by the recalculation pass.
type Tour struct {
	shared.BaseAggregateRoot
	TourNumber          string          `json:"tour_number"`
	Name                string          `json:"name"`
	Destination         string          `json:"destination"`
	DepartureDate       *time.Time      `json:"departure_date"`
	ReturnDate          *time.Time      `json:"return_date"`
	MaxParticipants     int             `json:"max_participants"`
	CurrentParticipants int             `json:"current_participants"` // Derived
	TotalRevenue        decimal.Decimal `json:"total_revenue"`        // Derived
	TotalCost           decimal.Decimal `json:"total_cost"`           // Derived
	Profit              decimal.Decimal `json:"profit"`               // Derived
	Status              TourStatus      `json:"status"`
	Remark              string          `json:"remark"`
	ClosedAt            *time.Time      `json:"closed_at"`
}

// NewTour creates a new tour in DRAFT status
func NewTour(tourNumber, name, destination string, departureDate, returnDate *time.Time, maxParticipants int) (*Tour, error) {
	if tourNumber == "" {
		return nil, shared.NewDomainError("INVALID_TOUR_NUMBER", "Tour number cannot be empty")
	}
	if len(tourNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_TOUR_NUMBER", "Tour number cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TOUR_NAME", "Tour name cannot be empty")
	}
	if maxParticipants < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Max participants cannot be negative")
	}
	if departureDate != nil && returnDate != nil && returnDate.Before(*departureDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Return date cannot be before departure date")
	}

	t := &Tour{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TourNumber:        tourNumber,
		Name:              name,
		Destination:       destination,
		DepartureDate:     departureDate,
		ReturnDate:        returnDate,
		MaxParticipants:   maxParticipants,
		TotalRevenue:      decimal.Zero,
		TotalCost:         decimal.Zero,
		Profit:            decimal.Zero,
		Status:            TourStatusDraft,
	}

	t.AddDomainEvent(NewTourCreatedEvent(t))

	return t, nil
}

// Open transitions the tour from DRAFT to OPEN
func (t *Tour) Open() error {
	if t.Status != TourStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot open tour in %s status", t.Status))
	}

	t.Status = TourStatusOpen
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTourOpenedEvent(t))

	return nil
}

// Close marks the tour as CLOSED. The closure gate (every order settled)
// is evaluated by the caller before invoking this; Close only guards the
// status machine. Closing an already closed tour is a no-op.
func (t *Tour) Close(orderCount int) error {
	if t.Status == TourStatusClosed {
		return nil
	}
	if t.Status != TourStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close tour in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TourStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTourClosedEvent(t, orderCount))

	return nil
}

// IsClosed returns true if the tour has been closed
func (t *Tour) IsClosed() bool {
	return t.Status == TourStatusClosed
}

// ApplyParticipants overwrites the derived participant count
func (t *Tour) ApplyParticipants(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "Participant count cannot be negative")
	}
	t.CurrentParticipants = count
	t.Touch()
	t.IncrementVersion()
	return nil
}

// ApplyRevenue overwrites the derived revenue and re-derives profit.
// Profit is always refreshed in the same call so a stale combination of
// revenue and profit is never persisted.
func (t *Tour) ApplyRevenue(revenue valueobject.Money) {
	t.TotalRevenue = revenue.Amount()
	t.Profit = t.TotalRevenue.Sub(t.TotalCost)
	t.Touch()
	t.IncrementVersion()
}

// ApplyCost overwrites the derived cost and re-derives profit
func (t *Tour) ApplyCost(cost valueobject.Money) {
	t.TotalCost = cost.Amount()
	t.Profit = t.TotalRevenue.Sub(t.TotalCost)
	t.Touch()
	t.IncrementVersion()
}

// GetTotalRevenueMoney returns total revenue as Money
func (t *Tour) GetTotalRevenueMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(t.TotalRevenue)
}

// GetTotalCostMoney returns total cost as Money
func (t *Tour) GetTotalCostMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(t.TotalCost)
}

// GetProfitMoney returns profit as Money (may be negative)
func (t *Tour) GetProfitMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(t.Profit)
}

// SetRemark sets the remark
func (t *Tour) SetRemark(remark string) {
	t.Remark = remark
	t.Touch()
	t.IncrementVersion()
}
