package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appsettlement "github.com/tourops/backend/internal/application/settlement"
	"github.com/tourops/backend/internal/domain/settlement"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/tour"
)

// TourService provides application-level tour operations
type TourService struct {
	tourRepo  tour.TourRepository
	orderRepo tour.OrderRepository
	recalc    *appsettlement.RecalculationService
	eventBus  shared.EventPublisher
}

// NewTourService creates a new TourService
func NewTourService(
	tourRepo tour.TourRepository,
	orderRepo tour.OrderRepository,
	recalc *appsettlement.RecalculationService,
	eventBus shared.EventPublisher,
) *TourService {
	return &TourService{
		tourRepo:  tourRepo,
		orderRepo: orderRepo,
		recalc:    recalc,
		eventBus:  eventBus,
	}
}

// TourResponse represents a tour in API responses
type TourResponse struct {
	ID                  uuid.UUID       `json:"id"`
	TourNumber          string          `json:"tour_number"`
	Name                string          `json:"name"`
	Destination         string          `json:"destination"`
	DepartureDate       *time.Time      `json:"departure_date,omitempty"`
	ReturnDate          *time.Time      `json:"return_date,omitempty"`
	MaxParticipants     int             `json:"max_participants"`
	CurrentParticipants int             `json:"current_participants"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Profit              decimal.Decimal `json:"profit"`
	Status              string          `json:"status"`
	Remark              string          `json:"remark,omitempty"`
	ClosedAt            *time.Time      `json:"closed_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// CreateTourRequest represents a request to create a tour
type CreateTourRequest struct {
	TourNumber      string     `json:"tour_number" binding:"required"`
	Name            string     `json:"name" binding:"required"`
	Destination     string     `json:"destination"`
	DepartureDate   *time.Time `json:"departure_date"`
	ReturnDate      *time.Time `json:"return_date"`
	MaxParticipants int        `json:"max_participants"`
	Remark          string     `json:"remark"`
}

// UpdateTourRequest represents a request to update a tour's basic fields.
// Derived fields are not updatable; they are owned by recomputation.
type UpdateTourRequest struct {
	Name            string     `json:"name" binding:"required"`
	Destination     string     `json:"destination"`
	DepartureDate   *time.Time `json:"departure_date"`
	ReturnDate      *time.Time `json:"return_date"`
	MaxParticipants int        `json:"max_participants"`
	Remark          string     `json:"remark"`
}

// TourListFilter defines filtering options for tour list queries
type TourListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateTour creates a new tour in DRAFT status
func (s *TourService) CreateTour(ctx context.Context, req CreateTourRequest) (*TourResponse, error) {
	exists, err := s.tourRepo.ExistsByTourNumber(ctx, req.TourNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_TOUR_NUMBER", "Tour number already exists")
	}

	t, err := tour.NewTour(req.TourNumber, req.Name, req.Destination, req.DepartureDate, req.ReturnDate, req.MaxParticipants)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		t.SetRemark(req.Remark)
	}

	if err := s.tourRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, t)

	return toTourResponse(t), nil
}

// GetTourByID gets a tour by ID
func (s *TourService) GetTourByID(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	t, err := s.findTour(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTourResponse(t), nil
}

// ListTours lists tours with filtering and pagination
func (s *TourService) ListTours(ctx context.Context, filter TourListFilter) (*shared.Paginated[TourResponse], error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	var tours []tour.Tour
	var err error
	if filter.Status != "" {
		status := tour.TourStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown tour status")
		}
		tours, err = s.tourRepo.FindByStatus(ctx, status, domainFilter)
	} else {
		tours, err = s.tourRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.tourRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]TourResponse, len(tours))
	for i := range tours {
		items[i] = *toTourResponse(&tours[i])
	}

	return shared.NewPaginated(items, total, domainFilter.GetPage(), domainFilter.GetPageSize()), nil
}

// UpdateTour updates a tour's descriptive fields
func (s *TourService) UpdateTour(ctx context.Context, id uuid.UUID, req UpdateTourRequest) (*TourResponse, error) {
	t, err := s.findTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot update a closed tour")
	}
	if req.MaxParticipants < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Max participants cannot be negative")
	}
	if req.DepartureDate != nil && req.ReturnDate != nil && req.ReturnDate.Before(*req.DepartureDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Return date cannot be before departure date")
	}

	t.Name = req.Name
	t.Destination = req.Destination
	t.DepartureDate = req.DepartureDate
	t.ReturnDate = req.ReturnDate
	t.MaxParticipants = req.MaxParticipants
	t.SetRemark(req.Remark)

	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}

	return toTourResponse(t), nil
}

// OpenTour transitions a tour from DRAFT to OPEN
func (s *TourService) OpenTour(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	t, err := s.findTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Open(); err != nil {
		return nil, err
	}
	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, t)

	return toTourResponse(t), nil
}

// CloseTour evaluates the closure gate and closes the tour when it passes.
// A blocked closure is returned as a result, not an error.
func (s *TourService) CloseTour(ctx context.Context, id uuid.UUID) (settlement.ClosureResult, error) {
	return s.recalc.CloseTour(ctx, id)
}

// RecalculateTour forces a full recomputation of the tour's derived fields:
// participants, revenue, cost and profit. Used as an operator repair tool.
func (s *TourService) RecalculateTour(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	if _, err := s.recalc.RecomputeParticipants(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.recalc.RecomputeRevenue(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.recalc.RecomputeCost(ctx, id); err != nil {
		return nil, err
	}
	return s.GetTourByID(ctx, id)
}

func (s *TourService) findTour(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	t, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found")
	}
	return t, nil
}

func (s *TourService) publishEvents(ctx context.Context, t *tour.Tour) {
	if s.eventBus == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	t.ClearDomainEvents()
}

func toTourResponse(t *tour.Tour) *TourResponse {
	return &TourResponse{
		ID:                  t.ID,
		TourNumber:          t.TourNumber,
		Name:                t.Name,
		Destination:         t.Destination,
		DepartureDate:       t.DepartureDate,
		ReturnDate:          t.ReturnDate,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		TotalRevenue:        t.TotalRevenue,
		TotalCost:           t.TotalCost,
		Profit:              t.Profit,
		Status:              t.Status.String(),
		Remark:              t.Remark,
		ClosedAt:            t.ClosedAt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		Version:             t.Version,
	}
}
