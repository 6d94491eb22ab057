package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appsettlement "github.com/tourops/backend/internal/application/settlement"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
)

// DisbursementService provides application-level disbursement operations.
// Confirming a disbursement advances every covered payment request to PAID;
// the cost recomputation chain still runs because status transitions are
// recorded through it, even though PAID requests keep counting as cost.
type DisbursementService struct {
	disbursementRepo billing.DisbursementOrderRepository
	requestRepo      billing.PaymentRequestRepository
	recalc           *appsettlement.RecalculationService
	eventBus         shared.EventPublisher
}

// NewDisbursementService creates a new DisbursementService
func NewDisbursementService(
	disbursementRepo billing.DisbursementOrderRepository,
	requestRepo billing.PaymentRequestRepository,
	recalc *appsettlement.RecalculationService,
	eventBus shared.EventPublisher,
) *DisbursementService {
	return &DisbursementService{
		disbursementRepo: disbursementRepo,
		requestRepo:      requestRepo,
		recalc:           recalc,
		eventBus:         eventBus,
	}
}

// DisbursementResponse represents a disbursement order in API responses
type DisbursementResponse struct {
	ID                 uuid.UUID   `json:"id"`
	DisbursementNumber string      `json:"disbursement_number"`
	RequestIDs         []uuid.UUID `json:"request_ids"`
	Status             string      `json:"status"`
	Remark             string      `json:"remark,omitempty"`
	PaidAt             *time.Time  `json:"paid_at,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Version            int         `json:"version"`
}

// CreateDisbursementRequest represents a request to batch confirmed payment
// requests into a disbursement order
type CreateDisbursementRequest struct {
	DisbursementNumber string      `json:"disbursement_number" binding:"required"`
	RequestIDs         []uuid.UUID `json:"request_ids" binding:"required"`
	Remark             string      `json:"remark"`
}

// DisbursementListFilter defines filtering options for list queries
type DisbursementListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateDisbursement creates a pending disbursement order covering a batch
// of confirmed payment requests. Only CONFIRMED requests are eligible.
func (s *DisbursementService) CreateDisbursement(ctx context.Context, req CreateDisbursementRequest) (*DisbursementResponse, error) {
	existing, err := s.disbursementRepo.FindByDisbursementNumber(ctx, req.DisbursementNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_DISBURSEMENT_NUMBER", "Disbursement number already exists")
	}

	requests, err := s.requestRepo.FindByIDs(ctx, req.RequestIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) != len(req.RequestIDs) {
		return nil, shared.NewDomainError("PAYMENT_REQUEST_NOT_FOUND", "One or more payment requests not found")
	}
	for i := range requests {
		pr := &requests[i]
		if pr.IsDeleted() || pr.Status != billing.PaymentRequestStatusConfirmed {
			return nil, shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Payment request %s is not confirmed", pr.RequestNumber))
		}
	}

	d, err := billing.NewDisbursementOrder(req.DisbursementNumber, req.RequestIDs)
	if err != nil {
		return nil, err
	}
	d.Remark = req.Remark

	if err := s.disbursementRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	return toDisbursementResponse(d), nil
}

// GetDisbursementByID gets a disbursement order by ID
func (s *DisbursementService) GetDisbursementByID(ctx context.Context, id uuid.UUID) (*DisbursementResponse, error) {
	d, err := s.findDisbursement(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDisbursementResponse(d), nil
}

// ListDisbursements lists disbursement orders with filtering and pagination
func (s *DisbursementService) ListDisbursements(ctx context.Context, filter DisbursementListFilter) (*shared.Paginated[DisbursementResponse], error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	orders, err := s.disbursementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.disbursementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]DisbursementResponse, len(orders))
	for i := range orders {
		items[i] = *toDisbursementResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, domainFilter.GetPage(), domainFilter.GetPageSize()), nil
}

// ConfirmDisbursement marks the disbursement paid and advances every
// covered payment request to PAID, then recomputes cost for each affected
// tour once.
func (s *DisbursementService) ConfirmDisbursement(ctx context.Context, id uuid.UUID) (*DisbursementResponse, error) {
	d, err := s.findDisbursement(ctx, id)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.FindByIDs(ctx, d.RequestIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) != len(d.RequestIDs) {
		return nil, shared.ErrInconsistentState
	}

	if err := d.MarkPaid(); err != nil {
		return nil, err
	}

	tourIDs := make(map[uuid.UUID]struct{})
	for i := range requests {
		pr := &requests[i]
		if err := pr.MarkPaid(); err != nil {
			return nil, err
		}
		if err := s.requestRepo.SaveWithLock(ctx, pr); err != nil {
			return nil, err
		}
		tourIDs[pr.TourID] = struct{}{}
	}

	if err := s.disbursementRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	for tourID := range tourIDs {
		if err := s.recalc.OnPaymentRequestChanged(ctx, tourID); err != nil {
			return nil, err
		}
	}

	return toDisbursementResponse(d), nil
}

func (s *DisbursementService) findDisbursement(ctx context.Context, id uuid.UUID) (*billing.DisbursementOrder, error) {
	d, err := s.disbursementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.NewDomainError("DISBURSEMENT_NOT_FOUND", "Disbursement order not found")
	}
	return d, nil
}

func (s *DisbursementService) publishEvents(ctx context.Context, d *billing.DisbursementOrder) {
	if s.eventBus == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	d.ClearDomainEvents()
}

func toDisbursementResponse(d *billing.DisbursementOrder) *DisbursementResponse {
	return &DisbursementResponse{
		ID:                 d.ID,
		DisbursementNumber: d.DisbursementNumber,
		RequestIDs:         d.RequestIDs,
		Status:             d.Status.String(),
		Remark:             d.Remark,
		PaidAt:             d.PaidAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Version:            d.Version,
	}
}
