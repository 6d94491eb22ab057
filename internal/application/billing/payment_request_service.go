package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appsettlement "github.com/tourops/backend/internal/application/settlement"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/tour"
)

// PaymentRequestService provides application-level payment request
// operations. Every mutation that changes a request's cost contribution
// runs the cost recomputation chain before returning.
type PaymentRequestService struct {
	requestRepo billing.PaymentRequestRepository
	tourRepo    tour.TourRepository
	recalc      *appsettlement.RecalculationService
	eventBus    shared.EventPublisher
}

// NewPaymentRequestService creates a new PaymentRequestService
func NewPaymentRequestService(
	requestRepo billing.PaymentRequestRepository,
	tourRepo tour.TourRepository,
	recalc *appsettlement.RecalculationService,
	eventBus shared.EventPublisher,
) *PaymentRequestService {
	return &PaymentRequestService{
		requestRepo: requestRepo,
		tourRepo:    tourRepo,
		recalc:      recalc,
		eventBus:    eventBus,
	}
}

// PaymentRequestItemResponse represents an expense line in API responses
type PaymentRequestItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentRequestResponse represents a payment request in API responses
type PaymentRequestResponse struct {
	ID            uuid.UUID                    `json:"id"`
	RequestNumber string                       `json:"request_number"`
	TourID        uuid.UUID                    `json:"tour_id"`
	SupplierName  string                       `json:"supplier_name"`
	Status        string                       `json:"status"`
	Items         []PaymentRequestItemResponse `json:"items"`
	TotalAmount   decimal.Decimal              `json:"total_amount"`
	Remark        string                       `json:"remark,omitempty"`
	RejectReason  string                       `json:"reject_reason,omitempty"`
	Deleted       bool                         `json:"deleted"`
	PaidAt        *time.Time                   `json:"paid_at,omitempty"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
	Version       int                          `json:"version"`
}

// PaymentRequestItemInput is one expense line in a create request
type PaymentRequestItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	Subtotal    decimal.Decimal `json:"subtotal" binding:"required"`
}

// CreatePaymentRequestRequest represents a request to submit a payment request
type CreatePaymentRequestRequest struct {
	RequestNumber string                    `json:"request_number" binding:"required"`
	TourID        uuid.UUID                 `json:"tour_id" binding:"required"`
	SupplierName  string                    `json:"supplier_name" binding:"required"`
	Items         []PaymentRequestItemInput `json:"items" binding:"required"`
	Remark        string                    `json:"remark"`
}

// RejectPaymentRequestRequest represents a request to reject a payment request
type RejectPaymentRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PaymentRequestListFilter defines filtering options for list queries
type PaymentRequestListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreatePaymentRequest submits a new payment request against a tour and
// runs the cost recomputation chain: a pending request already counts.
func (s *PaymentRequestService) CreatePaymentRequest(ctx context.Context, req CreatePaymentRequestRequest) (*PaymentRequestResponse, error) {
	existing, err := s.requestRepo.FindByRequestNumber(ctx, req.RequestNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST_NUMBER", "Request number already exists")
	}

	t, err := s.tourRepo.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found")
	}
	if t.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add payment requests to a closed tour")
	}

	pr, err := billing.NewPaymentRequest(req.RequestNumber, req.TourID, req.SupplierName)
	if err != nil {
		return nil, err
	}
	pr.Remark = req.Remark

	for _, item := range req.Items {
		if _, err := pr.AddItem(item.Description, item.Quantity, valueobject.NewMoneyCNY(item.Subtotal)); err != nil {
			return nil, err
		}
	}

	if err := s.requestRepo.Save(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, pr)

	if err := s.recalc.OnPaymentRequestChanged(ctx, pr.TourID); err != nil {
		return nil, err
	}

	return toPaymentRequestResponse(pr), nil
}

// GetPaymentRequestByID gets a payment request by ID
func (s *PaymentRequestService) GetPaymentRequestByID(ctx context.Context, id uuid.UUID) (*PaymentRequestResponse, error) {
	pr, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentRequestResponse(pr), nil
}

// ListPaymentRequests lists payment requests with filtering and pagination
func (s *PaymentRequestService) ListPaymentRequests(ctx context.Context, filter PaymentRequestListFilter) (*shared.Paginated[PaymentRequestResponse], error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentRequestResponse, len(requests))
	for i := range requests {
		items[i] = *toPaymentRequestResponse(&requests[i])
	}
	return shared.NewPaginated(items, total, domainFilter.GetPage(), domainFilter.GetPageSize()), nil
}

// ApprovePaymentRequest approves a pending request. The status change does
// not alter the cost contribution, so no recomputation is needed.
func (s *PaymentRequestService) ApprovePaymentRequest(ctx context.Context, id uuid.UUID) (*PaymentRequestResponse, error) {
	return s.mutate(ctx, id, false, func(pr *billing.PaymentRequest) error {
		return pr.Approve()
	})
}

// ConfirmPaymentRequest confirms an approved request
func (s *PaymentRequestService) ConfirmPaymentRequest(ctx context.Context, id uuid.UUID) (*PaymentRequestResponse, error) {
	return s.mutate(ctx, id, false, func(pr *billing.PaymentRequest) error {
		return pr.Confirm()
	})
}

// RejectPaymentRequest rejects a request. Its cost contribution drops to
// zero, so the cost recomputation chain runs.
func (s *PaymentRequestService) RejectPaymentRequest(ctx context.Context, id uuid.UUID, req RejectPaymentRequestRequest) (*PaymentRequestResponse, error) {
	return s.mutate(ctx, id, true, func(pr *billing.PaymentRequest) error {
		return pr.Reject(req.Reason)
	})
}

// DeletePaymentRequest soft-deletes a request and runs the cost
// recomputation chain
func (s *PaymentRequestService) DeletePaymentRequest(ctx context.Context, id uuid.UUID) (*PaymentRequestResponse, error) {
	return s.mutate(ctx, id, true, func(pr *billing.PaymentRequest) error {
		return pr.Delete()
	})
}

// mutate loads, mutates, saves and optionally recomputes cost
func (s *PaymentRequestService) mutate(ctx context.Context, id uuid.UUID, recompute bool, op func(*billing.PaymentRequest) error) (*PaymentRequestResponse, error) {
	pr, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(pr); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, pr)

	if recompute {
		if err := s.recalc.OnPaymentRequestChanged(ctx, pr.TourID); err != nil {
			return nil, err
		}
	}

	return toPaymentRequestResponse(pr), nil
}

func (s *PaymentRequestService) findRequest(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	pr, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, shared.NewDomainError("PAYMENT_REQUEST_NOT_FOUND", "Payment request not found")
	}
	return pr, nil
}

func (s *PaymentRequestService) publishEvents(ctx context.Context, pr *billing.PaymentRequest) {
	if s.eventBus == nil {
		return
	}
	events := pr.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	pr.ClearDomainEvents()
}

func toPaymentRequestResponse(pr *billing.PaymentRequest) *PaymentRequestResponse {
	items := make([]PaymentRequestItemResponse, len(pr.Items))
	for i, item := range pr.Items {
		items[i] = PaymentRequestItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return &PaymentRequestResponse{
		ID:            pr.ID,
		RequestNumber: pr.RequestNumber,
		TourID:        pr.TourID,
		SupplierName:  pr.SupplierName,
		Status:        pr.Status.String(),
		Items:         items,
		TotalAmount:   pr.TotalAmount(),
		Remark:        pr.Remark,
		RejectReason:  pr.RejectReason,
		Deleted:       pr.IsDeleted(),
		PaidAt:        pr.PaidAt,
		CreatedAt:     pr.CreatedAt,
		UpdatedAt:     pr.UpdatedAt,
		Version:       pr.Version,
	}
}
