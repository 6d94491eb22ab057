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

// ReceiptService provides application-level receipt operations. Confirming
// or voiding a receipt runs the revenue recomputation chain before the call
// returns.
type ReceiptService struct {
	receiptRepo billing.ReceiptRepository
	orderRepo   tour.OrderRepository
	tourRepo    tour.TourRepository
	recalc      *appsettlement.RecalculationService
	eventBus    shared.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo billing.ReceiptRepository,
	orderRepo tour.OrderRepository,
	tourRepo tour.TourRepository,
	recalc *appsettlement.RecalculationService,
	eventBus shared.EventPublisher,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		tourRepo:    tourRepo,
		recalc:      recalc,
		eventBus:    eventBus,
	}
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID        `json:"id"`
	ReceiptNumber string           `json:"receipt_number"`
	OrderID       *uuid.UUID       `json:"order_id,omitempty"`
	TourID        *uuid.UUID       `json:"tour_id,omitempty"`
	Status        string           `json:"status"`
	ActualAmount  *decimal.Decimal `json:"actual_amount,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	ReceivedAt    *time.Time       `json:"received_at,omitempty"`
	Remark        string           `json:"remark,omitempty"`
	Voided        bool             `json:"voided"`
	VoidReason    string           `json:"void_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Version       int              `json:"version"`
}

// CreateReceiptRequest represents a request to record a receipt. At least
// one of order_id and tour_id must be set.
type CreateReceiptRequest struct {
	ReceiptNumber string     `json:"receipt_number" binding:"required"`
	OrderID       *uuid.UUID `json:"order_id"`
	TourID        *uuid.UUID `json:"tour_id"`
	PaymentMethod string     `json:"payment_method"`
	Remark        string     `json:"remark"`
}

// ConfirmReceiptRequest represents a request to confirm a receipt with the
// actually collected amount
type ConfirmReceiptRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount" binding:"required"`
}

// VoidReceiptRequest represents a request to void a receipt
type VoidReceiptRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReceiptListFilter defines filtering options for receipt list queries
type ReceiptListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateReceipt records a new pending receipt. Pending receipts do not
// contribute to aggregates, so no recomputation is needed here.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	existing, err := s.receiptRepo.FindByReceiptNumber(ctx, req.ReceiptNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_RECEIPT_NUMBER", "Receipt number already exists")
	}

	if req.OrderID != nil {
		o, err := s.orderRepo.FindByID(ctx, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
	}
	if req.TourID != nil {
		t, err := s.tourRepo.FindByID(ctx, *req.TourID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found")
		}
	}

	r, err := billing.NewReceipt(req.ReceiptNumber, req.OrderID, req.TourID, req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	r.Remark = req.Remark

	if err := s.receiptRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)

	return toReceiptResponse(r), nil
}

// GetReceiptByID gets a receipt by ID
func (s *ReceiptService) GetReceiptByID(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	r, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(r), nil
}

// ListReceipts lists receipts with filtering and pagination
func (s *ReceiptService) ListReceipts(ctx context.Context, filter ReceiptListFilter) (*shared.Paginated[ReceiptResponse], error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		items[i] = *toReceiptResponse(&receipts[i])
	}
	return shared.NewPaginated(items, total, domainFilter.GetPage(), domainFilter.GetPageSize()), nil
}

// ConfirmReceipt confirms a receipt with the collected amount and runs the
// recomputation chain rooted at the receipt
func (s *ReceiptService) ConfirmReceipt(ctx context.Context, id uuid.UUID, req ConfirmReceiptRequest) (*ReceiptResponse, error) {
	r, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.Confirm(valueobject.NewMoneyCNY(req.ActualAmount)); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)

	if err := s.recalc.OnReceiptChanged(ctx, r); err != nil {
		return nil, err
	}

	return toReceiptResponse(r), nil
}

// VoidReceipt voids a receipt and runs the recomputation chain, dropping
// its contribution from every aggregate
func (s *ReceiptService) VoidReceipt(ctx context.Context, id uuid.UUID, req VoidReceiptRequest) (*ReceiptResponse, error) {
	r, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.Void(req.Reason); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)

	if err := s.recalc.OnReceiptChanged(ctx, r); err != nil {
		return nil, err
	}

	return toReceiptResponse(r), nil
}

func (s *ReceiptService) findReceipt(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	r, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
	}
	return r, nil
}

func (s *ReceiptService) publishEvents(ctx context.Context, r *billing.Receipt) {
	if s.eventBus == nil {
		return
	}
	events := r.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	r.ClearDomainEvents()
}

func toReceiptResponse(r *billing.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		OrderID:       r.OrderID,
		TourID:        r.TourID,
		Status:        r.Status.String(),
		ActualAmount:  r.ActualAmount,
		PaymentMethod: r.PaymentMethod,
		ReceivedAt:    r.ReceivedAt,
		Remark:        r.Remark,
		Voided:        r.IsVoided(),
		VoidReason:    r.VoidReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}
