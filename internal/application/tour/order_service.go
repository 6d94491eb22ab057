package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appsettlement "github.com/tourops/backend/internal/application/settlement"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/tour"
)

// OrderService provides application-level order operations. Every mutation
// that touches the member set runs the recomputation chain before returning,
// so callers always observe consistent derived fields.
type OrderService struct {
	orderRepo tour.OrderRepository
	tourRepo  tour.TourRepository
	recalc    *appsettlement.RecalculationService
	eventBus  shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo tour.OrderRepository,
	tourRepo tour.TourRepository,
	recalc *appsettlement.RecalculationService,
	eventBus shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		tourRepo:  tourRepo,
		recalc:    recalc,
		eventBus:  eventBus,
	}
}

// OrderMemberResponse represents a member row in API responses
type OrderMemberResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	IdentityType string          `json:"identity_type"`
	PassportNo   string          `json:"passport_no,omitempty"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	Remark       string          `json:"remark,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	TourID          uuid.UUID             `json:"tour_id"`
	ContactName     string                `json:"contact_name"`
	ContactPhone    string                `json:"contact_phone,omitempty"`
	Members         []OrderMemberResponse `json:"members"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	PaymentStatus   string                `json:"payment_status"`
	Remark          string                `json:"remark,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	OrderNumber  string               `json:"order_number" binding:"required"`
	TourID       uuid.UUID            `json:"tour_id" binding:"required"`
	ContactName  string               `json:"contact_name" binding:"required"`
	ContactPhone string               `json:"contact_phone"`
	Members      []AddMemberRequest   `json:"members"`
	Remark       string               `json:"remark"`
}

// AddMemberRequest represents a request to add a member row to an order.
// TotalPayable may be negative for discount/adjustment rows.
type AddMemberRequest struct {
	Name         string          `json:"name" binding:"required"`
	IdentityType string          `json:"identity_type" binding:"required"`
	PassportNo   string          `json:"passport_no"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	Remark       string          `json:"remark"`
}

// OrderListFilter defines filtering options for order list queries
type OrderListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateOrder creates a new order under a tour, optionally with its initial
// member rows, and runs the recomputation chain
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number already exists")
	}

	t, err := s.tourRepo.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found")
	}
	if t.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add orders to a closed tour")
	}

	o, err := tour.NewOrder(req.OrderNumber, req.TourID, req.ContactName, req.ContactPhone)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		o.SetRemark(req.Remark)
	}

	for _, mr := range req.Members {
		if _, err := s.addMemberRow(o, mr); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	if err := s.recalc.OnOrderMembersChanged(ctx, o.ID); err != nil {
		return nil, err
	}

	return s.GetOrderByID(ctx, o.ID)
}

// GetOrderByID gets an order by ID, including its member rows
func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrdersByTour lists all orders of a tour
func (s *OrderService) ListOrdersByTour(ctx context.Context, tourID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *toOrderResponse(&orders[i])
	}
	return items, nil
}

// ListOrders lists orders with filtering and pagination
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *toOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, domainFilter.GetPage(), domainFilter.GetPageSize()), nil
}

// AddMember adds a member row to an order and runs the recomputation chain
func (s *OrderService) AddMember(ctx context.Context, orderID uuid.UUID, req AddMemberRequest) (*OrderResponse, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guardTourOpen(ctx, o.TourID); err != nil {
		return nil, err
	}

	if _, err := s.addMemberRow(o, req); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	if err := s.recalc.OnOrderMembersChanged(ctx, o.ID); err != nil {
		return nil, err
	}

	return s.GetOrderByID(ctx, o.ID)
}

// RemoveMember removes a member row from an order and runs the
// recomputation chain. Removing a row can flip the order to PAID when the
// collected amount now covers the reduced total.
func (s *OrderService) RemoveMember(ctx context.Context, orderID, memberID uuid.UUID) (*OrderResponse, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guardTourOpen(ctx, o.TourID); err != nil {
		return nil, err
	}

	if err := o.RemoveMember(memberID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	if err := s.recalc.OnOrderMembersChanged(ctx, o.ID); err != nil {
		return nil, err
	}

	return s.GetOrderByID(ctx, o.ID)
}

func (s *OrderService) addMemberRow(o *tour.Order, req AddMemberRequest) (*tour.OrderMember, error) {
	identityType := tour.IdentityType(req.IdentityType)
	m, err := o.AddMember(req.Name, identityType, valueobject.NewMoneyCNY(req.TotalPayable))
	if err != nil {
		return nil, err
	}
	m.PassportNo = req.PassportNo
	m.Remark = req.Remark
	return m, nil
}

func (s *OrderService) guardTourOpen(ctx context.Context, tourID uuid.UUID) error {
	t, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return err
	}
	if t == nil {
		return shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found")
	}
	if t.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify orders of a closed tour")
	}
	return nil
}

func (s *OrderService) findOrder(ctx context.Context, id uuid.UUID) (*tour.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	return o, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *tour.Order) {
	if s.eventBus == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	o.ClearDomainEvents()
}

func toOrderResponse(o *tour.Order) *OrderResponse {
	members := make([]OrderMemberResponse, len(o.Members))
	for i, m := range o.Members {
		members[i] = OrderMemberResponse{
			ID:           m.ID,
			Name:         m.Name,
			IdentityType: string(m.IdentityType),
			PassportNo:   m.PassportNo,
			TotalPayable: m.TotalPayable,
			Remark:       m.Remark,
		}
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		TourID:          o.TourID,
		ContactName:     o.ContactName,
		ContactPhone:    o.ContactPhone,
		Members:         members,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount,
		PaymentStatus:   o.PaymentStatus.String(),
		Remark:          o.Remark,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}
