package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/settlement"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/tour"
)

// RecalculationService runs the recomputation chains that keep order and
// tour derived fields consistent after a mutation, and evaluates the
// closure gate. Each chain runs synchronously in the caller's unit of
// work: it completes, or visibly fails, before the mutation is done.
//
// Recomputation per root entity is serialized with a keyed mutex and each
// pass recomputes from a fresh read, so concurrent triggers converge on
// the same aggregates regardless of arrival order.
type RecalculationService struct {
	tourRepo    tour.TourRepository
	orderRepo   tour.OrderRepository
	receiptRepo billing.ReceiptRepository
	requestRepo billing.PaymentRequestRepository
	eventBus    shared.EventPublisher
	locks       *keyedMutex
}

// NewRecalculationService creates a new RecalculationService
func NewRecalculationService(
	tourRepo tour.TourRepository,
	orderRepo tour.OrderRepository,
	receiptRepo billing.ReceiptRepository,
	requestRepo billing.PaymentRequestRepository,
	eventBus shared.EventPublisher,
) *RecalculationService {
	return &RecalculationService{
		tourRepo:    tourRepo,
		orderRepo:   orderRepo,
		receiptRepo: receiptRepo,
		requestRepo: requestRepo,
		eventBus:    eventBus,
		locks:       newKeyedMutex(),
	}
}

// RecomputeOrder recomputes the order's derived fields from its current
// member and receipt sets. A missing order is fatal to the call, never a
// silent no-op.
func (s *RecalculationService) RecomputeOrder(ctx context.Context, orderID uuid.UUID) (settlement.OrderAggregates, error) {
	_, aggs, err := s.recomputeOrder(ctx, orderID)
	return aggs, err
}

// recomputeOrder runs the order pass and returns the saved order so chain
// entry points can continue to the owning tour without a second read.
func (s *RecalculationService) recomputeOrder(ctx context.Context, orderID uuid.UUID) (*tour.Order, settlement.OrderAggregates, error) {
	unlock := s.locks.Lock("order:" + orderID.String())
	defer unlock()

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, settlement.OrderAggregates{}, fmt.Errorf("failed to load order: %w", err)
	}
	if o == nil {
		return nil, settlement.OrderAggregates{}, shared.NewDomainError("ORDER_NOT_FOUND", fmt.Sprintf("Order %s not found", orderID))
	}

	for i := range o.Members {
		if o.Members[i].OrderID != o.ID {
			return nil, settlement.OrderAggregates{}, shared.ErrInconsistentState
		}
	}

	receipts, err := s.receiptRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, settlement.OrderAggregates{}, fmt.Errorf("failed to load receipts: %w", err)
	}
	for i := range receipts {
		if !receipts[i].BelongsToOrder(orderID) {
			return nil, settlement.OrderAggregates{}, shared.ErrInconsistentState
		}
	}

	aggs := settlement.AggregateOrder(o.ID, o.Members, receipts)
	if err := o.ApplyAggregates(aggs.TotalAmount, aggs.PaidAmount, aggs.RemainingAmount, aggs.PaymentStatus); err != nil {
		return nil, settlement.OrderAggregates{}, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, settlement.OrderAggregates{}, fmt.Errorf("failed to save order aggregates: %w", err)
	}

	s.publishEvents(ctx, o)

	return o, aggs, nil
}

// RecomputeParticipants recounts heads across all orders of the tour
func (s *RecalculationService) RecomputeParticipants(ctx context.Context, tourID uuid.UUID) (int, error) {
	unlock := s.locks.Lock("tour:" + tourID.String())
	defer unlock()

	t, err := s.loadTour(ctx, tourID)
	if err != nil {
		return 0, err
	}

	orders, err := s.orderRepo.FindByTour(ctx, tourID)
	if err != nil {
		return 0, fmt.Errorf("failed to load orders: %w", err)
	}

	count := settlement.CountParticipants(orders)
	if err := t.ApplyParticipants(count); err != nil {
		return 0, err
	}

	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return 0, fmt.Errorf("failed to save participant count: %w", err)
	}

	s.publishEvents(ctx, t)

	return count, nil
}

// RecomputeRevenue recomputes the tour's revenue from countable receipts
// and refreshes profit in the same pass: a fresh revenue figure is never
// persisted alongside a stale profit.
func (s *RecalculationService) RecomputeRevenue(ctx context.Context, tourID uuid.UUID) (decimal.Decimal, error) {
	unlock := s.locks.Lock("tour:" + tourID.String())
	defer unlock()

	t, err := s.loadTour(ctx, tourID)
	if err != nil {
		return decimal.Zero, err
	}

	orders, err := s.orderRepo.FindByTour(ctx, tourID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load orders: %w", err)
	}

	orderIDs := make([]uuid.UUID, len(orders))
	for i := range orders {
		orderIDs[i] = orders[i].ID
	}

	receipts, err := s.receiptRepo.FindByOrders(ctx, orderIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load order receipts: %w", err)
	}
	direct, err := s.receiptRepo.FindByTourDirect(ctx, tourID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load tour receipts: %w", err)
	}
	receipts = append(receipts, direct...)

	revenue := settlement.AggregateRevenue(tourID, orders, receipts)
	t.ApplyRevenue(valueobject.NewMoneyCNY(revenue))

	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save revenue: %w", err)
	}

	s.publishEvents(ctx, t)

	return revenue, nil
}

// RecomputeCost recomputes the tour's cost from active payment requests
// and refreshes profit in the same pass.
func (s *RecalculationService) RecomputeCost(ctx context.Context, tourID uuid.UUID) (decimal.Decimal, error) {
	unlock := s.locks.Lock("tour:" + tourID.String())
	defer unlock()

	t, err := s.loadTour(ctx, tourID)
	if err != nil {
		return decimal.Zero, err
	}

	requests, err := s.requestRepo.FindByTour(ctx, tourID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load payment requests: %w", err)
	}
	for i := range requests {
		if requests[i].TourID != tourID {
			return decimal.Zero, shared.ErrInconsistentState
		}
	}

	cost := settlement.AggregateCost(tourID, requests)
	t.ApplyCost(valueobject.NewMoneyCNY(cost))

	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save cost: %w", err)
	}

	s.publishEvents(ctx, t)

	return cost, nil
}

// CloseTour evaluates the closure gate and, when it passes, marks the
// tour CLOSED. A blocked closure is a normal result carrying the reason;
// the tour status is untouched. Closing an already closed tour is an
// idempotent success.
func (s *RecalculationService) CloseTour(ctx context.Context, tourID uuid.UUID) (settlement.ClosureResult, error) {
	unlock := s.locks.Lock("tour:" + tourID.String())
	defer unlock()

	t, err := s.loadTour(ctx, tourID)
	if err != nil {
		return settlement.ClosureResult{}, err
	}

	orders, err := s.orderRepo.FindByTour(ctx, tourID)
	if err != nil {
		return settlement.ClosureResult{}, fmt.Errorf("failed to load orders: %w", err)
	}

	if t.IsClosed() {
		return settlement.ClosureResult{Allowed: true, OrderCount: len(orders)}, nil
	}

	result := settlement.EvaluateClosure(orders)
	if !result.Allowed {
		return result, nil
	}

	if err := t.Close(result.OrderCount); err != nil {
		return settlement.ClosureResult{}, err
	}

	if err := s.tourRepo.SaveWithLock(ctx, t); err != nil {
		return settlement.ClosureResult{}, fmt.Errorf("failed to save closed tour: %w", err)
	}

	s.publishEvents(ctx, t)

	return result, nil
}

// OnOrderMembersChanged runs the chain rooted at a member mutation:
// order aggregates, then the tour's participant count.
func (s *RecalculationService) OnOrderMembersChanged(ctx context.Context, orderID uuid.UUID) error {
	o, _, err := s.recomputeOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := s.RecomputeParticipants(ctx, o.TourID); err != nil {
		return err
	}
	return nil
}

// OnReceiptChanged runs the chain rooted at a receipt mutation: the
// owning order's aggregates, then the owning tour's revenue and profit.
func (s *RecalculationService) OnReceiptChanged(ctx context.Context, r *billing.Receipt) error {
	var tourID uuid.UUID

	if r.OrderID != nil {
		o, _, err := s.recomputeOrder(ctx, *r.OrderID)
		if err != nil {
			return err
		}
		tourID = o.TourID
	} else if r.TourID != nil {
		tourID = *r.TourID
	} else {
		return shared.NewDomainError("INVALID_REFERENCE", "Receipt references neither an order nor a tour")
	}

	if _, err := s.RecomputeRevenue(ctx, tourID); err != nil {
		return err
	}
	return nil
}

// OnPaymentRequestChanged runs the chain rooted at a payment request
// mutation: the tour's cost and profit.
func (s *RecalculationService) OnPaymentRequestChanged(ctx context.Context, tourID uuid.UUID) error {
	if _, err := s.RecomputeCost(ctx, tourID); err != nil {
		return err
	}
	return nil
}

func (s *RecalculationService) loadTour(ctx context.Context, tourID uuid.UUID) (*tour.Tour, error) {
	t, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if t == nil {
		return nil, shared.NewDomainError("TOUR_NOT_FOUND", fmt.Sprintf("Tour %s not found", tourID))
	}
	return t, nil
}

func (s *RecalculationService) publishEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventBus == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publication failures are swallowed: aggregates are already
	// persisted and the in-memory bus logs handler errors itself.
	_ = s.eventBus.Publish(ctx, events...)
	root.ClearDomainEvents()
}
