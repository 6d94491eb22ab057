package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/tour"
)

// MockTourRepository is a mock implementation of tour.TourRepository
type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) FindByTourNumber(ctx context.Context, tourNumber string) (*tour.Tour, error) {
	args := m.Called(ctx, tourNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tour.Tour, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tour.Tour), args.Error(1)
}

func (m *MockTourRepository) FindByStatus(ctx context.Context, status tour.TourStatus, filter shared.Filter) ([]tour.Tour, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]tour.Tour), args.Error(1)
}

func (m *MockTourRepository) Save(ctx context.Context, t *tour.Tour) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTourRepository) SaveWithLock(ctx context.Context, t *tour.Tour) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTourRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTourRepository) ExistsByTourNumber(ctx context.Context, tourNumber string) (bool, error) {
	args := m.Called(ctx, tourNumber)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of tour.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*tour.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*tour.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTour(ctx context.Context, tourID uuid.UUID) ([]tour.Order, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]tour.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tour.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tour.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *tour.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *tour.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

// MockReceiptRepository is a mock implementation of billing.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*billing.Receipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]billing.Receipt, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]billing.Receipt, error) {
	args := m.Called(ctx, orderIDs)
	return args.Get(0).([]billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByTourDirect(ctx context.Context, tourID uuid.UUID) ([]billing.Receipt, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Receipt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, r *billing.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveWithLock(ctx context.Context, r *billing.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRequestRepository is a mock implementation of billing.PaymentRequestRepository
type MockPaymentRequestRepository struct {
	mock.Mock
}

func (m *MockPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*billing.PaymentRequest, error) {
	args := m.Called(ctx, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindByTour(ctx context.Context, tourID uuid.UUID) ([]billing.PaymentRequest, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]billing.PaymentRequest, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PaymentRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) Save(ctx context.Context, pr *billing.PaymentRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) SaveWithLock(ctx context.Context, pr *billing.PaymentRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
