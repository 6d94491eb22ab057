package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM.
// Voided receipts stay visible to every finder; filtering them out of
// aggregates is the recalculation engine's concern.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by ID. Returns (nil, nil) when no receipt exists.
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	var receipt billing.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByReceiptNumber finds a receipt by receipt number
func (r *GormReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*billing.Receipt, error) {
	var receipt billing.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "receipt_number = ?", receiptNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByOrder finds all receipts referencing an order
func (r *GormReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]billing.Receipt, error) {
	var receipts []billing.Receipt
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByOrders finds all receipts referencing any of the given orders
func (r *GormReceiptRepository) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]billing.Receipt, error) {
	if len(orderIDs) == 0 {
		return []billing.Receipt{}, nil
	}
	var receipts []billing.Receipt
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByTourDirect finds receipts attributed directly to a tour
func (r *GormReceiptRepository) FindByTourDirect(ctx context.Context, tourID uuid.UUID) ([]billing.Receipt, error) {
	var receipts []billing.Receipt
	if err := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("created_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAll finds all receipts with filtering
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Receipt, error) {
	var receipts []billing.Receipt
	query := applyFilter(r.db.WithContext(ctx).Model(&billing.Receipt{}), filter, ReceiptSortFields, "receipt_number")
	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *billing.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReceiptRepository) SaveWithLock(ctx context.Context, receipt *billing.Receipt) error {
	result := r.db.WithContext(ctx).Model(&billing.Receipt{}).
		Where("id = ? AND version < ?", receipt.ID, receipt.Version).
		Updates(map[string]interface{}{
			"receipt_number": receipt.ReceiptNumber,
			"order_id":       receipt.OrderID,
			"tour_id":        receipt.TourID,
			"status":         receipt.Status,
			"actual_amount":  receipt.ActualAmount,
			"payment_method": receipt.PaymentMethod,
			"received_at":    receipt.ReceivedAt,
			"remark":         receipt.Remark,
			"deleted_at":     receipt.DeletedAt,
			"void_reason":    receipt.VoidReason,
			"version":        receipt.Version,
			"updated_at":     receipt.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The receipt has been modified by another user")
	}
	return nil
}

// Count counts receipts with optional filters
func (r *GormReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&billing.Receipt{}), filter, "receipt_number")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ billing.ReceiptRepository = (*GormReceiptRepository)(nil)
