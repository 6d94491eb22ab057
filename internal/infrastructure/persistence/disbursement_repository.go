package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDisbursementRepository implements DisbursementOrderRepository using GORM
type GormDisbursementRepository struct {
	db *gorm.DB
}

// NewGormDisbursementRepository creates a new GormDisbursementRepository
func NewGormDisbursementRepository(db *gorm.DB) *GormDisbursementRepository {
	return &GormDisbursementRepository{db: db}
}

// FindByID finds a disbursement order by ID.
// Returns (nil, nil) when no disbursement exists.
func (r *GormDisbursementRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.DisbursementOrder, error) {
	var d billing.DisbursementOrder
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// FindByDisbursementNumber finds by disbursement number
func (r *GormDisbursementRepository) FindByDisbursementNumber(ctx context.Context, disbursementNumber string) (*billing.DisbursementOrder, error) {
	var d billing.DisbursementOrder
	if err := r.db.WithContext(ctx).First(&d, "disbursement_number = ?", disbursementNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds all disbursement orders with filtering
func (r *GormDisbursementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.DisbursementOrder, error) {
	var disbursements []billing.DisbursementOrder
	query := applyFilter(r.db.WithContext(ctx).Model(&billing.DisbursementOrder{}), filter, DisbursementSortFields, "disbursement_number")
	if err := query.Find(&disbursements).Error; err != nil {
		return nil, err
	}
	return disbursements, nil
}

// Save creates or updates a disbursement order
func (r *GormDisbursementRepository) Save(ctx context.Context, d *billing.DisbursementOrder) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDisbursementRepository) SaveWithLock(ctx context.Context, d *billing.DisbursementOrder) error {
	result := r.db.WithContext(ctx).Model(&billing.DisbursementOrder{}).
		Where("id = ? AND version < ?", d.ID, d.Version).
		Updates(map[string]interface{}{
			"disbursement_number": d.DisbursementNumber,
			"request_ids":         d.RequestIDs,
			"status":              d.Status,
			"remark":              d.Remark,
			"paid_at":             d.PaidAt,
			"version":             d.Version,
			"updated_at":          d.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The disbursement order has been modified by another user")
	}
	return nil
}

// Count counts disbursement orders with optional filters
func (r *GormDisbursementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&billing.DisbursementOrder{}), filter, "disbursement_number")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormDisbursementRepository implements DisbursementOrderRepository
var _ billing.DisbursementOrderRepository = (*GormDisbursementRepository)(nil)
