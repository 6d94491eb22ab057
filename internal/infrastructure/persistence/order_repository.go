package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/tour"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID, including its members.
// Returns (nil, nil) when no order exists.
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*tour.Order, error) {
	var o tour.Order
	if err := r.db.WithContext(ctx).
		Preload("Members").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*tour.Order, error) {
	var o tour.Order
	if err := r.db.WithContext(ctx).
		Preload("Members").
		First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// FindByTour finds all orders of a tour, including their members
func (r *GormOrderRepository) FindByTour(ctx context.Context, tourID uuid.UUID) ([]tour.Order, error) {
	var orders []tour.Order
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("tour_id = ?", tourID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds all orders with filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tour.Order, error) {
	var orders []tour.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tour.Order{}).Preload("Members"),
		filter, OrderSortFields, "order_number", "contact_name",
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its member rows
func (r *GormOrderRepository) Save(ctx context.Context, o *tour.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Save(o).Error; err != nil {
			return err
		}
		return saveOrderMembers(tx, o)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *tour.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&tour.Order{}).
			Where("id = ? AND version < ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"order_number":     o.OrderNumber,
				"tour_id":          o.TourID,
				"contact_name":     o.ContactName,
				"contact_phone":    o.ContactPhone,
				"total_amount":     o.TotalAmount,
				"paid_amount":      o.PaidAmount,
				"remaining_amount": o.RemainingAmount,
				"payment_status":   o.PaymentStatus,
				"remark":           o.Remark,
				"version":          o.Version,
				"updated_at":       o.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		return saveOrderMembers(tx, o)
	})
}

// saveOrderMembers reconciles the member rows with the aggregate state:
// rows removed from the aggregate are deleted, the rest upserted.
func saveOrderMembers(tx *gorm.DB, o *tour.Order) error {
	currentIDs := make([]uuid.UUID, len(o.Members))
	for i, m := range o.Members {
		currentIDs[i] = m.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentIDs).
			Delete(&tour.OrderMember{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", o.ID).
			Delete(&tour.OrderMember{}).Error; err != nil {
			return err
		}
	}

	for i := range o.Members {
		o.Members[i].OrderID = o.ID
		if err := tx.Save(&o.Members[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Count counts orders with optional filters
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&tour.Order{}), filter, "order_number", "contact_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByTour counts orders belonging to a tour
func (r *GormOrderRepository) CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tour.Order{}).
		Where("tour_id = ?", tourID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number exists
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tour.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ tour.OrderRepository = (*GormOrderRepository)(nil)
