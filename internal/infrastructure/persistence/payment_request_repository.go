package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRequestRepository implements PaymentRequestRepository using
// GORM. Soft-deleted and rejected requests stay visible to every finder.
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

// NewGormPaymentRequestRepository creates a new GormPaymentRequestRepository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// FindByID finds a payment request by ID, including its items.
// Returns (nil, nil) when no request exists.
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	var pr billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&pr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pr, nil
}

// FindByRequestNumber finds a payment request by request number
func (r *GormPaymentRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*billing.PaymentRequest, error) {
	var pr billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&pr, "request_number = ?", requestNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pr, nil
}

// FindByTour finds all payment requests of a tour, including items
func (r *GormPaymentRequestRepository) FindByTour(ctx context.Context, tourID uuid.UUID) ([]billing.PaymentRequest, error) {
	var requests []billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tour_id = ?", tourID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByIDs finds payment requests by a set of IDs
func (r *GormPaymentRequestRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]billing.PaymentRequest, error) {
	if len(ids) == 0 {
		return []billing.PaymentRequest{}, nil
	}
	var requests []billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAll finds all payment requests with filtering
func (r *GormPaymentRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PaymentRequest, error) {
	var requests []billing.PaymentRequest
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).Preload("Items"),
		filter, PaymentRequestSortFields, "request_number", "supplier_name",
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a payment request together with its items
func (r *GormPaymentRequestRepository) Save(ctx context.Context, pr *billing.PaymentRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(pr).Error; err != nil {
			return err
		}
		return savePaymentRequestItems(tx, pr)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentRequestRepository) SaveWithLock(ctx context.Context, pr *billing.PaymentRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.PaymentRequest{}).
			Where("id = ? AND version < ?", pr.ID, pr.Version).
			Updates(map[string]interface{}{
				"request_number": pr.RequestNumber,
				"tour_id":        pr.TourID,
				"supplier_name":  pr.SupplierName,
				"status":         pr.Status,
				"remark":         pr.Remark,
				"reject_reason":  pr.RejectReason,
				"deleted_at":     pr.DeletedAt,
				"paid_at":        pr.PaidAt,
				"version":        pr.Version,
				"updated_at":     pr.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment request has been modified by another user")
		}

		return savePaymentRequestItems(tx, pr)
	})
}

// savePaymentRequestItems reconciles item rows with the aggregate state
func savePaymentRequestItems(tx *gorm.DB, pr *billing.PaymentRequest) error {
	currentIDs := make([]uuid.UUID, len(pr.Items))
	for i, item := range pr.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("payment_request_id = ? AND id NOT IN ?", pr.ID, currentIDs).
			Delete(&billing.PaymentRequestItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("payment_request_id = ?", pr.ID).
			Delete(&billing.PaymentRequestItem{}).Error; err != nil {
			return err
		}
	}

	for i := range pr.Items {
		pr.Items[i].PaymentRequestID = pr.ID
		if err := tx.Save(&pr.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Count counts payment requests with optional filters
func (r *GormPaymentRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&billing.PaymentRequest{}), filter, "request_number", "supplier_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPaymentRequestRepository implements PaymentRequestRepository
var _ billing.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)
