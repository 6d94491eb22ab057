package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/tour"
	"gorm.io/gorm"
)

// GormTourRepository implements TourRepository using GORM
type GormTourRepository struct {
	db *gorm.DB
}

// NewGormTourRepository creates a new GormTourRepository
func NewGormTourRepository(db *gorm.DB) *GormTourRepository {
	return &GormTourRepository{db: db}
}

// FindByID finds a tour by its ID. Returns (nil, nil) when no tour exists.
func (r *GormTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	var t tour.Tour
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// FindByTourNumber finds a tour by tour number
func (r *GormTourRepository) FindByTourNumber(ctx context.Context, tourNumber string) (*tour.Tour, error) {
	var t tour.Tour
	if err := r.db.WithContext(ctx).First(&t, "tour_number = ?", tourNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds all tours with filtering
func (r *GormTourRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tour.Tour, error) {
	var tours []tour.Tour
	query := applyFilter(r.db.WithContext(ctx).Model(&tour.Tour{}), filter, TourSortFields, "tour_number", "name", "destination")
	if err := query.Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// FindByStatus finds tours by status
func (r *GormTourRepository) FindByStatus(ctx context.Context, status tour.TourStatus, filter shared.Filter) ([]tour.Tour, error) {
	var tours []tour.Tour
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tour.Tour{}).Where("status = ?", status),
		filter, TourSortFields, "tour_number", "name", "destination",
	)
	if err := query.Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// Save creates or updates a tour
func (r *GormTourRepository) Save(ctx context.Context, t *tour.Tour) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormTourRepository) SaveWithLock(ctx context.Context, t *tour.Tour) error {
	// Aggregates increment their version in memory on every mutation.
	// The row may only be overwritten while its stored version is still
	// behind the one being written.
	result := r.db.WithContext(ctx).Model(&tour.Tour{}).
		Where("id = ? AND version < ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"tour_number":          t.TourNumber,
			"name":                 t.Name,
			"destination":          t.Destination,
			"departure_date":       t.DepartureDate,
			"return_date":          t.ReturnDate,
			"max_participants":     t.MaxParticipants,
			"current_participants": t.CurrentParticipants,
			"total_revenue":        t.TotalRevenue,
			"total_cost":           t.TotalCost,
			"profit":               t.Profit,
			"status":               t.Status,
			"remark":               t.Remark,
			"closed_at":            t.ClosedAt,
			"version":              t.Version,
			"updated_at":           t.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The tour has been modified by another user")
	}
	return nil
}

// Count counts tours with optional filters
func (r *GormTourRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&tour.Tour{}), filter, "tour_number", "name", "destination")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByTourNumber checks if a tour number exists
func (r *GormTourRepository) ExistsByTourNumber(ctx context.Context, tourNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tour.Tour{}).
		Where("tour_number = ?", tourNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies search, pagination and ordering to a query. Sort
// input is validated against the entity's whitelist before it touches SQL.
func applyFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, searchColumns ...string) *gorm.DB {
	query = applySearch(query, filter, searchColumns...)
	query = query.Offset(filter.Offset()).Limit(filter.GetPageSize())

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies the search term across the given columns
func applySearch(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search == "" || len(searchColumns) == 0 {
		return query
	}
	pattern := "%" + filter.Search + "%"
	clause := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, col := range searchColumns {
		clause[i] = col + " LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clause, " OR "), args...)
}

// Ensure GormTourRepository implements TourRepository
var _ tour.TourRepository = (*GormTourRepository)(nil)
