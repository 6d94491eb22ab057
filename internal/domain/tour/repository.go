package tour

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
)

// TourRepository defines the interface for tour persistence
type TourRepository interface {
	// FindByID finds a tour by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tour, error)

	// FindByTourNumber finds a tour by tour number
	FindByTourNumber(ctx context.Context, tourNumber string) (*Tour, error)

	// FindAll finds all tours with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Tour, error)

	// FindByStatus finds tours by status
	FindByStatus(ctx context.Context, status TourStatus, filter shared.Filter) ([]Tour, error)

	// Save creates or updates a tour
	Save(ctx context.Context, t *Tour) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, t *Tour) error

	// Count counts tours with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByTourNumber checks if a tour number exists
	ExistsByTourNumber(ctx context.Context, tourNumber string) (bool, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, including its members
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByTour finds all orders of a tour, including their members
	FindByTour(ctx context.Context, tourID uuid.UUID) ([]Order, error)

	// FindAll finds all orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its member rows
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, o *Order) error

	// Count counts orders with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByTour counts orders belonging to a tour
	CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error)

	// ExistsByOrderNumber checks if an order number exists
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
