package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
)

// ReceiptRepository defines the interface for receipt persistence.
// Finders return voided receipts too; exclusion from aggregates is the
// engine's job via the activity predicate, not the query layer's.
type ReceiptRepository interface {
	// FindByID finds a receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByReceiptNumber finds a receipt by receipt number
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*Receipt, error)

	// FindByOrder finds all receipts referencing an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Receipt, error)

	// FindByOrders finds all receipts referencing any of the given orders
	FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]Receipt, error)

	// FindByTourDirect finds receipts attributed directly to a tour
	FindByTourDirect(ctx context.Context, tourID uuid.UUID) ([]Receipt, error)

	// FindAll finds all receipts with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Receipt, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, r *Receipt) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, r *Receipt) error

	// Count counts receipts with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PaymentRequestRepository defines the interface for payment request
// persistence. Soft-deleted and rejected requests remain retrievable;
// their exclusion from cost is decided by the activity predicate.
type PaymentRequestRepository interface {
	// FindByID finds a payment request by ID, including its items
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)

	// FindByRequestNumber finds a payment request by request number
	FindByRequestNumber(ctx context.Context, requestNumber string) (*PaymentRequest, error)

	// FindByTour finds all payment requests of a tour, including items
	FindByTour(ctx context.Context, tourID uuid.UUID) ([]PaymentRequest, error)

	// FindByIDs finds payment requests by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]PaymentRequest, error)

	// FindAll finds all payment requests with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PaymentRequest, error)

	// Save creates or updates a payment request together with its items
	Save(ctx context.Context, pr *PaymentRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, pr *PaymentRequest) error

	// Count counts payment requests with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DisbursementOrderRepository defines the interface for disbursement order
// persistence
type DisbursementOrderRepository interface {
	// FindByID finds a disbursement order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DisbursementOrder, error)

	// FindByDisbursementNumber finds by disbursement number
	FindByDisbursementNumber(ctx context.Context, disbursementNumber string) (*DisbursementOrder, error)

	// FindAll finds all disbursement orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]DisbursementOrder, error)

	// Save creates or updates a disbursement order
	Save(ctx context.Context, d *DisbursementOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, d *DisbursementOrder) error

	// Count counts disbursement orders with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
