package persistence

import (
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/tour"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the database schema for all aggregates
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tour.Tour{},
		&tour.Order{},
		&tour.OrderMember{},
		&billing.Receipt{},
		&billing.PaymentRequest{},
		&billing.PaymentRequestItem{},
		&billing.DisbursementOrder{},
	)
}
