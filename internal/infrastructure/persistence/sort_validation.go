package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// TourSortFields contains allowed sort fields for tours
var TourSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"tour_number":          true,
	"name":                 true,
	"destination":          true,
	"departure_date":       true,
	"return_date":          true,
	"max_participants":     true,
	"current_participants": true,
	"total_revenue":        true,
	"total_cost":           true,
	"profit":               true,
	"status":               true,
	"closed_at":            true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"order_number":     true,
	"tour_id":          true,
	"contact_name":     true,
	"total_amount":     true,
	"paid_amount":      true,
	"remaining_amount": true,
	"payment_status":   true,
}

// ReceiptSortFields contains allowed sort fields for receipts
var ReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"order_id":       true,
	"tour_id":        true,
	"status":         true,
	"actual_amount":  true,
	"payment_method": true,
	"received_at":    true,
}

// PaymentRequestSortFields contains allowed sort fields for payment requests
var PaymentRequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"tour_id":        true,
	"supplier_name":  true,
	"status":         true,
	"paid_at":        true,
}

// DisbursementSortFields contains allowed sort fields for disbursement orders
var DisbursementSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"disbursement_number": true,
	"status":              true,
	"paid_at":             true,
}
