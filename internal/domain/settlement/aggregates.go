// Package settlement holds the financial consistency engine: the pure
// recomputation functions that keep order totals, tour participants,
// revenue, cost and profit mutually consistent. Everything here is
// arithmetic over already-fetched entity sets; persistence and ordering
// of the recomputation chain live in the application layer.
package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/tour"
)

// OrderAggregates is the full set of derived order fields, always computed
// together so callers can never observe a partial combination.
type OrderAggregates struct {
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	PaymentStatus   tour.PaymentStatus `json:"payment_status"`
}

// AggregateOrder derives the four order fields from the order's current
// member rows and the receipts referencing it.
//
// TotalAmount is the exact signed sum of member payables: negative
// discount rows subtract. PaidAmount counts only receipts that pass the
// activity predicate and reference this order. RemainingAmount is clamped
// at zero. A zero-amount order is UNPAID even with zero paid: there is
// nothing to have paid off.
func AggregateOrder(orderID uuid.UUID, members []tour.OrderMember, receipts []billing.Receipt) OrderAggregates {
	totalAmount := decimal.Zero
	for _, m := range members {
		totalAmount = totalAmount.Add(m.TotalPayable)
	}

	paidAmount := decimal.Zero
	for i := range receipts {
		r := &receipts[i]
		if r.BelongsToOrder(orderID) && r.CountsTowardAggregates() {
			paidAmount = paidAmount.Add(r.CountableAmount())
		}
	}

	remaining := totalAmount.Sub(paidAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return OrderAggregates{
		TotalAmount:     totalAmount,
		PaidAmount:      paidAmount,
		RemainingAmount: remaining,
		PaymentStatus:   derivePaymentStatus(totalAmount, paidAmount),
	}
}

// derivePaymentStatus maps the amount pair onto the payment status:
// PAID iff total > 0 and paid >= total; PARTIAL iff 0 < paid < total;
// UNPAID otherwise, including the degenerate zero-amount order.
func derivePaymentStatus(totalAmount, paidAmount decimal.Decimal) tour.PaymentStatus {
	switch {
	case totalAmount.IsPositive() && paidAmount.GreaterThanOrEqual(totalAmount):
		return tour.PaymentStatusPaid
	case paidAmount.IsPositive() && paidAmount.LessThan(totalAmount):
		return tour.PaymentStatusPartial
	default:
		return tour.PaymentStatusUnpaid
	}
}

// CountParticipants counts heads across all orders of a tour. Cardinality,
// not payable sums: a negative-payable discount row still counts as one.
func CountParticipants(orders []tour.Order) int {
	count := 0
	for i := range orders {
		count += orders[i].MemberCount()
	}
	return count
}

// AggregateRevenue sums the countable receipts attributable to a tour:
// receipts referencing one of the tour's orders, unioned with receipts
// attributed directly to the tour. A receipt carrying both references is
// counted once, keyed by receipt identity.
func AggregateRevenue(tourID uuid.UUID, orders []tour.Order, receipts []billing.Receipt) decimal.Decimal {
	orderIDs := make(map[uuid.UUID]struct{}, len(orders))
	for i := range orders {
		orderIDs[orders[i].ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(receipts))
	revenue := decimal.Zero
	for i := range receipts {
		r := &receipts[i]
		if !r.CountsTowardAggregates() {
			continue
		}
		if _, counted := seen[r.ID]; counted {
			continue
		}

		attributable := false
		if r.OrderID != nil {
			_, attributable = orderIDs[*r.OrderID]
		}
		if !attributable && r.TourID != nil && *r.TourID == tourID {
			attributable = true
		}
		if !attributable {
			continue
		}

		seen[r.ID] = struct{}{}
		revenue = revenue.Add(r.CountableAmount())
	}
	return revenue
}

// AggregateCost sums item subtotals of the tour's payment requests that
// pass the activity predicate. Rejected or soft-deleted requests
// contribute zero even though their items keep positive subtotals.
func AggregateCost(tourID uuid.UUID, requests []billing.PaymentRequest) decimal.Decimal {
	cost := decimal.Zero
	for i := range requests {
		pr := &requests[i]
		if pr.TourID != tourID {
			continue
		}
		cost = cost.Add(pr.CountableCost())
	}
	return cost
}

// Profit derives profit from the two tour aggregates. It must only be
// invoked with revenue and cost from the same recomputation pass.
func Profit(totalRevenue, totalCost decimal.Decimal) decimal.Decimal {
	return totalRevenue.Sub(totalCost)
}
