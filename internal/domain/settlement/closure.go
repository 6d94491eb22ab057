package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/tour"
)

// ClosureResult is the outcome of evaluating the closure gate. A blocked
// closure is the expected negative outcome of the operation, represented
// as a value rather than an error.
type ClosureResult struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	OrderCount       int    `json:"order_count"`
	UnsettledOrders  int    `json:"unsettled_orders"`
	OutstandingTotal string `json:"outstanding_total,omitempty"`
}

// EvaluateClosure decides whether a tour may close: every order must be
// fully paid or have nothing to pay. It reads the orders' current derived
// fields and does not trigger recomputation. A tour with zero orders
// trivially passes.
func EvaluateClosure(orders []tour.Order) ClosureResult {
	result := ClosureResult{OrderCount: len(orders)}

	outstanding := decimal.Zero
	for i := range orders {
		o := &orders[i]
		if o.IsSettled() {
			continue
		}
		result.UnsettledOrders++
		outstanding = outstanding.Add(o.RemainingAmount)
	}

	if result.UnsettledOrders > 0 {
		result.Allowed = false
		result.OutstandingTotal = outstanding.String()
		result.Reason = fmt.Sprintf(
			"%d of %d orders have outstanding collections totalling %s; settle all orders before closing the tour",
			result.UnsettledOrders, result.OrderCount, outstanding.StringFixed(2),
		)
		return result
	}

	result.Allowed = true
	return result
}
