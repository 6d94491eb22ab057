package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/domain/billing"
	"github.com/tourops/backend/internal/domain/tour"
)

func orderWithAggregates(t *testing.T, tourID uuid.UUID, payable, paid float64) tour.Order {
	o, err := tour.NewOrder("ORD-"+uuid.NewString()[:8], tourID, "Contact", "")
	require.NoError(t, err)
	if payable != 0 {
		addMember(t, o, payable)
	}
	var receipts []billing.Receipt
	if paid != 0 {
		receipts = append(receipts, confirmedReceipt(t, o.ID, paid))
	}
	aggs := AggregateOrder(o.ID, o.Members, receipts)
	require.NoError(t, o.ApplyAggregates(aggs.TotalAmount, aggs.PaidAmount, aggs.RemainingAmount, aggs.PaymentStatus))
	return *o
}

func TestEvaluateClosure_AllSettled(t *testing.T) {
	tourID := uuid.New()
	orders := []tour.Order{
		orderWithAggregates(t, tourID, 28000, 28000),
		orderWithAggregates(t, tourID, 15000, 20000), // overpaid is settled too
	}

	result := EvaluateClosure(orders)

	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.OrderCount)
	assert.Equal(t, 0, result.UnsettledOrders)
	assert.Empty(t, result.Reason)
}

func TestEvaluateClosure_BlockedByUnsettledOrder(t *testing.T) {
	tourID := uuid.New()
	orders := []tour.Order{
		orderWithAggregates(t, tourID, 28000, 28000),
		orderWithAggregates(t, tourID, 15000, 5000),
	}

	result := EvaluateClosure(orders)

	assert.False(t, result.Allowed)
	assert.Equal(t, 2, result.OrderCount)
	assert.Equal(t, 1, result.UnsettledOrders)
	assert.Equal(t, "10000", result.OutstandingTotal)
	assert.Contains(t, result.Reason, "1 of 2 orders")
	assert.Contains(t, result.Reason, "10000.00")
}

func TestEvaluateClosure_UnpaidOrderBlocks(t *testing.T) {
	tourID := uuid.New()
	orders := []tour.Order{orderWithAggregates(t, tourID, 30000, 0)}

	result := EvaluateClosure(orders)

	assert.False(t, result.Allowed)
	assert.Equal(t, 1, result.UnsettledOrders)
	assert.Equal(t, "30000", result.OutstandingTotal)
}

func TestEvaluateClosure_ZeroAmountOrderDoesNotBlock(t *testing.T) {
	tourID := uuid.New()
	orders := []tour.Order{orderWithAggregates(t, tourID, 0, 0)}

	result := EvaluateClosure(orders)

	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.OrderCount)
}

func TestEvaluateClosure_EmptyTourPasses(t *testing.T) {
	result := EvaluateClosure(nil)

	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.OrderCount)
	assert.Equal(t, 0, result.UnsettledOrders)
}

func TestEvaluateClosure_OutstandingSumsAcrossOrders(t *testing.T) {
	tourID := uuid.New()
	orders := []tour.Order{
		orderWithAggregates(t, tourID, 28000, 20000),
		orderWithAggregates(t, tourID, 15000, 10000),
	}

	result := EvaluateClosure(orders)

	assert.False(t, result.Allowed)
	assert.Equal(t, 2, result.UnsettledOrders)
	assert.Equal(t, "13000", result.OutstandingTotal)
}
