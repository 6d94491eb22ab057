package tour

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

func newOrderForTest(t *testing.T) *Order {
	o, err := NewOrder("ORD-2026-001", uuid.New(), "Zhang Wei", "13800000000")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates unpaid order with no members", func(t *testing.T) {
		o := newOrderForTest(t)
		assert.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
		assert.Equal(t, 0, o.MemberCount())
		assert.True(t, o.TotalAmount.IsZero())
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder("", uuid.New(), "Zhang Wei", "")
		assert.Error(t, err)
	})

	t.Run("rejects nil tour", func(t *testing.T) {
		_, err := NewOrder("ORD-1", uuid.Nil, "Zhang Wei", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty contact", func(t *testing.T) {
		_, err := NewOrder("ORD-1", uuid.New(), "", "")
		assert.Error(t, err)
	})
}

func TestOrder_AddMember(t *testing.T) {
	o := newOrderForTest(t)

	m, err := o.AddMember("Li Na", IdentityTypeAdult, valueobject.NewMoneyCNYFromFloat(28000))
	require.NoError(t, err)
	assert.Equal(t, o.ID, m.OrderID)
	assert.Equal(t, 1, o.MemberCount())

	// Negative payable rows are valid adjustment entries.
	_, err = o.AddMember("Early-bird discount", IdentityTypeAdult, valueobject.NewMoneyCNYFromFloat(-3000))
	require.NoError(t, err)
	assert.Equal(t, 2, o.MemberCount())

	_, err = o.AddMember("", IdentityTypeAdult, valueobject.ZeroCNY())
	assert.Error(t, err)

	_, err = o.AddMember("Li Na", IdentityType("ALIEN"), valueobject.ZeroCNY())
	assert.Error(t, err)
}

func TestOrder_RemoveMember(t *testing.T) {
	o := newOrderForTest(t)
	m, err := o.AddMember("Li Na", IdentityTypeAdult, valueobject.NewMoneyCNYFromFloat(28000))
	require.NoError(t, err)

	require.NoError(t, o.RemoveMember(m.ID))
	assert.Equal(t, 0, o.MemberCount())
	assert.Nil(t, o.FindMember(m.ID))

	assert.Error(t, o.RemoveMember(m.ID))
}

func TestOrder_ApplyAggregates(t *testing.T) {
	o := newOrderForTest(t)
	o.ClearDomainEvents()

	err := o.ApplyAggregates(
		decimal.NewFromInt(71000),
		decimal.NewFromInt(30000),
		decimal.NewFromInt(41000),
		PaymentStatusPartial,
	)
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(71000)))
	assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(41000)))
	assert.Equal(t, PaymentStatusPartial, o.PaymentStatus)

	// Status change emits an event.
	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "OrderPaymentStatusChanged", events[0].EventType())

	// Re-applying the same status does not.
	o.ClearDomainEvents()
	err = o.ApplyAggregates(
		decimal.NewFromInt(71000),
		decimal.NewFromInt(35000),
		decimal.NewFromInt(36000),
		PaymentStatusPartial,
	)
	require.NoError(t, err)
	assert.Empty(t, o.GetDomainEvents())

	assert.Error(t, o.ApplyAggregates(decimal.Zero, decimal.Zero, decimal.Zero, PaymentStatus("BOGUS")))
}

func TestOrder_IsSettled(t *testing.T) {
	o := newOrderForTest(t)

	// Zero-amount order blocks nothing.
	assert.True(t, o.IsSettled())

	require.NoError(t, o.ApplyAggregates(
		decimal.NewFromInt(28000), decimal.NewFromInt(10000),
		decimal.NewFromInt(18000), PaymentStatusPartial,
	))
	assert.False(t, o.IsSettled())

	require.NoError(t, o.ApplyAggregates(
		decimal.NewFromInt(28000), decimal.NewFromInt(28000),
		decimal.Zero, PaymentStatusPaid,
	))
	assert.True(t, o.IsSettled())
}
