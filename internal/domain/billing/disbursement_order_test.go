package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisbursementOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("creates pending disbursement", func(t *testing.T) {
		d, err := NewDisbursementOrder("DSB-2026-001", ids)
		require.NoError(t, err)
		assert.Equal(t, DisbursementStatusPending, d.Status)
		assert.Len(t, d.RequestIDs, 2)
		assert.True(t, d.RequestIDs.Contains(ids[0]))
	})

	t.Run("rejects empty coverage", func(t *testing.T) {
		_, err := NewDisbursementOrder("DSB-1", nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil request ID", func(t *testing.T) {
		_, err := NewDisbursementOrder("DSB-1", []uuid.UUID{uuid.Nil})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate request IDs", func(t *testing.T) {
		dup := uuid.New()
		_, err := NewDisbursementOrder("DSB-1", []uuid.UUID{dup, dup})
		assert.Error(t, err)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewDisbursementOrder("", ids)
		assert.Error(t, err)
	})
}

func TestDisbursementOrder_MarkPaid(t *testing.T) {
	d, err := NewDisbursementOrder("DSB-2026-001", []uuid.UUID{uuid.New()})
	require.NoError(t, err)

	require.NoError(t, d.MarkPaid())
	assert.True(t, d.IsPaid())
	require.NotNil(t, d.PaidAt)

	assert.Error(t, d.MarkPaid())
}

func TestRequestIDList_ValueScan(t *testing.T) {
	ids := RequestIDList{uuid.New(), uuid.New()}

	v, err := ids.Value()
	require.NoError(t, err)

	var scanned RequestIDList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, ids, scanned)

	var empty RequestIDList
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	assert.Error(t, scanned.Scan(42))
}
