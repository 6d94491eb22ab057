package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/tour"
	"gorm.io/gorm"
)

func newPersistedOrder(t *testing.T, db *gorm.DB, number string, tourID uuid.UUID) *tour.Order {
	t.Helper()
	repo := NewGormOrderRepository(db)
	o, err := tour.NewOrder(number, tourID, "Zhang Wei", "13800000000")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func cny(amount int64) valueobject.Money {
	return valueobject.NewMoneyCNY(decimal.NewFromInt(amount))
}

func TestGormOrderRepository_SaveAndFindByID_WithMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newPersistedOrder(t, db, "O-2026-001", uuid.New())
	_, err := o.AddMember("Zhang Wei", tour.IdentityTypeAdult, cny(36000))
	require.NoError(t, err)
	_, err = o.AddMember("Zhang Min", tour.IdentityTypeChild, cny(18000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "O-2026-001", found.OrderNumber)
	require.Len(t, found.Members, 2)
}

func TestGormOrderRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormOrderRepository_MemberReconciliation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newPersistedOrder(t, db, "O-2026-002", uuid.New())
	m1, err := o.AddMember("Li Na", tour.IdentityTypeAdult, cny(36000))
	require.NoError(t, err)
	_, err = o.AddMember("Li Hao", tour.IdentityTypeAdult, cny(36000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, o))

	// Removing a member from the aggregate must delete its row
	require.NoError(t, o.RemoveMember(m1.ID))
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, found.Members, 1)
	assert.Equal(t, "Li Hao", found.Members[0].Name)

	var rows int64
	require.NoError(t, db.Model(&tour.OrderMember{}).Where("order_id = ?", o.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestGormOrderRepository_NegativeMemberAmountRoundTrips(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newPersistedOrder(t, db, "O-2026-003", uuid.New())
	_, err := o.AddMember("Group discount", tour.IdentityTypeAdult, cny(-1000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, found.Members, 1)
	assert.True(t, found.Members[0].TotalPayable.Equal(decimal.NewFromInt(-1000)))
}

func TestGormOrderRepository_FindByTour(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	tourID := uuid.New()
	o1 := newPersistedOrder(t, db, "O-2026-004", tourID)
	o2 := newPersistedOrder(t, db, "O-2026-005", tourID)
	newPersistedOrder(t, db, "O-2026-006", uuid.New())

	orders, err := repo.FindByTour(ctx, tourID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	ids := []uuid.UUID{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, o1.ID)
	assert.Contains(t, ids, o2.ID)

	count, err := repo.CountByTour(ctx, tourID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newPersistedOrder(t, db, "O-2026-007", uuid.New())

	t.Run("persists derived aggregates", func(t *testing.T) {
		require.NoError(t, o.ApplyAggregates(
			decimal.NewFromInt(71000),
			decimal.NewFromInt(30000),
			decimal.NewFromInt(41000),
			tour.PaymentStatusPartial,
		))
		require.NoError(t, repo.SaveWithLock(ctx, o))

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, tour.PaymentStatusPartial, found.PaymentStatus)
		assert.True(t, found.PaidAmount.Equal(decimal.NewFromInt(30000)))
		assert.True(t, found.RemainingAmount.Equal(decimal.NewFromInt(41000)))
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale := *o
		stale.Version = o.Version - 1

		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
	})
}

func TestGormOrderRepository_ExistsByOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	newPersistedOrder(t, db, "O-2026-008", uuid.New())

	exists, err := repo.ExistsByOrderNumber(ctx, "O-2026-008")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrderNumber(ctx, "O-0000-000")
	require.NoError(t, err)
	assert.False(t, exists)
}
