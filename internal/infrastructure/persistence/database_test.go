package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tourops/backend/tests/testutil"
)

// mockDatabase wraps a sqlmock-backed gorm handle in a Database.
func mockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	m := testutil.NewMockDB(t)
	return &Database{DB: m.DB}, m.Mock, m.SqlDB
}

func TestDatabase_Stats(t *testing.T) {
	db, _, sqlDB := mockDatabase(t)
	defer sqlDB.Close()

	stats, err := db.Stats()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestDatabase_Ping(t *testing.T) {
	// pings are only visible to sqlmock with monitoring on
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing() // gorm.Open pings once itself

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	db := &Database{DB: gormDB}

	mock.ExpectPing()
	require.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := mockDatabase(t)

	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		db, mock, sqlDB := mockDatabase(t)
		defer sqlDB.Close()

		type TestModel struct {
			ID   uint
			Name string
		}

		mock.ExpectBegin()
		// gorm issues INSERT ... RETURNING on postgres, so this is a query
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WithArgs("alpine trek").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&TestModel{Name: "alpine trek"}).Error
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock, sqlDB := mockDatabase(t)
		defer sqlDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// The repositories lean on gorm's chain building; make sure filters,
// ordering, and pagination compose into the SQL they expect.
func TestDatabase_ChainedQueries(t *testing.T) {
	t.Run("filter with ordering", func(t *testing.T) {
		db, mock, sqlDB := mockDatabase(t)
		defer sqlDB.Close()

		type Tour struct {
			ID     uint
			Status string
			Name   string
		}

		mock.ExpectQuery(`SELECT \* FROM "tours" WHERE status = \$1 ORDER BY name ASC`).
			WithArgs("OPEN").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "name"}).
				AddRow(1, "OPEN", "Alps Hiking").
				AddRow(2, "OPEN", "Kyoto Spring"))

		var results []Tour
		err := db.DB.Where("status = ?", "OPEN").Order("name ASC").Find(&results).Error
		require.NoError(t, err)
		assert.Len(t, results, 2)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filter with limit and offset", func(t *testing.T) {
		db, mock, sqlDB := mockDatabase(t)
		defer sqlDB.Close()

		type Order struct {
			ID            uint
			PaymentStatus string
		}

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE payment_status = \$1 LIMIT \$2 OFFSET \$3`).
			WithArgs("UNPAID", 10, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_status"}).
				AddRow(6, "UNPAID"))

		var results []Order
		err := db.DB.Where("payment_status = ?", "UNPAID").Limit(10).Offset(5).Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
