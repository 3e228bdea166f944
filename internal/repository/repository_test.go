package repository

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"razorpay-checkout/internal/model"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private shared-cache in-memory sqlite database with the
// full schema on a single connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return openTestDB(t, dsn, 1)
}

// newConcurrentTestDB opens a file-backed WAL database with several pooled
// connections, so transactions really interleave.
func newConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "payments.db") + "?_journal_mode=WAL&_busy_timeout=10000"
	return openTestDB(t, dsn, 8)
}

func openTestDB(t *testing.T, dsn string, maxOpenConns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Payment{},
		&model.Entitlement{},
		&model.Coupon{},
		&model.WebhookEvent{},
	))

	return db
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func testPricing() model.OrderPricing {
	return model.OrderPricing{
		ProductName:        "Package 1",
		BaseAmount:         1000000,
		DiscountPercentage: 20,
		DiscountAmount:     200000,
		PayableAmount:      800000,
		TaxPercentage:      18,
		TaxAmount:          144000,
		NetAmount:          656000,
	}
}
