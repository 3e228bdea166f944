package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"razorpay-checkout/internal/cache"
	"razorpay-checkout/internal/client"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/model"
	"razorpay-checkout/internal/repository"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testKeyID         = "rzp_test_key"
	testKeySecret     = "rzp_test_secret"
	testWebhookSecret = "whsec_test"
)

type mockRazorpayClient struct {
	mock.Mock
}

func (m *mockRazorpayClient) CreateOrder(ctx context.Context, req *client.CreateOrderRequest) (*model.RazorpayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RazorpayOrder), args.Error(1)
}

func (m *mockRazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*model.RazorpayPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RazorpayPayment), args.Error(1)
}

type fixture struct {
	db              *gorm.DB
	gateway         *mockRazorpayClient
	paymentRepo     repository.PaymentRepository
	entitlementRepo repository.EntitlementRepository
	couponRepo      repository.CouponRepository
	service         PaymentService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return openTestDB(t, dsn, 1)
}

// newConcurrentTestDB is file-backed with WAL and several connections, so
// concurrent transactions interleave instead of queueing on one connection.
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

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// openLocker grants every lock, leaving the database as the only guard.
type openLocker struct{}

func (openLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	return uuid.NewString(), true, nil
}

func (openLocker) Unlock(ctx context.Context, key, token string) error { return nil }

func (openLocker) Close() error { return nil }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, newTestDB(t), cache.NewInMemoryLocker())
}

func newFixtureWith(t *testing.T, db *gorm.DB, locker cache.Locker) *fixture {
	t.Helper()

	f := &fixture{
		db:              db,
		gateway:         &mockRazorpayClient{},
		paymentRepo:     repository.NewPaymentRepository(db),
		entitlementRepo: repository.NewEntitlementRepository(db),
		couponRepo:      repository.NewCouponRepository(db),
	}

	f.service = NewPaymentService(
		db,
		&config.Razorpay{
			KeyID:         testKeyID,
			KeySecret:     testKeySecret,
			WebhookSecret: testWebhookSecret,
			Currency:      "INR",
		},
		&config.Redis{LockTTL: 5 * time.Second, LockWait: 5 * time.Second},
		f.gateway,
		NewCouponResolver(f.couponRepo),
		locker,
		f.paymentRepo,
		f.entitlementRepo,
		repository.NewWebhookEventRepository(db),
	)

	return f
}

func (f *fixture) seedCoupon(t *testing.T, code string, percentage int64) {
	t.Helper()
	require.NoError(t, f.couponRepo.Create(context.Background(), &model.Coupon{
		CouponCode: code,
		Percentage: percentage,
		Valid:      true,
	}))
}

// seedPending stores a pending payment as CreateOrder would have.
func (f *fixture) seedPending(t *testing.T, orderID string, percentage int64) *model.Payment {
	t.Helper()
	payment := &model.Payment{
		UserID:         "user-1",
		GatewayOrderID: orderID,
		Pricing:        CalculatePricing(percentage),
	}
	require.NoError(t, f.paymentRepo.CreatePending(context.Background(), f.db, payment))
	return payment
}

func signPayment(orderID, paymentID string) string {
	return computeSignature(testKeySecret, paymentSignaturePayload(orderID, paymentID))
}

func capturedPayment(paymentID, orderID string, amount int64) *model.RazorpayPayment {
	return &model.RazorpayPayment{
		ID:       paymentID,
		OrderID:  orderID,
		Amount:   amount,
		Currency: "INR",
		Status:   model.RazorpayPaymentCaptured,
		Method:   "upi",
	}
}
