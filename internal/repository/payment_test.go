package repository

import (
	"context"
	"errors"
	"razorpay-checkout/internal/model"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPending(t *testing.T, db *gorm.DB, repo PaymentRepository, orderID string) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserID:         "user-1",
		GatewayOrderID: orderID,
		Pricing:        testPricing(),
	}
	require.NoError(t, repo.CreatePending(context.Background(), db, payment))
	return payment
}

func TestPaymentRepository_CreatePendingAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	created := createPending(t, db, repo, "order_abc")
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.OrderCreatedOn)

	found, err := repo.FindByGatewayOrderID(ctx, "order_abc")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatePending, found.State)
	assert.Equal(t, testPricing(), found.Pricing)
	assert.Nil(t, found.GatewaySignature)
	assert.Nil(t, found.EntitlementID)

	_, err = repo.FindByGatewayOrderID(ctx, "order_missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentRepository_GatewayOrderIDIsUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)

	createPending(t, db, repo, "order_dup")

	err := repo.CreatePending(context.Background(), db, &model.Payment{
		UserID:         "user-2",
		GatewayOrderID: "order_dup",
		Pricing:        testPricing(),
	})
	assert.Error(t, err)
}

func TestPaymentRepository_MarkCompleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payment := createPending(t, db, repo, "order_1")
	signature := "sig-1"
	at := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	already, err := repo.MarkCompleted(ctx, db, payment, "pay_1", &signature, at)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, model.PaymentStateCompleted, payment.State)
	require.NotNil(t, payment.GatewayPaymentID)
	assert.Equal(t, "pay_1", *payment.GatewayPaymentID)
	require.NotNil(t, payment.GatewaySignature)
	assert.Equal(t, "sig-1", *payment.GatewaySignature)
	require.NotNil(t, payment.VerifiedOn)
	assert.Equal(t, "17/10/26, 3:30 pm", *payment.VerifiedOn)

	t.Run("second transition reports already completed and refreshes values", func(t *testing.T) {
		stale := &model.Payment{ID: payment.ID, State: model.PaymentStatePending}
		other := "sig-2"
		later := at.Add(time.Hour)

		already, err := repo.MarkCompleted(ctx, db, stale, "pay_2", &other, later)
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, model.PaymentStateCompleted, stale.State)
		assert.Equal(t, "pay_2", *stale.GatewayPaymentID)
		assert.Equal(t, "sig-2", *stale.GatewaySignature)
		require.NotNil(t, stale.VerifiedAt)
		assert.True(t, stale.VerifiedAt.Equal(later))
		assert.Equal(t, "17/10/26, 4:30 pm", *stale.VerifiedOn)
	})

	t.Run("refresh without signature keeps the stored one", func(t *testing.T) {
		stale := &model.Payment{ID: payment.ID}

		already, err := repo.MarkCompleted(ctx, db, stale, "pay_3", nil, time.Now())
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, "pay_3", *stale.GatewayPaymentID)
		assert.Equal(t, "sig-2", *stale.GatewaySignature)
	})

	t.Run("nil signature leaves the column untouched", func(t *testing.T) {
		p := createPending(t, db, repo, "order_webhook")

		already, err := repo.MarkCompleted(ctx, db, p, "pay_w", nil, time.Now())
		require.NoError(t, err)
		assert.False(t, already)
		assert.Nil(t, p.GatewaySignature)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.MarkCompleted(ctx, db, &model.Payment{ID: 9999}, "pay_x", nil, time.Now())
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestPaymentRepository_CreateCompletedAndLink(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)
	entitlements := NewEntitlementRepository(db)
	ctx := context.Background()
	at := time.Now()

	payment := &model.Payment{
		UserID:         "user-1",
		GatewayOrderID: "FREE-1",
		Pricing:        model.OrderPricing{ProductName: "Package 1", BaseAmount: 1000000, DiscountPercentage: 100, DiscountAmount: 1000000},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateCompleted(ctx, tx, payment, at); err != nil {
			return err
		}
		entitlement, err := entitlements.Record(ctx, tx, payment.ID, payment.UserID)
		if err != nil {
			return err
		}
		return repo.LinkEntitlement(ctx, tx, payment, entitlement.ID, model.InvoiceID(entitlement.ID, at))
	})
	require.NoError(t, err)

	require.NotNil(t, payment.EntitlementID)
	found, err := repo.FindByEntitlementID(ctx, *payment.EntitlementID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStateCompleted, found.State)
	assert.Equal(t, *payment.InvoiceID, *found.InvoiceID)
	assert.NotNil(t, found.VerifiedAt)

	_, err = repo.FindByEntitlementID(ctx, 12345)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentRepository_ConcurrentCompletionGrantsOnce(t *testing.T) {
	db := newConcurrentTestDB(t)
	repo := NewPaymentRepository(db)
	entitlements := NewEntitlementRepository(db)
	ctx := context.Background()

	payment := createPending(t, db, repo, "order_race")

	const workers = 8
	var (
		wg      sync.WaitGroup
		granted atomic.Int32
		errs    = make(chan error, workers)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			local := &model.Payment{ID: payment.ID}
			err := db.Transaction(func(tx *gorm.DB) error {
				already, err := repo.MarkCompleted(ctx, tx, local, "pay_race", nil, time.Now())
				if err != nil {
					return err
				}
				if already {
					return nil
				}
				entitlement, err := entitlements.Record(ctx, tx, local.ID, local.UserID)
				if err != nil {
					return err
				}
				granted.Add(1)
				return repo.LinkEntitlement(ctx, tx, local, entitlement.ID, model.InvoiceID(entitlement.ID, time.Now()))
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), granted.Load())

	count, err := entitlements.CountByPaymentID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPaymentRepository_MarkCompletedLostTransition(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	// The caller still holds a pending copy, but another transaction already
	// completed the row: the guarded update matches nothing.
	mock.ExpectExec("UPDATE `payments` SET .+ WHERE\\s+id = \\?\\s+AND state = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// MySQL reports an unchanged refresh as zero affected rows.
	mock.ExpectExec("UPDATE `payments` SET .+ WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `payments` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "state", "gateway_order_id", "gateway_payment_id"}).
			AddRow(7, "user-1", "completed", "order_race", "pay_1"))

	payment := &model.Payment{ID: 7, State: model.PaymentStatePending}
	already, err := NewPaymentRepository(db).MarkCompleted(context.Background(), db, payment, "pay_1", nil, time.Now())

	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, model.PaymentStateCompleted, payment.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_FindPropagatesDBErrors(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT \\* FROM `payments` WHERE gateway_order_id = \\?").
		WithArgs("order_1", 1).
		WillReturnError(errors.New("connection reset"))

	_, err := NewPaymentRepository(db).FindByGatewayOrderID(context.Background(), "order_1")
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
