package repository

import (
	"context"
	"errors"
	"razorpay-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

var ErrEntitlementNotFound = errors.New("repository: entitlement not found")

type EntitlementRepository interface {
	Record(ctx context.Context, tx *gorm.DB, paymentID uint, userID string) (*model.Entitlement, error)
	FindByID(ctx context.Context, id uint) (*model.Entitlement, error)
	CountByPaymentID(ctx context.Context, paymentID uint) (int64, error)
}

type entitlementRepoImpl struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepoImpl{
		db: db,
	}
}

// Record grants the entitlement for a completed payment. The unique index on
// payment_id rejects a second grant for the same payment.
func (r *entitlementRepoImpl) Record(ctx context.Context, tx *gorm.DB, paymentID uint, userID string) (*model.Entitlement, error) {
	entitlement := &model.Entitlement{
		UserID:    userID,
		PaymentID: paymentID,
		CreatedAt: time.Now(),
	}

	if err := tx.WithContext(ctx).Create(entitlement).Error; err != nil {
		return nil, err
	}

	return entitlement, nil
}

func (r *entitlementRepoImpl) FindByID(ctx context.Context, id uint) (*model.Entitlement, error) {
	var entitlement model.Entitlement
	err := r.db.WithContext(ctx).First(&entitlement, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntitlementNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entitlement, nil
}

func (r *entitlementRepoImpl) CountByPaymentID(ctx context.Context, paymentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error

	return count, err
}
