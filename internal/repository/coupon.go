package repository

import (
	"context"
	"errors"
	"razorpay-checkout/internal/model"

	"gorm.io/gorm"
)

var ErrCouponNotFound = errors.New("repository: coupon not found")

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindValidByCode(ctx context.Context, code string) (*model.Coupon, error)
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{
		db: db,
	}
}

func (r *couponRepoImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// FindValidByCode returns the first valid coupon with this code, by id.
func (r *couponRepoImpl) FindValidByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("coupon_code = ? AND valid = ?", code, true).
		Order("id").
		First(&coupon).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}
