package service

import (
	"context"
	"errors"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/repository"
	"strings"

	"go.uber.org/zap"
)

type CouponResolver interface {
	// Resolve returns the discount percentage for code, or 0 when the code is
	// empty, unknown, invalid, or the lookup fails.
	Resolve(ctx context.Context, code string) int64
}

type couponResolverImpl struct {
	couponRepo repository.CouponRepository
}

func NewCouponResolver(couponRepo repository.CouponRepository) CouponResolver {
	return &couponResolverImpl{
		couponRepo: couponRepo,
	}
}

func (r *couponResolverImpl) Resolve(ctx context.Context, code string) int64 {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0
	}

	coupon, err := r.couponRepo.FindValidByCode(ctx, code)
	if errors.Is(err, repository.ErrCouponNotFound) {
		return 0
	}
	if err != nil {
		logger.FromContext(ctx).Warn("coupon lookup failed, applying no discount",
			zap.String("coupon_code", code),
			zap.Error(err),
		)
		return 0
	}

	return clampPercentage(coupon.Percentage)
}
