package service

import "razorpay-checkout/internal/model"

const (
	ProductName   = "Package 1"
	BaseAmount    = int64(1000000) // paise
	TaxPercentage = int64(18)
)

// CalculatePricing derives the order breakdown for a discount percentage.
// Out-of-range percentages are clamped to [0, 100]. All arithmetic floors,
// and DiscountAmount + NetAmount + TaxAmount always equals BaseAmount.
func CalculatePricing(discountPercentage int64) model.OrderPricing {
	pct := clampPercentage(discountPercentage)

	discountAmount := BaseAmount * pct / 100
	payableAmount := BaseAmount - discountAmount
	taxAmount := payableAmount * TaxPercentage / 100

	return model.OrderPricing{
		ProductName:        ProductName,
		BaseAmount:         BaseAmount,
		DiscountPercentage: pct,
		DiscountAmount:     discountAmount,
		PayableAmount:      payableAmount,
		TaxPercentage:      TaxPercentage,
		TaxAmount:          taxAmount,
		NetAmount:          payableAmount - taxAmount,
	}
}

func clampPercentage(pct int64) int64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
