package dto

import "razorpay-checkout/internal/model"

type PricingData struct {
	model.OrderPricing
	KeyID string `json:"key_id"`
}

type PricingResponse struct {
	Data    *PricingData `json:"data"`
	Success bool         `json:"success"`
}

type CheckCouponRequest struct {
	CouponCode string `json:"coupon_code"`
}

type CheckCouponResponse struct {
	Success bool                `json:"success"`
	Data    int64               `json:"data"`
	Details *model.OrderPricing `json:"details"`
}

type CreateOrderRequest struct {
	CouponCode string `json:"coupon_code"`
	KeyID      string `json:"key_id"`
}

// CreateOrderResponse carries the gateway order id for paid orders and the
// entitlement id for zero-cost orders.
type CreateOrderResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	OrderID      interface{} `json:"orderId"`
	Amount       int64       `json:"amount,omitempty"`
	Currency     string      `json:"currency,omitempty"`
	FullDiscount bool        `json:"fullDiscount"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type PaymentDetails struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"order_id"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Method        string  `json:"method,omitempty"`
	EntitlementID *uint   `json:"entitlement_id,omitempty"`
	InvoiceID     *string `json:"invoice_id,omitempty"`
}

type VerifyPaymentResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
	OldStatus      bool            `json:"oldStatus"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}
