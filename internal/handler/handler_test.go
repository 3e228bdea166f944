package handler

import (
	"context"
	"net/http"
	"razorpay-checkout/internal/dto"
	"razorpay-checkout/internal/middleware"
	"razorpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) GetPricing(ctx context.Context) *dto.PricingResponse {
	args := m.Called(ctx)
	return args.Get(0).(*dto.PricingResponse)
}

func (m *mockPaymentService) CheckCoupon(ctx context.Context, couponCode string) *dto.CheckCouponResponse {
	args := m.Called(ctx, couponCode)
	return args.Get(0).(*dto.CheckCouponResponse)
}

func (m *mockPaymentService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateOrderResponse), args.Error(1)
}

func (m *mockPaymentService) VerifyPayment(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VerifyPaymentResponse), args.Error(1)
}

func (m *mockPaymentService) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	args := m.Called(ctx, headers, body)
	return args.Error(0)
}

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) GenerateInvoicePDF(ctx context.Context, userID string, entitlementID uint) (*service.InvoicePDF, error) {
	args := m.Called(ctx, userID, entitlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoicePDF), args.Error(1)
}

// withUser mimics AuthMiddleware for handler tests.
func withUser(c echo.Context, userID string) echo.Context {
	c.Set(middleware.UserIDKey, userID)
	return c
}
