package handler

import (
	"errors"
	"io"
	"net/http"
	"razorpay-checkout/internal/dto"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/middleware"
	"razorpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) GetPricing(c echo.Context) error {
	ctx := c.Request().Context()

	return c.JSON(http.StatusOK, h.paymentService.GetPricing(ctx))
}

func (h *PaymentHandler) CheckCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return c.JSON(http.StatusOK, h.paymentService.CheckCoupon(ctx, req.CouponCode))
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.paymentService.CreateOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return badRequest(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.OrderID == "" {
		return badRequest(c, errors.New("order_id is required"))
	}

	resp, err := h.paymentService.VerifyPayment(ctx, middleware.UserID(c), &req)
	if err != nil {
		return badRequest(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) RazorpayWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.paymentService.HandleWebhook(ctx, c.Request().Header, body)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, service.ErrWebhookDisabled):
		return c.NoContent(http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidWebhookSignature), errors.Is(err, service.ErrInvalidWebhookPayload):
		logger.FromContext(ctx).Warn("webhook rejected", zap.Error(err))
		return c.NoContent(http.StatusBadRequest)
	default:
		// Non-2xx makes Razorpay redeliver.
		logger.FromContext(ctx).Error("webhook processing failed", zap.Error(err))
		return c.NoContent(http.StatusInternalServerError)
	}
}

// badRequest renders every create/verify failure as 400 with the error kind.
func badRequest(c echo.Context, err error) error {
	resp := dto.ErrorResponse{
		Success: false,
		Message: "Bad Request",
		Error:   err.Error(),
	}

	var paymentErr *service.PaymentError
	if errors.As(err, &paymentErr) {
		resp.Error = paymentErr.Message
		resp.Code = string(paymentErr.Kind)
	}

	logger.FromContext(c.Request().Context()).Warn("payment request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusBadRequest, resp)
}
