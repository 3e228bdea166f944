package handler

import (
	"errors"
	"net/http"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/middleware"
	"razorpay-checkout/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

func (h *InvoiceHandler) GetInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	entitlementID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || entitlementID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	pdf, err := h.invoiceService.GenerateInvoicePDF(ctx, middleware.UserID(c), uint(entitlementID))
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	case errors.Is(err, service.ErrInvoiceForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "invoice belongs to another user")
	case err != nil:
		logger.FromContext(ctx).Error("PDF generation error", zap.Uint64("entitlement_id", entitlementID), zap.Error(err))
		return c.String(http.StatusInternalServerError, "Error generating PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+pdf.Filename)
	return c.Blob(http.StatusOK, "application/pdf", pdf.Data)
}
