package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"razorpay-checkout/internal/service"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func invoiceContext(e *echo.Echo, id string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/payment/invoice/pdf/"+id, nil), rec)
	c.SetPath("/payment/invoice/pdf/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return withUser(c, "user-1"), rec
}

func TestInvoiceHandler_GetInvoicePDF(t *testing.T) {
	e := echo.New()

	t.Run("serves the pdf as attachment", func(t *testing.T) {
		svc := &mockInvoiceService{}
		svc.On("GenerateInvoicePDF", mock.Anything, "user-1", uint(7)).Return(&service.InvoicePDF{
			InvoiceID: "INV-20261017-7",
			Filename:  "INV-20261017-7.pdf",
			Data:      []byte("%PDF-1.4"),
		}, nil)

		c, rec := invoiceContext(e, "7")
		require.NoError(t, NewInvoiceHandler(svc).GetInvoicePDF(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "attachment; filename=INV-20261017-7.pdf", rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
	})

	t.Run("render failure", func(t *testing.T) {
		svc := &mockInvoiceService{}
		svc.On("GenerateInvoicePDF", mock.Anything, "user-1", uint(7)).Return(nil, errors.New("chrome crashed"))

		c, rec := invoiceContext(e, "7")
		require.NoError(t, NewInvoiceHandler(svc).GetInvoicePDF(c))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error generating PDF", rec.Body.String())
	})

	errorCases := []struct {
		name string
		id   string
		err  error
		code int
	}{
		{"not found", "7", service.ErrInvoiceNotFound, http.StatusNotFound},
		{"forbidden", "7", service.ErrInvoiceForbidden, http.StatusForbidden},
		{"non numeric id", "abc", nil, http.StatusBadRequest},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockInvoiceService{}
			svc.On("GenerateInvoicePDF", mock.Anything, "user-1", mock.Anything).Return(nil, tt.err)

			c, _ := invoiceContext(e, tt.id)
			err := NewInvoiceHandler(svc).GetInvoicePDF(c)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}
