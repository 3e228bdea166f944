package service

import (
	"context"
	"errors"
	"fmt"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/model"
	"razorpay-checkout/internal/printing"
	"razorpay-checkout/internal/repository"
	"razorpay-checkout/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice: not found")
	ErrInvoiceForbidden = errors.New("invoice: owned by another user")
)

type InvoicePDF struct {
	InvoiceID string
	Filename  string
	Data      []byte
}

type InvoiceService interface {
	GenerateInvoicePDF(ctx context.Context, userID string, entitlementID uint) (*InvoicePDF, error)
}

type invoiceServiceImpl struct {
	invoiceCfg  *config.Invoice
	paymentRepo repository.PaymentRepository
	renderer    printing.PDFRenderer
	archive     storage.InvoiceArchive
}

func NewInvoiceService(
	invoiceCfg *config.Invoice,
	paymentRepo repository.PaymentRepository,
	renderer printing.PDFRenderer,
	archive storage.InvoiceArchive,
) InvoiceService {
	return &invoiceServiceImpl{
		invoiceCfg:  invoiceCfg,
		paymentRepo: paymentRepo,
		renderer:    renderer,
		archive:     archive,
	}
}

func (s *invoiceServiceImpl) GenerateInvoicePDF(ctx context.Context, userID string, entitlementID uint) (*InvoicePDF, error) {
	payment, err := s.paymentRepo.FindByEntitlementID(ctx, entitlementID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by entitlement: %w", err)
	}
	if payment.UserID != userID {
		return nil, ErrInvoiceForbidden
	}
	if !payment.IsCompleted() || payment.InvoiceID == nil {
		return nil, ErrInvoiceNotFound
	}

	invoice := BuildInvoice(payment, s.invoiceCfg)
	html, err := printing.RenderInvoiceHTML(invoice)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:    html,
		Title:   invoice.InvoiceID,
		Margins: printing.DefaultMargins(),
		Timeout: s.invoiceCfg.RenderTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := s.archive.Put(ctx, invoice.InvoiceID, result.PDFData); err != nil {
		logger.FromContext(ctx).Warn("archive invoice failed",
			zap.String("invoice_id", invoice.InvoiceID),
			zap.Error(err),
		)
	}

	return &InvoicePDF{
		InvoiceID: invoice.InvoiceID,
		Filename:  invoice.InvoiceID + ".pdf",
		Data:      result.PDFData,
	}, nil
}

// BuildInvoice lays out a completed payment as a tax invoice. The tax is
// included in the payable amount and split evenly into CGST and SGST.
func BuildInvoice(payment *model.Payment, invoiceCfg *config.Invoice) *printing.Invoice {
	p := payment.Pricing

	cgst := p.TaxAmount / 2
	sgst := p.TaxAmount - cgst
	halfRate := decimal.NewFromInt(p.TaxPercentage).Div(decimal.NewFromInt(2)).String() + "%"

	issuedAt := payment.CreatedAt
	if payment.VerifiedAt != nil {
		issuedAt = *payment.VerifiedAt
	}

	var invoiceID, paymentRef string
	if payment.InvoiceID != nil {
		invoiceID = *payment.InvoiceID
	}
	if payment.GatewayPaymentID != nil {
		paymentRef = *payment.GatewayPaymentID
	}

	return &printing.Invoice{
		InvoiceID: invoiceID,
		Date:      issuedAt.In(model.IST).Format("02/01/2006"),
		Seller: printing.Party{
			Name:  invoiceCfg.CompanyName,
			Lines: []string{invoiceCfg.CompanyAddress},
			Phone: invoiceCfg.CompanyPhone,
			GSTIN: invoiceCfg.CompanyGSTIN,
		},
		BillTo: printing.Party{
			Name:  "Customer",
			Lines: []string{"Customer ID: " + payment.UserID},
		},
		Lines: []printing.InvoiceLine{
			{
				Description: p.ProductName,
				Rate:        printing.FormatPaise(p.BaseAmount),
				Quantity:    1,
				Amount:      printing.FormatPaise(p.BaseAmount),
			},
		},
		Subtotal:     printing.FormatPaise(p.BaseAmount),
		Discount:     printing.FormatPaise(p.DiscountAmount),
		TaxableValue: printing.FormatPaise(p.NetAmount),
		CGSTRate:     halfRate,
		CGST:         printing.FormatPaise(cgst),
		SGSTRate:     halfRate,
		SGST:         printing.FormatPaise(sgst),
		Total:        printing.FormatPaise(p.PayableAmount),
		PaymentRef:   paymentRef,
	}
}
