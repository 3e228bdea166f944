package server

import (
	"context"
	"net/http"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/handler"
	"razorpay-checkout/internal/middleware"
	"razorpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo           *echo.Echo
	httpCfg        *config.HTTPServer
	webhookEnabled bool
	tokenValidator *middleware.TokenValidator
	paymentHandler *handler.PaymentHandler
	invoiceHandler *handler.InvoiceHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	paymentService service.PaymentService,
	invoiceService service.InvoiceService,
	tokenValidator *middleware.TokenValidator,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Debug mode exposes internal error messages in responses.
	e.Debug = !cfg.IsProduction()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestContextLogger(logger))
	e.Use(middleware.AccessLog(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		httpCfg:        &cfg.HTTP,
		webhookEnabled: cfg.Razorpay.WebhookSecret != "",
		tokenValidator: tokenValidator,
		paymentHandler: handler.NewPaymentHandler(paymentService),
		invoiceHandler: handler.NewInvoiceHandler(invoiceService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group(s.httpCfg.BasePath)
	auth := middleware.AuthMiddleware(s.tokenValidator)

	api.GET("", s.paymentHandler.GetPricing)
	api.GET("/", s.paymentHandler.GetPricing)
	api.POST("/check-coupon", s.paymentHandler.CheckCoupon)
	api.POST("/create", s.paymentHandler.CreateOrder, auth)
	api.POST("/verify", s.paymentHandler.VerifyPayment, auth)
	api.GET("/invoice/pdf/:id", s.invoiceHandler.GetInvoicePDF, auth)

	// -------- razorpay webhooks --------
	if s.webhookEnabled {
		api.POST("/webhook", s.paymentHandler.RazorpayWebhook)
	}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	return s.echo.Start(s.httpCfg.Host + ":" + s.httpCfg.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
