package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"razorpay-checkout/internal/cache"
	"razorpay-checkout/internal/client"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/middleware"
	"razorpay-checkout/internal/printing"
	"razorpay-checkout/internal/repository"
	"razorpay-checkout/internal/server"
	"razorpay-checkout/internal/service"
	"razorpay-checkout/internal/storage"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log).With(zap.String("env", cfg.Environment.Name))
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := client.InitDBClient(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	defer sqlDB.Close()

	razorpayClient := client.NewRazorpayClient(&cfg.Razorpay)

	paymentRepo := repository.NewPaymentRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	locker := cache.NewLocker(&cfg.Redis, log)
	defer locker.Close()

	renderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Invoice.RenderTimeout,
		RemoteURL:      cfg.Invoice.ChromeRemoteURL,
		NoSandbox:      cfg.Invoice.ChromeNoSandbox,
		Logger:         log,
	})
	defer renderer.Close()

	archive, err := storage.NewInvoiceArchive(&cfg.Invoice.S3, log)
	if err != nil {
		return fmt.Errorf("init invoice archive: %w", err)
	}

	paymentService := service.NewPaymentService(
		db,
		&cfg.Razorpay,
		&cfg.Redis,
		razorpayClient,
		service.NewCouponResolver(couponRepo),
		locker,
		paymentRepo,
		entitlementRepo,
		webhookEventRepo,
	)
	invoiceService := service.NewInvoiceService(&cfg.Invoice, paymentRepo, renderer, archive)

	srv := server.NewServer(
		cfg,
		log,
		paymentService,
		invoiceService,
		middleware.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
	)

	errChan := make(chan error, 1)
	log.Info("Starting HTTP server",
		zap.String("addr", cfg.HTTP.Host+":"+cfg.HTTP.Port),
		zap.String("base_path", cfg.HTTP.BasePath),
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		log.Info("Signal received, starting graceful shutdown", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
