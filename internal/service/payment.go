package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"razorpay-checkout/internal/cache"
	"razorpay-checkout/internal/client"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/dto"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/model"
	"razorpay-checkout/internal/repository"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// FreeOrderPrefix marks zero-cost orders that never reach the gateway.
	FreeOrderPrefix    = "FREE-"
	freeOrderSignature = "FREE-ORDER"
)

type PaymentService interface {
	GetPricing(ctx context.Context) *dto.PricingResponse
	CheckCoupon(ctx context.Context, couponCode string) *dto.CheckCouponResponse
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type paymentServiceImpl struct {
	db               *gorm.DB
	razorpayCfg      *config.Razorpay
	lockTTL          time.Duration
	lockWait         time.Duration
	razorpayClient   client.RazorpayClient
	couponResolver   CouponResolver
	locker           cache.Locker
	paymentRepo      repository.PaymentRepository
	entitlementRepo  repository.EntitlementRepository
	webhookEventRepo repository.WebhookEventRepository
}

func NewPaymentService(
	db *gorm.DB,
	razorpayCfg *config.Razorpay,
	lockCfg *config.Redis,
	razorpayClient client.RazorpayClient,
	couponResolver CouponResolver,
	locker cache.Locker,
	paymentRepo repository.PaymentRepository,
	entitlementRepo repository.EntitlementRepository,
	webhookEventRepo repository.WebhookEventRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		razorpayCfg:      razorpayCfg,
		lockTTL:          lockCfg.LockTTL,
		lockWait:         lockCfg.LockWait,
		razorpayClient:   razorpayClient,
		couponResolver:   couponResolver,
		locker:           locker,
		paymentRepo:      paymentRepo,
		entitlementRepo:  entitlementRepo,
		webhookEventRepo: webhookEventRepo,
	}
}

func (s *paymentServiceImpl) GetPricing(ctx context.Context) *dto.PricingResponse {
	return &dto.PricingResponse{
		Data: &dto.PricingData{
			OrderPricing: CalculatePricing(0),
			KeyID:        s.razorpayCfg.KeyID,
		},
		Success: true,
	}
}

func (s *paymentServiceImpl) CheckCoupon(ctx context.Context, couponCode string) *dto.CheckCouponResponse {
	percentage := s.couponResolver.Resolve(ctx, couponCode)
	pricing := CalculatePricing(percentage)

	return &dto.CheckCouponResponse{
		Success: percentage != 0,
		Data:    percentage,
		Details: &pricing,
	}
}

func (s *paymentServiceImpl) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if req.KeyID != s.razorpayCfg.KeyID {
		return nil, ErrInvalidKey
	}

	percentage := s.couponResolver.Resolve(ctx, req.CouponCode)
	pricing := CalculatePricing(percentage)

	var couponCode *string
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		couponCode = &code
	}

	if pricing.DiscountPercentage == 100 {
		return s.createFreeOrder(ctx, userID, pricing, couponCode)
	}

	amount := pricing.ChargeAmount()
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	notes := map[string]string{
		"user_id":         userID,
		"expected_amount": strconv.FormatInt(amount, 10),
	}
	if couponCode != nil {
		notes["coupon_code"] = *couponCode
	}

	order, err := s.razorpayClient.CreateOrder(ctx, &client.CreateOrderRequest{
		Amount:   amount,
		Currency: s.razorpayCfg.Currency,
		Receipt:  "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Notes:    notes,
	})
	if err != nil {
		return nil, newPaymentError(ErrGatewayError, err)
	}

	payment := &model.Payment{
		UserID:         userID,
		GatewayOrderID: order.ID,
		CouponCode:     couponCode,
		Pricing:        pricing,
	}
	if err := s.paymentRepo.CreatePending(ctx, s.db, payment); err != nil {
		return nil, fmt.Errorf("store payment in db: %w", err)
	}

	logger.FromContext(ctx).Info("payment order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("amount", amount),
	)

	return &dto.CreateOrderResponse{
		Success:      true,
		Message:      "Order created successfully",
		OrderID:      order.ID,
		Amount:       amount,
		Currency:     s.razorpayCfg.Currency,
		FullDiscount: false,
	}, nil
}

// createFreeOrder records a completed payment and its entitlement in one
// transaction without contacting the gateway.
func (s *paymentServiceImpl) createFreeOrder(ctx context.Context, userID string, pricing model.OrderPricing, couponCode *string) (*dto.CreateOrderResponse, error) {
	now := time.Now()
	orderID := FreeOrderPrefix + uuid.NewString()
	signature := freeOrderSignature

	payment := &model.Payment{
		UserID:           userID,
		GatewayOrderID:   orderID,
		GatewayPaymentID: &orderID,
		GatewaySignature: &signature,
		CouponCode:       couponCode,
		Pricing:          pricing,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.CreateCompleted(ctx, tx, payment, now); err != nil {
			return fmt.Errorf("store free payment in db: %w", err)
		}
		return s.grantEntitlement(ctx, tx, payment, now)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("free order completed",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.Uint("entitlement_id", *payment.EntitlementID),
	)

	return &dto.CreateOrderResponse{
		Success:      true,
		Message:      "Free order created successfully",
		OrderID:      *payment.EntitlementID,
		FullDiscount: true,
	}, nil
}

func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	log := logger.FromContext(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", req.PaymentID),
	)

	if strings.HasPrefix(req.OrderID, FreeOrderPrefix) {
		return &dto.VerifyPaymentResponse{
			Success: true,
			Message: "Free order verified successfully",
		}, nil
	}

	payment, err := s.paymentRepo.FindByGatewayOrderID(ctx, req.OrderID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, newPaymentError(ErrOrderNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}

	if !validSignature(s.razorpayCfg.KeySecret, paymentSignaturePayload(req.OrderID, req.PaymentID), req.Signature) {
		log.Warn("payment signature mismatch")
		return nil, ErrSignatureMismatch
	}

	unlock := s.lockOrder(ctx, req.OrderID)
	defer unlock()

	gatewayPayment, err := s.razorpayClient.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, newPaymentError(ErrGatewayError, err)
	}

	if gatewayPayment.Amount != payment.Pricing.ChargeAmount() {
		log.Warn("payment amount mismatch",
			zap.Int64("expected", payment.Pricing.ChargeAmount()),
			zap.Int64("actual", gatewayPayment.Amount),
		)
		return nil, ErrAmountMismatch
	}
	if gatewayPayment.Status != model.RazorpayPaymentCaptured {
		return nil, newPaymentError(ErrPaymentNotCaptured, fmt.Errorf("status %s", gatewayPayment.Status))
	}

	signature := req.Signature
	alreadyCompleted, err := s.completePayment(ctx, payment, req.PaymentID, &signature, time.Now())
	if err != nil {
		return nil, err
	}

	log.Info("payment verified",
		zap.String("user_id", userID),
		zap.Bool("old_status", alreadyCompleted),
	)

	return &dto.VerifyPaymentResponse{
		Success: true,
		Message: "Payment has been verified and captured",
		PaymentDetails: &dto.PaymentDetails{
			ID:            gatewayPayment.ID,
			OrderID:       req.OrderID,
			Amount:        gatewayPayment.Amount,
			Currency:      gatewayPayment.Currency,
			Status:        gatewayPayment.Status,
			Method:        gatewayPayment.Method,
			EntitlementID: payment.EntitlementID,
			InvoiceID:     payment.InvoiceID,
		},
		OldStatus: alreadyCompleted,
	}, nil
}

func (s *paymentServiceImpl) completePayment(ctx context.Context, payment *model.Payment, gatewayPaymentID string, signature *string, at time.Time) (bool, error) {
	var alreadyCompleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		alreadyCompleted, err = s.completeInTx(ctx, tx, payment, gatewayPaymentID, signature, at)
		return err
	})
	return alreadyCompleted, err
}

// completeInTx performs the pending -> completed transition and grants the
// entitlement only for the caller that made the transition.
func (s *paymentServiceImpl) completeInTx(ctx context.Context, tx *gorm.DB, payment *model.Payment, gatewayPaymentID string, signature *string, at time.Time) (bool, error) {
	alreadyCompleted, err := s.paymentRepo.MarkCompleted(ctx, tx, payment, gatewayPaymentID, signature, at)
	if err != nil {
		return false, fmt.Errorf("mark payment completed: %w", err)
	}
	if alreadyCompleted {
		return true, nil
	}

	return false, s.grantEntitlement(ctx, tx, payment, at)
}

func (s *paymentServiceImpl) grantEntitlement(ctx context.Context, tx *gorm.DB, payment *model.Payment, at time.Time) error {
	entitlement, err := s.entitlementRepo.Record(ctx, tx, payment.ID, payment.UserID)
	if err != nil {
		return fmt.Errorf("record entitlement: %w", err)
	}

	if err := s.paymentRepo.LinkEntitlement(ctx, tx, payment, entitlement.ID, model.InvoiceID(entitlement.ID, at)); err != nil {
		return fmt.Errorf("link entitlement: %w", err)
	}
	return nil
}

// lockOrder serializes verifications of one order across callers. The
// database transition stays the correctness guard, so lock failures only
// get logged.
func (s *paymentServiceImpl) lockOrder(ctx context.Context, orderID string) func() {
	log := logger.FromContext(ctx)

	token, ok, err := cache.Acquire(ctx, s.locker, orderID, s.lockTTL, s.lockWait)
	if err != nil {
		log.Warn("verification lock unavailable", zap.String("order_id", orderID), zap.Error(err))
		return func() {}
	}
	if !ok {
		log.Warn("verification lock wait exceeded, proceeding", zap.String("order_id", orderID))
		return func() {}
	}

	return func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), orderID, token); err != nil {
			log.Debug("release verification lock", zap.String("order_id", orderID), zap.Error(err))
		}
	}
}
