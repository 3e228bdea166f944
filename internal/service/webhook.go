package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"razorpay-checkout/internal/logger"
	"razorpay-checkout/internal/model"
	"razorpay-checkout/internal/repository"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	headerWebhookSignature = "X-Razorpay-Signature"
	headerWebhookEventID   = "X-Razorpay-Event-Id"
)

var (
	ErrWebhookDisabled         = errors.New("webhook: secret not configured")
	ErrInvalidWebhookSignature = errors.New("webhook: invalid signature")
	ErrInvalidWebhookPayload   = errors.New("webhook: invalid payload")
)

// HandleWebhook completes payments from Razorpay's payment.captured and
// order.paid events. Events for unknown orders, unsupported types, or
// payments that fail reconciliation are acknowledged and recorded.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if s.razorpayCfg.WebhookSecret == "" {
		return ErrWebhookDisabled
	}
	if !validSignature(s.razorpayCfg.WebhookSecret, body, headers.Get(headerWebhookSignature)) {
		return ErrInvalidWebhookSignature
	}

	var event model.RazorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookPayload, err)
	}

	entity := event.Payload.Payment.Entity
	eventID := headers.Get(headerWebhookEventID)
	if eventID == "" {
		eventID = event.Event + ":" + entity.ID
	}

	log := logger.FromContext(ctx).With(
		zap.String("event_id", eventID),
		zap.String("event_type", event.Event),
		zap.String("order_id", entity.OrderID),
	)

	exists, err := s.webhookEventRepo.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("check webhook event: %w", err)
	}
	if exists {
		log.Info("duplicate webhook event ignored")
		return nil
	}

	switch event.Event {
	case model.RazorpayEventPaymentCaptured, model.RazorpayEventOrderPaid:
	default:
		log.Debug("webhook event type not handled")
		return s.webhookEventRepo.MarkProcessed(ctx, s.db, eventID, event.Event)
	}

	payment, err := s.paymentRepo.FindByGatewayOrderID(ctx, entity.OrderID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		log.Info("webhook for unknown order acknowledged")
		return s.webhookEventRepo.MarkProcessed(ctx, s.db, eventID, event.Event)
	}
	if err != nil {
		return fmt.Errorf("find payment: %w", err)
	}

	if entity.Amount != payment.Pricing.ChargeAmount() || entity.Status != model.RazorpayPaymentCaptured {
		log.Warn("webhook payment failed reconciliation",
			zap.Int64("expected", payment.Pricing.ChargeAmount()),
			zap.Int64("actual", entity.Amount),
			zap.String("status", entity.Status),
		)
		return s.webhookEventRepo.MarkProcessed(ctx, s.db, eventID, event.Event)
	}

	unlock := s.lockOrder(ctx, entity.OrderID)
	defer unlock()

	var alreadyCompleted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.webhookEventRepo.MarkProcessed(ctx, tx, eventID, event.Event); err != nil {
			return fmt.Errorf("mark webhook processed: %w", err)
		}

		alreadyCompleted, err = s.completeInTx(ctx, tx, payment, entity.ID, nil, time.Now())
		return err
	})
	if err != nil {
		return err
	}

	log.Info("webhook processed", zap.Bool("old_status", alreadyCompleted))
	return nil
}
