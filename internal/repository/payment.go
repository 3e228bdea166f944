package repository

import (
	"context"
	"errors"
	"razorpay-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("repository: payment not found")

type PaymentRepository interface {
	CreatePending(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	CreateCompleted(ctx context.Context, tx *gorm.DB, payment *model.Payment, at time.Time) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error)
	FindByEntitlementID(ctx context.Context, entitlementID uint) (*model.Payment, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, payment *model.Payment, gatewayPaymentID string, signature *string, at time.Time) (bool, error)
	LinkEntitlement(ctx context.Context, tx *gorm.DB, payment *model.Payment, entitlementID uint, invoiceID string) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) CreatePending(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	payment.State = model.PaymentStatePending
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	payment.OrderCreatedOn = model.DisplayTime(payment.CreatedAt)

	return tx.WithContext(ctx).Create(payment).Error
}

// CreateCompleted inserts a record that is born completed (zero-cost orders).
func (r *paymentRepoImpl) CreateCompleted(ctx context.Context, tx *gorm.DB, payment *model.Payment, at time.Time) error {
	verifiedOn := model.DisplayTime(at)

	payment.State = model.PaymentStateCompleted
	payment.CreatedAt = at
	payment.OrderCreatedOn = verifiedOn
	payment.VerifiedAt = &at
	payment.VerifiedOn = &verifiedOn

	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&payment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByEntitlementID(ctx context.Context, entitlementID uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("entitlement_id = ?", entitlementID).
		First(&payment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// MarkCompleted moves payment from pending to completed with one conditional
// update. Only the caller whose update matched the pending row gets false
// back; every other caller finds the record already completed, refreshes its
// verification values and gets true. A nil signature leaves the stored
// signature untouched.
func (r *paymentRepoImpl) MarkCompleted(ctx context.Context, tx *gorm.DB, payment *model.Payment, gatewayPaymentID string, signature *string, at time.Time) (bool, error) {
	verifiedOn := model.DisplayTime(at)
	updates := map[string]interface{}{
		"gateway_payment_id": gatewayPaymentID,
		"verified_at":        at,
		"verified_on":        verifiedOn,
		"updated_at":         time.Now(),
	}
	if signature != nil {
		updates["gateway_signature"] = *signature
	}

	transition := map[string]interface{}{"state": model.PaymentStateCompleted}
	for k, v := range updates {
		transition[k] = v
	}

	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where(`
			id = ?
			AND state = ?
		`,
			payment.ID,
			model.PaymentStatePending,
		).
		Updates(transition)

	if result.Error != nil {
		return false, result.Error
	}

	alreadyCompleted := result.RowsAffected == 0
	if alreadyCompleted {
		// MySQL reports unchanged rows as unaffected, so the reload below
		// decides whether the record exists.
		err := tx.WithContext(ctx).Model(&model.Payment{}).
			Where("id = ?", payment.ID).
			Updates(updates).Error
		if err != nil {
			return false, err
		}
	}

	var current model.Payment
	err := tx.WithContext(ctx).
		Where("id = ?", payment.ID).
		First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrPaymentNotFound
	}
	if err != nil {
		return false, err
	}

	*payment = current
	return alreadyCompleted, nil
}

func (r *paymentRepoImpl) LinkEntitlement(ctx context.Context, tx *gorm.DB, payment *model.Payment, entitlementID uint, invoiceID string) error {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"entitlement_id": entitlementID,
			"invoice_id":     invoiceID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	payment.EntitlementID = &entitlementID
	payment.InvoiceID = &invoiceID
	return nil
}
