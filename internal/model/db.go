package model

import "time"

// PaymentState only moves pending -> completed, through
// PaymentRepository.MarkCompleted.
type PaymentState string

const (
	PaymentStatePending   PaymentState = "pending"
	PaymentStateCompleted PaymentState = "completed"
)

// OrderPricing is the price breakdown for one order. It is returned to
// clients and stored on the payment as pricing_* columns. Amounts are in paise.
type OrderPricing struct {
	ProductName        string `json:"name" gorm:"size:128;not null"`
	BaseAmount         int64  `json:"baseAmount" gorm:"not null"`
	DiscountPercentage int64  `json:"discountPercentage" gorm:"not null"`
	DiscountAmount     int64  `json:"discountAmount" gorm:"not null"`
	PayableAmount      int64  `json:"payableAmount" gorm:"not null"`
	TaxPercentage      int64  `json:"taxPercentage" gorm:"not null"`
	TaxAmount          int64  `json:"taxAmount" gorm:"not null"`
	NetAmount          int64  `json:"netAmount" gorm:"not null"`
}

// ChargeAmount is what the gateway is asked to collect.
func (p OrderPricing) ChargeAmount() int64 {
	return p.NetAmount + p.TaxAmount
}

type Payment struct {
	ID               uint         `gorm:"primaryKey"`
	UserID           string       `gorm:"size:64;index;not null"`
	State            PaymentState `gorm:"size:16;index;not null"`
	GatewayOrderID   string       `gorm:"size:64;uniqueIndex;not null"` // razorpay order id or FREE-<uuid>
	GatewayPaymentID *string      `gorm:"size:64"`
	GatewaySignature *string      `gorm:"size:128"`
	EntitlementID    *uint        `gorm:"uniqueIndex"`
	InvoiceID        *string      `gorm:"size:64;uniqueIndex"`
	CouponCode       *string      `gorm:"size:64"`
	Pricing          OrderPricing `gorm:"embedded;embeddedPrefix:pricing_"`
	OrderCreatedOn   string       `gorm:"size:32"` // display time, +05:30
	VerifiedOn       *string      `gorm:"size:32"` // display time, +05:30
	VerifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Payment) IsCompleted() bool {
	return p.State == PaymentStateCompleted
}

// Entitlement is the fulfillment record granted once a payment completes.
type Entitlement struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:64;index;not null"`
	PaymentID uint   `gorm:"uniqueIndex;not null"` // at most one per payment
	CreatedAt time.Time
}

type Coupon struct {
	ID         uint   `gorm:"primaryKey"`
	CouponCode string `gorm:"column:coupon_code;size:64;index;not null"`
	Percentage int64  `gorm:"not null"`
	Valid      bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;uniqueIndex;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
