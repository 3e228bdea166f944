package service

import "fmt"

type ErrorKind string

const (
	KindInvalidKey         ErrorKind = "INVALID_KEY"
	KindInvalidAmount      ErrorKind = "INVALID_AMOUNT"
	KindOrderNotFound      ErrorKind = "ORDER_NOT_FOUND"
	KindSignatureMismatch  ErrorKind = "SIGNATURE_MISMATCH"
	KindAmountMismatch     ErrorKind = "AMOUNT_MISMATCH"
	KindPaymentNotCaptured ErrorKind = "PAYMENT_NOT_CAPTURED"
	KindGatewayError       ErrorKind = "GATEWAY_ERROR"
)

// Sentinels for errors.Is; any *PaymentError of the same kind matches.
var (
	ErrInvalidKey         = &PaymentError{Kind: KindInvalidKey, Message: "Invalid Key ID"}
	ErrInvalidAmount      = &PaymentError{Kind: KindInvalidAmount, Message: "Invalid amount"}
	ErrOrderNotFound      = &PaymentError{Kind: KindOrderNotFound, Message: "Order not found"}
	ErrSignatureMismatch  = &PaymentError{Kind: KindSignatureMismatch, Message: "Invalid signature"}
	ErrAmountMismatch     = &PaymentError{Kind: KindAmountMismatch, Message: "Payment amount does not match order amount"}
	ErrPaymentNotCaptured = &PaymentError{Kind: KindPaymentNotCaptured, Message: "Payment not captured"}
	ErrGatewayError       = &PaymentError{Kind: KindGatewayError, Message: "Payment gateway error"}
)

// PaymentError is the error returned by order creation and verification.
type PaymentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newPaymentError(sentinel *PaymentError, err error) *PaymentError {
	return &PaymentError{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func (e *PaymentError) Is(target error) bool {
	t, ok := target.(*PaymentError)
	return ok && t.Kind == e.Kind
}
