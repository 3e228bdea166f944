package model

const (
	RazorpayPaymentCaptured = "captured"

	RazorpayEventPaymentCaptured = "payment.captured"
	RazorpayEventOrderPaid       = "order.paid"
)

type RazorpayOrder struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type RazorpayPayment struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"` // created, authorized, captured, refunded, failed
	OrderID   string `json:"order_id"`
	Method    string `json:"method"`
	Captured  bool   `json:"captured"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	CreatedAt int64  `json:"created_at"`
}

type RazorpayErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Reason      string `json:"reason"`
}

type RazorpayError struct {
	Error RazorpayErrorBody `json:"error"`
}

type RazorpayPaymentEntity struct {
	Entity RazorpayPayment `json:"entity"`
}

type RazorpayWebhookPayload struct {
	Payment RazorpayPaymentEntity `json:"payment"`
}

type RazorpayWebhookEvent struct {
	Entity    string                 `json:"entity"`
	AccountID string                 `json:"account_id"`
	Event     string                 `json:"event"`
	Contains  []string               `json:"contains"`
	Payload   RazorpayWebhookPayload `json:"payload"`
	CreatedAt int64                  `json:"created_at"`
}
