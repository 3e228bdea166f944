package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// computeSignature returns the lowercase hex HMAC-SHA256 of payload.
func computeSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret string, payload []byte, signature string) bool {
	expected := computeSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// paymentSignaturePayload is what Razorpay Checkout signs: "<order_id>|<payment_id>".
func paymentSignaturePayload(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}
