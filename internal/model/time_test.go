package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceID_UsesIndianDate(t *testing.T) {
	// 20:00 UTC on the 16th is already the 17th in +05:30.
	at := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-20261017-42", InvoiceID(42, at))

	at = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-20261016-7", InvoiceID(7, at))
}

func TestDisplayTime(t *testing.T) {
	at := time.Date(2026, 10, 17, 10, 35, 0, 0, time.UTC)
	assert.Equal(t, "17/10/26, 4:05 pm", DisplayTime(at))
}
