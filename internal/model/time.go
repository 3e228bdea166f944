package model

import (
	"fmt"
	"time"
)

// IST is the fixed +05:30 zone used for every display date and invoice id.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const displayLayout = "02/01/06, 3:04 pm"

// DisplayTime formats t the way receipts and invoices show it, e.g. "17/10/26, 4:05 pm".
func DisplayTime(t time.Time) string {
	return t.In(IST).Format(displayLayout)
}

// InvoiceID derives the human invoice number for an entitlement: INV-YYYYMMDD-<id>.
func InvoiceID(entitlementID uint, at time.Time) string {
	return fmt.Sprintf("INV-%s-%d", at.In(IST).Format("20060102"), entitlementID)
}
