package printing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPaise renders an amount in paise as rupees with thousands
// separators, e.g. 100000 -> "1,000.00".
func FormatPaise(paise int64) string {
	s := decimal.New(paise, -2).StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if negative {
		return "-" + out
	}
	return out
}
