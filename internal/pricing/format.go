package pricing

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the ISO code every amount is expressed in.
var Currency = currency.JPY

const yenSign = "￥"

var jaPrinter = message.NewPrinter(language.Japanese)

// FormatYen formats v the way a ja-JP currency formatter does: full-width yen
// sign, digit grouping, no minor unit (￥231,000). A value that is not finite
// formats as "-".
func FormatYen(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}

	r := math.Round(v)
	sign := ""
	if r < 0 {
		sign = "-"
		r = -r
	}
	if r > maxExactYen {
		// Past int64 the float is printed as is.
		return sign + yenSign + jaPrinter.Sprintf("%.0f", r)
	}
	return sign + yenSign + jaPrinter.Sprintf("%d", int64(r))
}

// maxExactYen is the largest yen amount formatted through int64.
const maxExactYen = 1 << 62

// FormatPrice formats a whole-yen price with grouping and no sign (11,200).
func FormatPrice(v int64) string {
	return jaPrinter.Sprintf("%d", v)
}
