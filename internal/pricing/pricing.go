package pricing

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MinimumSubtotal is the smallest billable subtotal in yen, tax excluded.
	MinimumSubtotal = 115900
	// TaxRate is the consumption tax applied to the final subtotal.
	TaxRate = 0.10
	// SubMinimumArea is the area below which the first tier's price is shown.
	SubMinimumArea = 10
	// MaxPricedArea is the largest area, in m², that is priced. Anything
	// larger prices like unreadable input.
	MaxPricedArea = 1_000_000
)

// Config holds everything a price calculation depends on.
type Config struct {
	Tiers           Table
	MinimumSubtotal float64
	TaxRate         float64
	SubMinimumArea  float64
	MaxPricedArea   float64 // 0 disables the cap
}

func NewDefaultPricing() Config {
	return Config{
		Tiers:           DefaultTable,
		MinimumSubtotal: MinimumSubtotal,
		TaxRate:         TaxRate,
		SubMinimumArea:  SubMinimumArea,
		MaxPricedArea:   MaxPricedArea,
	}
}

// Result is a price breakdown derived from one area input.
type Result struct {
	Area           float64 `json:"area"`
	UnitPrice      int64   `json:"unit_price"`
	SubtotalRaw    float64 `json:"subtotal_raw"`
	SubtotalFinal  float64 `json:"subtotal_final"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	MinimumApplied bool    `json:"minimum_applied"`
}

// Compute prices areaInput with the default configuration.
func Compute(areaInput string) Result {
	return NewDefaultPricing().Compute(areaInput)
}

// Compute parses areaInput and prices it. Input that is not a number is
// treated as an area of zero, so the minimum floor applies.
func (cfg Config) Compute(areaInput string) Result {
	return cfg.ComputeArea(ParseArea(areaInput))
}

// ComputeArea prices an already parsed area. An area outside InRange, or
// one whose subtotal would not be finite, is priced as zero.
func (cfg Config) ComputeArea(area float64) Result {
	if !cfg.InRange(area) {
		area = 0
	}
	unitPrice := cfg.UnitPrice(area)
	subtotalRaw := area * float64(unitPrice)
	if math.IsInf(subtotalRaw, 0) || math.IsNaN(subtotalRaw) {
		return cfg.ComputeArea(0)
	}

	minimumApplied := subtotalRaw < cfg.MinimumSubtotal
	subtotalFinal := subtotalRaw
	if minimumApplied {
		subtotalFinal = cfg.MinimumSubtotal
	}

	tax := math.Floor(subtotalFinal * cfg.TaxRate)

	return Result{
		Area:           area,
		UnitPrice:      unitPrice,
		SubtotalRaw:    subtotalRaw,
		SubtotalFinal:  subtotalFinal,
		Tax:            tax,
		Total:          subtotalFinal + tax,
		MinimumApplied: minimumApplied,
	}
}

// InRange reports whether area is within ±MaxPricedArea.
func (cfg Config) InRange(area float64) bool {
	if math.IsNaN(area) {
		return false
	}
	return cfg.MaxPricedArea <= 0 || math.Abs(area) <= cfg.MaxPricedArea
}

// UnitPrice returns the per-m² price for area. Areas below SubMinimumArea
// display the first tier's price even though the minimum floor decides what
// is actually charged.
func (cfg Config) UnitPrice(area float64) int64 {
	if len(cfg.Tiers) == 0 {
		return 0
	}
	if area < cfg.SubMinimumArea {
		return cfg.Tiers[0].Price
	}
	tier, _, _ := cfg.Tiers.Lookup(area)
	return tier.Price
}

// UnitPrice looks area up in the default table.
func UnitPrice(area float64) int64 {
	return NewDefaultPricing().UnitPrice(area)
}

// ParseArea reads the longest leading decimal number from input, after
// skipping leading whitespace ("20㎡" is 20). Anything without a leading
// number, and any value that is not finite, becomes 0.
func ParseArea(input string) float64 {
	s := strings.TrimLeftFunc(input, unicode.IsSpace)

	end := numericPrefix(s)
	if end == 0 {
		return 0
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v == 0 {
		// v == 0 also folds negative zero into zero
		return 0
	}
	return v
}

// numericPrefix returns the length of the decimal literal at the start of s:
// optional sign, digits with an optional fraction, optional exponent.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
