package model

import (
	"fmt"
	"math"
	"strconv"
)

// ParseCents converts decimal string amounts (major currency units) to cents
// (int64). The storefront API returns prices as decimal strings or numbers in
// major units (e.g., "99.00" = $99.00). Handles edge cases: empty strings,
// missing decimals, large values.
// Examples: "99.00" → 9900, "1234.56" → 123456, "" → 0
func ParseCents(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return CentsFromFloat(f)
}

// CentsFromFloat converts a major-unit amount to cents.
// math.Round handles both positive and negative numbers correctly.
func CentsFromFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f * 100))
}

// FormatCents renders cents as a major-unit decimal string ("9900" → "99.00").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
