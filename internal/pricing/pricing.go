// Package pricing implements the storefront's pure pricing and bonus rules.
//
// All money is decimal AUD. The functions here are deliberately free of I/O
// so the order form and the server can recompute totals identically.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"dinarex/internal/domain"
)

var (
	// Flat shipping per destination. Anything outside AU/NZ falls back to
	// the configured default fee.
	shippingAustralia  = decimal.RequireFromString("19.99")
	shippingNewZealand = decimal.RequireFromString("49.99")

	iqdLabelPattern = regexp.MustCompile(`^([\d,]+)\s*IQD`)
	zwlLabelPattern = regexp.MustCompile(`(?i)([\d,]+)\s*(Billion|Trillion)\s+Zimbabwe\s+Dollars`)
)

// ShippingFee returns the flat shipping fee for the given destination
// country. Matching is insensitive to case, surrounding whitespace and
// internal spaces, so "new zealand" and "NewZealand" are equivalent.
func ShippingFee(country string, defaultFee decimal.Decimal) decimal.Decimal {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(country)), " ", "")
	switch normalized {
	case "australia":
		return shippingAustralia
	case "newzealand":
		return shippingNewZealand
	default:
		return defaultFee
	}
}

// IQDAmountFromLabel extracts the Iraqi Dinar face amount from a price-list
// label such as "1,000,000 IQD - $2,800 AUD". Returns 0 when the label does
// not lead with an IQD amount.
func IQDAmountFromLabel(label string) int64 {
	m := iqdLabelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0
	}
	return parseGroupedDigits(m[1])
}

// ZWLAmountFromLabel extracts the Zimbabwe Dollar face amount from labels
// such as "10 Trillion Zimbabwe Dollars - $2600 AUD". Billion and Trillion
// multipliers are applied. Returns 0 when the label does not match.
func ZWLAmountFromLabel(label string) int64 {
	m := zwlLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	base := parseGroupedDigits(m[1])
	switch strings.ToLower(m[2]) {
	case "billion":
		return base * 1_000_000_000
	case "trillion":
		return base * 1_000_000_000_000
	}
	return 0
}

// Total computes unitPrice × quantity + shippingFee.
func Total(unitPrice decimal.Decimal, quantity int, shippingFee decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Add(shippingFee)
}

// QualifiesForBonus reports whether the selected currency label clears the
// promotional threshold. A nil config means no promotion is running.
func QualifiesForBonus(cfg *domain.BonusConfig, currencyLabel string) bool {
	if cfg == nil {
		return false
	}
	return IQDAmountFromLabel(currencyLabel) >= cfg.MinAmount
}

func parseGroupedDigits(s string) int64 {
	var n int64
	for _, r := range s {
		if r == ',' {
			continue
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
