// Package normalize turns noisy numeric strings from market-research text
// into floats and detects currency hints in raw text.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bareNumber   = regexp.MustCompile(`[\d.]+`)
	signedNumber = regexp.MustCompile(`[-+]?\d*\.?\d+`)
)

// ParseValue converts a string like "$2.3 billion" or "1,234.5" into a
// float. Magnitude suffixes are matched case-insensitively, abbreviations
// included ("bn", "m"). Returns false when no numeric token is found;
// normalization is best-effort and never produces an error.
func ParseValue(s string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), ",", ""))
	if cleaned == "" {
		return 0, false
	}

	switch {
	case strings.Contains(cleaned, "billion") || strings.Contains(cleaned, "bn"):
		return scaled(cleaned, 1e9)
	case strings.Contains(cleaned, "million") || strings.Contains(cleaned, "m"):
		return scaled(cleaned, 1e6)
	default:
		tok := signedNumber.FindString(cleaned)
		if tok == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
}

func scaled(s string, mult float64) (float64, bool) {
	tok := bareNumber.FindString(s)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}

// currencyHints are checked in priority order; the first match wins.
var currencyHints = []struct {
	symbol string
	code   string
	iso    string
}{
	{"$", "usd", "USD"},
	{"€", "eur", "EUR"},
	{"£", "gbp", "GBP"},
	{"₹", "inr", "INR"},
}

// DetectCurrency scans raw document text for currency symbols or 3-letter
// codes. Returns false when no hint is present.
func DetectCurrency(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, h := range currencyHints {
		if strings.Contains(text, h.symbol) || strings.Contains(lower, h.code) {
			return h.iso, true
		}
	}
	return "", false
}
