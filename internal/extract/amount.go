package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Amount is a normalized monetary value.
// Value is the magnitude; explicit sign tokens are reported separately.
type Amount struct {
	Value    decimal.Decimal
	Negative bool
	Positive bool
}

var (
	currencyCodeRE = regexp.MustCompile(`(?i)\b(?:USD|EUR|GBP|JPY|KRW|CNY|CAD|AUD|CHF|NZD|INR|RS)\.?`)
	plainNumberRE  = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)
)

// NormalizeAmount parses a locale-formatted amount such as "$1,234.56",
// "1.234,56" or "-45.20". It returns false when the residual after stripping
// currency markers, whitespace and signs is not a number.
func NormalizeAmount(raw string) (Amount, bool) {
	var amt Amount

	s := currencyCodeRE.ReplaceAllString(raw, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '-':
			amt.Negative = true
			return -1
		case r == '+':
			amt.Positive = true
			return -1
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, s)

	// a leading separator may only be the decimal point of ".50" or ",50"
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, ",") {
		if strings.Count(s, ".")+strings.Count(s, ",") > 1 {
			return Amount{}, false
		}
	}

	s = normalizeSeparators(s)
	if !plainNumberRE.MatchString(s) {
		return Amount{}, false
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, false
	}
	amt.Value = value.Abs()
	return amt, true
}

// normalizeSeparators rewrites thousands and decimal separators so the result
// uses a single '.' as decimal point and no grouping.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		frac := len(s) - lastComma - 1
		if strings.Count(s, ",") == 1 && frac >= 1 && frac <= 2 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
