package format

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Placeholder is the single display fallback for missing or non-numeric
// values across every listing column.
const Placeholder = "N/A"

const currencyGlyph = "₹"

// Currency renders a numeric-ish value as a rupee amount with two decimals
// and thousands separators, e.g. ₹12,500.00. Missing or non-numeric values
// render the shared placeholder.
func Currency(value any) string {
	amount, ok := asFloat(value)
	if !ok {
		return Placeholder
	}
	return currencyGlyph + groupThousands(strconv.FormatFloat(amount, 'f', 2, 64))
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// groupThousands inserts comma separators into the integer part of a fixed
// two-decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
