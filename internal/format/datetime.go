// Package format holds the display formatters shared by every listing column
// binding: dates, money and status badges. All formatters are total functions;
// bad input comes back as a placeholder or unchanged, never as an error.
package format

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DisplayTimeLayout is the one layout every listing renders timestamps in.
const DisplayTimeLayout = "02-01-2006 03:04 PM"

// parseLayouts are tried in order for string timestamps coming out of the
// platform API. The backend is not consistent about which one it sends.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// DateTime renders any timestamp-ish value as DD-MM-YYYY hh:mm AM/PM.
//
// Numeric values are treated as Unix epochs: ten digits means seconds,
// thirteen means milliseconds. Strings are tried against the known backend
// layouts, then against a bare epoch. Anything unparseable is returned
// unchanged so a broken upstream field still shows something in the grid.
func DateTime(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(DisplayTimeLayout)
	case int:
		return epochOrDigits(int64(v))
	case int64:
		return epochOrDigits(v)
	case float64:
		return epochOrDigits(int64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return epochOrDigits(n)
		}
		return v.String()
	case string:
		return dateTimeString(v)
	default:
		return ""
	}
}

func dateTimeString(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if out := epochString(n); out != "" {
			return out
		}
		return raw
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayTimeLayout)
		}
	}
	return raw
}

// epochOrDigits falls back to the raw digits for values that are not
// plausible epochs, so numeric IDs routed through a date column stay visible.
func epochOrDigits(n int64) string {
	if out := epochString(n); out != "" {
		return out
	}
	return strconv.FormatInt(n, 10)
}

// epochString disambiguates seconds from milliseconds by digit count.
func epochString(n int64) string {
	if n <= 0 {
		return ""
	}
	digits := len(strconv.FormatInt(n, 10))
	var t time.Time
	switch {
	case digits <= 10:
		t = time.Unix(n, 0)
	case digits == 13:
		t = time.UnixMilli(n)
	default:
		return ""
	}
	return t.UTC().Format(DisplayTimeLayout)
}
