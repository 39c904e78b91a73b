package listing

import (
	"net/url"
	"strconv"
	"time"
)

// Browser-facing query parameter names. These are the shareable part of a
// listing view; EncodeQuery and ParseQuery are the only reader/writer pair.
const (
	paramDate     = "date"
	paramStatus   = "status"
	paramFromDate = "fromDate"
	paramToDate   = "toDate"
	paramPage     = "page"
)

// EncodeQuery serializes the state into its URL form. The default quick
// filter is omitted so pristine views keep clean URLs, and page is written
// 1-based (omitted for the first page).
func (s FilterState) EncodeQuery() url.Values {
	values := url.Values{}
	if s.QuickDate != DefaultQuickDate && s.QuickDate != QuickDateNone {
		values.Set(paramDate, string(s.QuickDate))
	}
	if s.Status != "" {
		values.Set(paramStatus, s.Status)
	}
	if s.Range != nil {
		values.Set(paramFromDate, s.Range.fromString())
		values.Set(paramToDate, s.Range.toString())
	}
	if s.PageIndex > 0 {
		values.Set(paramPage, strconv.Itoa(s.PageIndex+1))
	}
	return values
}

// ParseQuery reconstructs a FilterState from URL query values. Each field
// falls back to its default when the raw value is missing or malformed; the
// custom-range invariant is re-established last so no combination of
// parameters can produce an inconsistent state.
func ParseQuery(values url.Values) FilterState {
	state := NewFilterState()

	if q, ok := ParseQuickDate(values.Get(paramDate)); ok {
		state.QuickDate = q
	}
	state.Status = values.Get(paramStatus)

	from, okFrom := parseRangeDate(values.Get(paramFromDate))
	to, okTo := parseRangeDate(values.Get(paramToDate))
	if okFrom && okTo && !to.Before(from) {
		state.Range = &DateRange{From: from, To: to}
		state.QuickDate = QuickDateCustom
	} else if state.QuickDate == QuickDateCustom {
		// date=custom without a usable range is not representable.
		state.QuickDate = DefaultQuickDate
	}

	if page, err := strconv.Atoi(values.Get(paramPage)); err == nil && page > 1 {
		state.PageIndex = page - 1
	}
	return state
}

func parseRangeDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(rangeDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
