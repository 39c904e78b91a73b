// Package listing implements the filtered, paginated table binding shared by
// every back-office listing tab: filter state with URL round-tripping, upstream
// fetch normalization, column binding into display view models, and pagination
// controls. Feature packages under internal/api instantiate it per entity.
package listing

import (
	"net/url"
	"strconv"
	"time"
)

// QuickDate is the small enumerated set of relative date ranges used to scope
// a listing query.
type QuickDate string

const (
	QuickDateNone      QuickDate = ""
	QuickDateToday     QuickDate = "today"
	QuickDateYesterday QuickDate = "yesterday"
	QuickDateThisWeek  QuickDate = "thisWeek"
	QuickDateThisMonth QuickDate = "thisMonth"
	QuickDateCustom    QuickDate = "custom"
)

// DefaultQuickDate is what a listing opens with and what a cleared custom
// range reverts to.
const DefaultQuickDate = QuickDateToday

// ParseQuickDate validates a quick-date token from a URL. Unknown or empty
// tokens are rejected so a malformed URL can never construct an invalid
// state.
func ParseQuickDate(raw string) (QuickDate, bool) {
	switch q := QuickDate(raw); q {
	case QuickDateToday, QuickDateYesterday, QuickDateThisWeek, QuickDateThisMonth, QuickDateCustom:
		return q, true
	default:
		return QuickDateNone, false
	}
}

// rangeDateLayout is the date-only wire form of fromDate/toDate.
const rangeDateLayout = "2006-01-02"

// DateRange is a custom from/to pair, date precision only.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) fromString() string { return r.From.Format(rangeDateLayout) }
func (r DateRange) toString() string   { return r.To.Format(rangeDateLayout) }

// FilterState is the single source of truth for what a listing session is
// currently viewing. Invariant: Range is non-nil exactly when QuickDate is
// QuickDateCustom; every setter maintains this in both directions.
type FilterState struct {
	QuickDate QuickDate
	Status    string
	Range     *DateRange
	PageIndex int
}

// NewFilterState returns the default view: default quick filter, no status
// filter, first page.
func NewFilterState() FilterState {
	return FilterState{QuickDate: DefaultQuickDate}
}

// SetQuickDate switches the quick date filter. The empty token is rejected
// unchanged: the unscoped view has no URL form, so reaching it here would
// break the query round trip. Any value other than custom clears the custom
// range; every change lands back on the first page.
func (s *FilterState) SetQuickDate(q QuickDate) {
	if q == QuickDateNone {
		return
	}
	s.QuickDate = q
	if q != QuickDateCustom {
		s.Range = nil
	} else if s.Range == nil {
		// Custom without a range is not a valid state; wait for SetRange.
		s.QuickDate = DefaultQuickDate
	}
	s.PageIndex = 0
}

// SetStatus sets or clears (empty string) the status filter.
func (s *FilterState) SetStatus(status string) {
	s.Status = status
	s.PageIndex = 0
}

// SetRange sets a custom date range, forcing QuickDate to custom. Clearing a
// range while in custom mode reverts to the default quick filter.
func (s *FilterState) SetRange(r *DateRange) {
	if r != nil {
		s.Range = &DateRange{From: r.From, To: r.To}
		s.QuickDate = QuickDateCustom
	} else {
		s.Range = nil
		if s.QuickDate == QuickDateCustom {
			s.QuickDate = DefaultQuickDate
		}
	}
	s.PageIndex = 0
}

// SetPageIndex moves to a page, clamped into [0, totalPages-1] when
// totalPages is known (> 0).
func (s *FilterState) SetPageIndex(index, totalPages int) {
	if index < 0 {
		index = 0
	}
	if totalPages > 0 && index > totalPages-1 {
		index = totalPages - 1
	}
	s.PageIndex = index
}

// QueryParams builds the flat parameter set sent to the platform API for this
// state: page (1-based), limit, and conditionally date, status and
// fromDate/toDate. The date token is omitted for custom mode (the explicit
// range stands in for it) and for the unscoped view.
func (s FilterState) QueryParams(pageSize int, extra url.Values) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(s.PageIndex+1))
	params.Set("limit", strconv.Itoa(pageSize))
	if s.QuickDate != QuickDateCustom && s.QuickDate != QuickDateNone {
		params.Set("date", string(s.QuickDate))
	}
	if s.Status != "" {
		params.Set("status", s.Status)
	}
	if s.Range != nil {
		params.Set("fromDate", s.Range.fromString())
		params.Set("toDate", s.Range.toString())
	}
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	return params
}
