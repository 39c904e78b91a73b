package listing

import (
	"net/url"
	"testing"
)

func TestQueryRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) FilterState
	}{
		{"default view", func(t *testing.T) FilterState {
			return NewFilterState()
		}},
		{"quick date and status", func(t *testing.T) FilterState {
			state := NewFilterState()
			state.SetQuickDate(QuickDateThisWeek)
			state.SetStatus("1")
			return state
		}},
		{"custom range", func(t *testing.T) FilterState {
			state := NewFilterState()
			state.SetRange(mustRange(t, "2026-01-05", "2026-01-20"))
			return state
		}},
		{"deep page", func(t *testing.T) FilterState {
			state := NewFilterState()
			state.SetQuickDate(QuickDateThisMonth)
			state.SetPageIndex(6, 20)
			return state
		}},
		{"custom range with status and page", func(t *testing.T) FilterState {
			state := NewFilterState()
			state.SetRange(mustRange(t, "2026-02-01", "2026-02-28"))
			state.SetStatus("0")
			state.SetPageIndex(2, 5)
			return state
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.build(t)
			decoded := ParseQuery(original.EncodeQuery())

			if decoded.QuickDate != original.QuickDate {
				t.Errorf("quick date: got %q, want %q", decoded.QuickDate, original.QuickDate)
			}
			if decoded.Status != original.Status {
				t.Errorf("status: got %q, want %q", decoded.Status, original.Status)
			}
			if decoded.PageIndex != original.PageIndex {
				t.Errorf("page index: got %d, want %d", decoded.PageIndex, original.PageIndex)
			}
			switch {
			case original.Range == nil && decoded.Range != nil:
				t.Error("range appeared from nowhere")
			case original.Range != nil && decoded.Range == nil:
				t.Error("range lost in round trip")
			case original.Range != nil:
				if !decoded.Range.From.Equal(original.Range.From) || !decoded.Range.To.Equal(original.Range.To) {
					t.Errorf("range: got %v–%v, want %v–%v",
						decoded.Range.From, decoded.Range.To, original.Range.From, original.Range.To)
				}
			}
		})
	}
}

func TestEncodeQueryOmitsDefaults(t *testing.T) {
	encoded := NewFilterState().EncodeQuery()
	if len(encoded) != 0 {
		t.Errorf("pristine state must encode to an empty query, got %q", encoded.Encode())
	}
}

func TestParseQueryMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, state FilterState)
	}{
		{"unknown date token", "date=lastCentury", func(t *testing.T, state FilterState) {
			if state.QuickDate != DefaultQuickDate {
				t.Errorf("expected default quick date, got %q", state.QuickDate)
			}
		}},
		{"empty date token", "date=&status=1", func(t *testing.T, state FilterState) {
			if state.QuickDate != DefaultQuickDate {
				t.Errorf("expected default quick date, got %q", state.QuickDate)
			}
		}},
		{"custom without range", "date=custom", func(t *testing.T, state FilterState) {
			if state.QuickDate != DefaultQuickDate {
				t.Errorf("expected default quick date, got %q", state.QuickDate)
			}
			if state.Range != nil {
				t.Error("expected nil range")
			}
		}},
		{"range with only fromDate", "fromDate=2026-01-01", func(t *testing.T, state FilterState) {
			if state.Range != nil {
				t.Error("half a range must not parse")
			}
		}},
		{"inverted range", "fromDate=2026-02-01&toDate=2026-01-01", func(t *testing.T, state FilterState) {
			if state.Range != nil {
				t.Error("to before from must not parse")
			}
			if state.QuickDate != DefaultQuickDate {
				t.Errorf("expected default quick date, got %q", state.QuickDate)
			}
		}},
		{"garbage range dates", "fromDate=banana&toDate=2026-01-01", func(t *testing.T, state FilterState) {
			if state.Range != nil {
				t.Error("unparseable dates must not build a range")
			}
		}},
		{"zero page", "page=0", func(t *testing.T, state FilterState) {
			if state.PageIndex != 0 {
				t.Errorf("expected page index 0, got %d", state.PageIndex)
			}
		}},
		{"negative page", "page=-4", func(t *testing.T, state FilterState) {
			if state.PageIndex != 0 {
				t.Errorf("expected page index 0, got %d", state.PageIndex)
			}
		}},
		{"non-numeric page", "page=two", func(t *testing.T, state FilterState) {
			if state.PageIndex != 0 {
				t.Errorf("expected page index 0, got %d", state.PageIndex)
			}
		}},
		{"range overrides date token", "date=today&fromDate=2026-01-01&toDate=2026-01-31", func(t *testing.T, state FilterState) {
			if state.QuickDate != QuickDateCustom {
				t.Errorf("a valid range must force custom, got %q", state.QuickDate)
			}
			if state.Range == nil {
				t.Error("expected range")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			state := ParseQuery(values)

			// Whatever the input, the parsed state must satisfy the
			// custom-range invariant.
			if (state.Range != nil) != (state.QuickDate == QuickDateCustom) {
				t.Errorf("invariant broken: range=%v quickDate=%q", state.Range != nil, state.QuickDate)
			}
			tt.check(t, state)
		})
	}
}

func TestParseQueryPageIsOneBased(t *testing.T) {
	state := ParseQuery(url.Values{"page": {"3"}})
	if state.PageIndex != 2 {
		t.Errorf("page=3 should be index 2, got %d", state.PageIndex)
	}
}
