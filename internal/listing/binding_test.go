package listing

import (
	"testing"

	"github.com/medrush/opsconsole/internal/format"
)

var testStatuses = format.StatusSet{
	"1": {Label: "Active", Severity: format.SeveritySuccess},
	"0": {Label: "Inactive", Severity: format.SeverityDanger},
}

func testTable() Table {
	return Table{Columns: []Column{
		TextColumn("driver_name", "Name"),
		TextColumn("driver_phone", "Phone"),
		CurrencyColumn("wallet_balance", "Wallet"),
		StatusColumn("driver_status", "Status", testStatuses),
		DateColumn("created_at", "Joined"),
		ImageColumn("profile_image", "Photo"),
	}}
}

func TestTableHeaders(t *testing.T) {
	got := testTable().Headers()
	want := []string{"Name", "Phone", "Wallet", "Status", "Joined", "Photo"}
	if len(got) != len(want) {
		t.Fatalf("got %d headers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBindFullRow(t *testing.T) {
	rows := []Row{{
		"driver_id":      float64(88),
		"driver_name":    "Asha Kumar",
		"driver_phone":   "+919812345678",
		"wallet_balance": float64(1520.5),
		"driver_status":  float64(1),
		"created_at":     "2026-03-14T09:30:00Z",
		"profile_image":  "https://cdn.example.com/d/88.jpg",
	}}

	bound := testTable().Bind(rows, "driver_id")
	if len(bound) != 1 {
		t.Fatalf("expected 1 bound row, got %d", len(bound))
	}
	row := bound[0]

	if row.ID != "88" {
		t.Errorf("id: got %q, want \"88\"", row.ID)
	}
	if row.Cells[0].Text != "Asha Kumar" {
		t.Errorf("name cell: got %q", row.Cells[0].Text)
	}
	if row.Cells[2].Text != "₹1,520.50" {
		t.Errorf("wallet cell: got %q", row.Cells[2].Text)
	}
	if row.Cells[3].Text != "Active" || row.Cells[3].Badge == nil || row.Cells[3].Badge.Severity != format.SeveritySuccess {
		t.Errorf("status cell: got %+v", row.Cells[3])
	}
	if row.Cells[4].Text != "14-03-2026 09:30 AM" {
		t.Errorf("date cell: got %q", row.Cells[4].Text)
	}
	if row.Cells[5].Image != "https://cdn.example.com/d/88.jpg" {
		t.Errorf("image cell: got %+v", row.Cells[5])
	}
}

func TestBindMissingFieldsUsePlaceholder(t *testing.T) {
	rows := []Row{{
		"driver_id":   float64(3),
		"driver_name": "  ",
	}}

	bound := testTable().Bind(rows, "driver_id")
	cells := bound[0].Cells

	for i, label := range []string{"name", "phone", "wallet", "", "joined", "photo"} {
		if label == "" {
			continue // status renders its unknown badge, checked below
		}
		if cells[i].Text != format.Placeholder {
			t.Errorf("%s cell: got %q, want placeholder", label, cells[i].Text)
		}
	}
	if cells[3].Badge == nil || cells[3].Text != format.UnknownBadge.Label {
		t.Errorf("status cell without value: got %+v", cells[3])
	}
}

func TestRowString(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		key  string
		want string
	}{
		{"missing key", Row{}, "x", format.Placeholder},
		{"nil value", Row{"x": nil}, "x", format.Placeholder},
		{"blank string", Row{"x": "   "}, "x", format.Placeholder},
		{"plain string", Row{"x": "hello"}, "x", "hello"},
		{"whole float", Row{"x": float64(42)}, "x", "42"},
		{"fractional float", Row{"x": float64(4.25)}, "x", "4.25"},
		{"bool", Row{"x": true}, "x", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.String(tt.key); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
