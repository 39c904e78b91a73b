package listing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/medrush/opsconsole/internal/format"
)

// Cell is one rendered grid cell: display text plus optional decorations.
type Cell struct {
	Text  string        `json:"text"`
	Badge *format.Badge `json:"badge,omitempty"`
	Link  string        `json:"link,omitempty"`
	Image string        `json:"image,omitempty"`
}

// Column binds one raw row field to its display form.
type Column struct {
	Key    string
	Header string
	Render func(Row) Cell
}

// Table is the per-entity column set. One Table is declared per listing tab;
// the rest of the binding machinery is shared.
type Table struct {
	Columns []Column
}

// BoundRow is one row rendered through the column set, keyed for the UI by
// the row's primary key.
type BoundRow struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// Headers returns the column headers in display order.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Bind renders raw rows into display rows. idKey names the primary-key field.
func (t Table) Bind(rows []Row, idKey string) []BoundRow {
	bound := make([]BoundRow, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = col.Render(row)
		}
		bound[i] = BoundRow{ID: row.String(idKey), Cells: cells}
	}
	return bound
}

// String pulls a field as display text, with the shared placeholder for
// missing or empty values.
func (r Row) String(key string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return format.Placeholder
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return format.Placeholder
		}
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TextColumn renders a field verbatim.
func TextColumn(key, header string) Column {
	return Column{Key: key, Header: header, Render: func(r Row) Cell {
		return Cell{Text: r.String(key)}
	}}
}

// DateColumn renders a field through the shared timestamp formatter.
func DateColumn(key, header string) Column {
	return Column{Key: key, Header: header, Render: func(r Row) Cell {
		value, ok := r[key]
		if !ok || value == nil {
			return Cell{Text: format.Placeholder}
		}
		text := format.DateTime(value)
		if text == "" {
			text = format.Placeholder
		}
		return Cell{Text: text}
	}}
}

// CurrencyColumn renders a numeric field as a rupee amount.
func CurrencyColumn(key, header string) Column {
	return Column{Key: key, Header: header, Render: func(r Row) Cell {
		return Cell{Text: format.Currency(r[key])}
	}}
}

// StatusColumn renders a status code through a badge lookup.
func StatusColumn(key, header string, statuses format.StatusSet) Column {
	return Column{Key: key, Header: header, Render: func(r Row) Cell {
		badge := statuses.Lookup(r[key])
		return Cell{Text: badge.Label, Badge: &badge}
	}}
}

// ImageColumn renders a field holding an image URL.
func ImageColumn(key, header string) Column {
	return Column{Key: key, Header: header, Render: func(r Row) Cell {
		value, _ := r[key].(string)
		if value == "" {
			return Cell{Text: format.Placeholder}
		}
		return Cell{Text: value, Image: value}
	}}
}
