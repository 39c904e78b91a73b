// Package export renders bound listing rows as downloadable files. Cells are
// exported as their display text, so a spreadsheet shows exactly what the
// grid showed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medrush/opsconsole/internal/listing"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format token from a URL; csv is the default.
func ParseFormat(raw string) (Format, bool) {
	switch raw {
	case "", "csv":
		return FormatCSV, true
	case "xlsx":
		return FormatXLSX, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename builds the attachment name for one export.
func Filename(entity string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", entity, now.Format("2006-01-02"), f)
}

// Write renders headers plus bound rows in the requested format.
func Write(w io.Writer, f Format, sheet string, headers []string, rows []listing.BoundRow) error {
	if f == FormatXLSX {
		return writeXLSX(w, sheet, headers, rows)
	}
	return writeCSV(w, headers, rows)
}

func writeCSV(w io.Writer, headers []string, rows []listing.BoundRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i := range record {
			record[i] = ""
			if i < len(row.Cells) {
				record[i] = row.Cells[i].Text
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, sheet string, headers []string, rows []listing.BoundRow) error {
	file := excelize.NewFile()
	defer file.Close()

	if sheet == "" {
		sheet = "Export"
	}
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}
	for i, row := range rows {
		for col := range headers {
			if col >= len(row.Cells) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, row.Cells[col].Text); err != nil {
				return fmt.Errorf("write row cell: %w", err)
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
