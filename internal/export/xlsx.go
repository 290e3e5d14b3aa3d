// Package export renders table rows as spreadsheet downloads.
package export

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	if len(headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename returns a timestamped download name such as offers_20240131_150405.xlsx.
func Filename(entity string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", entity, now.Format("20060102_150405"))
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return t.InexactFloat64()
	case decimal.NullDecimal:
		if !t.Valid {
			return nil
		}
		return t.Decimal.InexactFloat64()
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t.Format("2006-01-02")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return cellValue(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	}
	return v
}
