package export

import (
	"fmt"
	"io"
	"strings"

	"olap_report/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet   = "Sheet1"
	maxSheetName   = 31
	columnWidth    = 22
	invalidInSheet = `:\/?*[]`
)

// WriteXLSX writes a workbook with one sheet named after the report. The header
// and summary rows are bold.
func WriteXLSX(w io.Writer, table *report.Table) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	sheet := sheetName(table.Name)
	if err := file.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := make([]any, 0, len(table.Headers))
	for _, h := range table.Headers {
		header = append(header, h)
	}
	if err := writeRow(file, sheet, 1, header, bold); err != nil {
		return err
	}

	for i, row := range table.Rows {
		values := make([]any, 0, len(table.Headers))
		for _, h := range table.Headers {
			values = append(values, cellValue(row.Cell(h)))
		}
		style := 0
		if row.IsSummary() {
			style = bold
		}
		if err := writeRow(file, sheet, i+2, values, style); err != nil {
			return err
		}
	}

	if len(table.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Headers))
		if err != nil {
			return err
		}
		if err := file.SetColWidth(sheet, "A", last, columnWidth); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	return file.Write(w)
}

func writeRow(file *excelize.File, sheet string, rowNum int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := file.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), rowNum)
	if err != nil {
		return err
	}
	return file.SetCellStyle(sheet, start, end, style)
}

func cellValue(cell report.Cell) any {
	if cell.Numeric {
		return cell.Number.InexactFloat64()
	}
	return cell.Text
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidInSheet, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheet
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}
