// Package export renders report tables as text, TSV, JSON and XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"olap_report/internal/report"
)

type Format string

const (
	FormatText Format = "text"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatText, FormatTSV, FormatJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q", value)
	}
}

// Write renders table in the given format.
func Write(w io.Writer, table *report.Table, format Format) error {
	switch format {
	case FormatTSV:
		return WriteTSV(w, table)
	case FormatJSON:
		return WriteJSON(w, table)
	case FormatXLSX:
		return WriteXLSX(w, table)
	default:
		return WriteText(w, table)
	}
}

// WriteText prints an aligned table with the report name and period above it.
func WriteText(w io.Writer, table *report.Table) error {
	if _, err := fmt.Fprintf(w, "%s\n", table.Name); err != nil {
		return err
	}
	if table.Meta.DateFrom != "" {
		if _, err := fmt.Fprintf(w, "Период: с %s по %s\n", table.Meta.DateFrom, table.Meta.DateTo); err != nil {
			return err
		}
	}
	if table.Meta.Error != "" {
		_, err := fmt.Fprintf(w, "Ошибка: %s\n", table.Meta.Error)
		return err
	}
	if len(table.Rows) == 0 {
		_, err := fmt.Fprintln(w, "Нет данных")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(rowValues(table.Headers, row), "\t"))
	}
	return tw.Flush()
}

// WriteTSV emits the header and every row tab separated, the format used for clipboard copies.
func WriteTSV(w io.Writer, table *report.Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(rowValues(table.Headers, row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// TSV returns the TSV rendering as a string.
func TSV(table *report.Table) (string, error) {
	var sb strings.Builder
	if err := WriteTSV(&sb, table); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type jsonRow struct {
	Cells      map[string]report.Cell `json:"cells"`
	IsTotal    bool                   `json:"isTotal,omitempty"`
	IsDayTotal bool                   `json:"isDayTotal,omitempty"`
}

type jsonTable struct {
	Type    string      `json:"type"`
	Name    string      `json:"name"`
	Headers []string    `json:"headers"`
	Rows    []jsonRow   `json:"rows"`
	Meta    report.Meta `json:"meta"`
}

func WriteJSON(w io.Writer, table *report.Table) error {
	payload := jsonTable{
		Type:    string(table.Type),
		Name:    table.Name,
		Headers: table.Headers,
		Rows:    make([]jsonRow, 0, len(table.Rows)),
		Meta:    table.Meta,
	}
	for _, row := range table.Rows {
		cells := make(map[string]report.Cell, len(table.Headers))
		for _, header := range table.Headers {
			cells[header] = row.Cell(header)
		}
		payload.Rows = append(payload.Rows, jsonRow{
			Cells:      cells,
			IsTotal:    row.IsTotal,
			IsDayTotal: row.IsDayTotal,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func rowValues(headers []string, row report.Row) []string {
	values := make([]string, 0, len(headers))
	for _, header := range headers {
		values = append(values, row.Cell(header).String())
	}
	return values
}
