package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"olap_report/internal/report"
	"olap_report/internal/resto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func guestsTable(t *testing.T) *report.Table {
	t.Helper()
	table, err := report.Transform(resto.ReportGuests, []resto.AggregateRow{
		{resto.FieldOpenDate: "2024-01-01", resto.FieldGuests: 20.0, resto.FieldChecks: 10.0},
		{resto.FieldOpenDate: "2024-01-02", resto.FieldGuests: 15.0, resto.FieldChecks: 5.0},
	})
	require.NoError(t, err)
	table.Meta = report.Meta{DateFrom: "2024-01-01", DateTo: "2024-01-02", Source: "/api/v2/reports/olap", RowCount: 2}
	return table
}

func TestWriteTSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTSV(buf, guestsTable(t)))

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	reader.Comma = '\t'
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{report.ColDay, report.ColAvgGuests, report.ColChecks, report.ColGuests}, records[0])
	assert.Equal(t, []string{"Пн, 01.01.2024", "2", "10", "20"}, records[1])
	assert.Equal(t, []string{report.TotalLabel, "2.33", "15", "35"}, records[3])
}

func TestWriteText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteText(buf, guestsTable(t)))

	out := buf.String()
	assert.Contains(t, out, "Кол-во чеков и гостей")
	assert.Contains(t, out, "Период: с 2024-01-01 по 2024-01-02")
	assert.Contains(t, out, report.ColAvgGuests)
	assert.Contains(t, out, report.TotalLabel)
}

func TestWriteTextShowsError(t *testing.T) {
	table := report.Empty(resto.ReportWriteoffs)
	table.Meta.Error = "resto api error: 502 Bad Gateway"

	buf := &bytes.Buffer{}
	require.NoError(t, WriteText(buf, table))
	assert.Contains(t, buf.String(), "Ошибка: resto api error: 502 Bad Gateway")
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, guestsTable(t)))

	var decoded struct {
		Type string `json:"type"`
		Rows []struct {
			Cells   map[string]any `json:"cells"`
			IsTotal bool           `json:"isTotal"`
		} `json:"rows"`
		Meta report.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "guests", decoded.Type)
	assert.Equal(t, 2, decoded.Meta.RowCount)
	require.Len(t, decoded.Rows, 3)
	assert.True(t, decoded.Rows[2].IsTotal)
	assert.InDelta(t, 2.33, decoded.Rows[2].Cells[report.ColAvgGuests], 1e-9)
	assert.Equal(t, "Пн, 01.01.2024", decoded.Rows[0].Cells[report.ColDay])
}

func TestWriteXLSX(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(buf, guestsTable(t)))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	assert.Equal(t, []string{"Кол-во чеков и гостей"}, file.GetSheetList())

	rows, err := file.GetRows("Кол-во чеков и гостей")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, report.ColDay, rows[0][0])
	assert.Equal(t, []string{report.TotalLabel, "2.33", "15", "35"}, rows[3])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName("  "))
	assert.Equal(t, "a_b_c", sheetName("a/b?c"))
	assert.Len(t, []rune(sheetName("Очень длинное название отчета для листа")), maxSheetName)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
