package report

import (
	"testing"

	"olap_report/internal/resto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestsRaw() []resto.AggregateRow {
	return []resto.AggregateRow{
		{resto.FieldOpenDate: "2024-01-01", resto.FieldGuests: 20.0, resto.FieldChecks: 10.0},
		{resto.FieldOpenDate: "2024-01-02", resto.FieldGuests: 15.0, resto.FieldChecks: 5.0},
	}
}

func hourlyRaw() []resto.AggregateRow {
	return []resto.AggregateRow{
		{resto.FieldOpenDate: "2024-01-02", resto.FieldHourClose: 9.0, resto.FieldGuests: 3.0, resto.FieldSum: 300.0, resto.FieldDiscountSum: 270.0, resto.FieldChecks: 2.0},
		{resto.FieldOpenDate: "2024-01-01", resto.FieldHourClose: 14.0, resto.FieldGuests: 4.0, resto.FieldSum: 400.0, resto.FieldDiscountSum: 380.0, resto.FieldChecks: 3.0},
		{resto.FieldOpenDate: "2024-01-01 всего", resto.FieldGuests: 6.0},
		{resto.FieldOpenDate: "2024-01-01", resto.FieldHourClose: 9.0, resto.FieldGuests: 2.0, resto.FieldSum: 100.5, resto.FieldDiscountSum: 90.25, resto.FieldChecks: 1.0},
		{resto.FieldOpenDate: "Итого", resto.FieldGuests: 9.0},
	}
}

func TestTransformGuestsAppendsTotal(t *testing.T) {
	table, err := Transform(resto.ReportGuests, guestsRaw())
	require.NoError(t, err)

	assert.Equal(t, "Кол-во чеков и гостей", table.Name)
	assert.Equal(t, []string{ColDay, ColAvgGuests, ColChecks, ColGuests}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Пн, 01.01.2024", "Вт, 02.01.2024", TotalLabel}, labels(table.Rows, ColDay))

	assertNumber(t, "2", table.Rows[0].Cell(ColAvgGuests))
	assertNumber(t, "3", table.Rows[1].Cell(ColAvgGuests))

	total, ok := table.Total()
	require.True(t, ok)
	assertNumber(t, "35", total.Cell(ColGuests))
	assertNumber(t, "15", total.Cell(ColChecks))
	assertNumber(t, "2.33", total.Cell(ColAvgGuests))
}

func TestTransformGuestsPrefersBackendAverage(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldOpenDate: "2024-01-01", resto.FieldGuests: 7.0, resto.FieldChecks: 3.0, resto.FieldGuestsAvg: 2.456},
		{resto.FieldOpenDate: "2024-01-02", resto.FieldGuests: 0.0, resto.FieldChecks: 0.0},
	}

	table, err := Transform(resto.ReportGuests, raw)
	require.NoError(t, err)
	assertNumber(t, "2.46", table.Rows[0].Cell(ColAvgGuests))
	assertNumber(t, "0", table.Rows[1].Cell(ColAvgGuests))
}

func TestTransformKeepsBackendTotal(t *testing.T) {
	raw := append(guestsRaw(), resto.AggregateRow{
		resto.FieldOpenDate: "итого", resto.FieldGuests: 35.0, resto.FieldChecks: 15.0, resto.FieldGuestsAvg: 2.3333,
	})

	table, err := Transform(resto.ReportGuests, raw)
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, 1, countTotals(table.Rows))
	last := table.Rows[2]
	assert.True(t, last.IsTotal)
	assert.Equal(t, TotalLabel, last.Cell(ColDay).Text)
	assertNumber(t, "2.33", last.Cell(ColAvgGuests))
}

func TestTransformWaitersDefaultsName(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldWaiterName: "Анна", resto.FieldDiscountSum: 1000.005},
		{resto.FieldWaiterName: nil, resto.FieldDiscountSum: 250.0},
		{resto.FieldWaiterName: "  ", resto.FieldDiscountSum: "50.5"},
	}

	table, err := Transform(resto.ReportWaiters, raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Анна", NotSpecified, NotSpecified, TotalLabel}, labels(table.Rows, ColWaiter))
	assertNumber(t, "1000.01", table.Rows[0].Cell(ColDiscountSum))

	total, ok := table.Total()
	require.True(t, ok)
	assertNumber(t, "1300.51", total.Cell(ColDiscountSum))
}

func TestTransformStores(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldStoreName: "Бар", resto.FieldDiscountSum: 100.0, resto.FieldProductCost: 40.111},
		{resto.FieldStoreName: "Кухня", resto.FieldDiscountSum: 200.0, resto.FieldProductCost: 80.0},
	}

	table, err := Transform(resto.ReportStores, raw)
	require.NoError(t, err)

	total, ok := table.Total()
	require.True(t, ok)
	assert.Equal(t, TotalLabel, total.Cell(ColStore).Text)
	assertNumber(t, "300", total.Cell(ColDiscountSum))
	assertNumber(t, "120.11", total.Cell(ColCost))
}

func TestTransformHourlyGroupsDays(t *testing.T) {
	table, err := Transform(resto.ReportHourly, hourlyRaw())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Пн, 01.01.2024",
		"Пн, 01.01.2024",
		"Пн, 01.01.2024 всего",
		"Вт, 02.01.2024",
		"Вт, 02.01.2024 всего",
		TotalLabel,
	}, labels(table.Rows, ColDay))
	assert.Equal(t, []string{"9", "14", "", "9", "", ""}, labels(table.Rows, ColHour))

	firstDay := table.Rows[2]
	assert.True(t, firstDay.IsDayTotal)
	assertNumber(t, "6", firstDay.Cell(ColGuests))
	assertNumber(t, "500.5", firstDay.Cell(ColSum))
	assertNumber(t, "470.25", firstDay.Cell(ColDiscountSum))
	assertNumber(t, "4", firstDay.Cell(ColChecks))

	total := table.Rows[5]
	assert.True(t, total.IsTotal)
	assert.Equal(t, 1, countTotals(table.Rows))
	assertNumber(t, "9", total.Cell(ColGuests))
	assertNumber(t, "800.5", total.Cell(ColSum))
	assertNumber(t, "740.25", total.Cell(ColDiscountSum))
	assertNumber(t, "6", total.Cell(ColChecks))

	for _, row := range table.Details() {
		assert.True(t, row.IsHourlyDetail)
	}
}

func TestTransformHourlyEmpty(t *testing.T) {
	table, err := Transform(resto.ReportHourly, nil)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].IsTotal)
	assertNumber(t, "0", table.Rows[0].Cell(ColGuests))
}

func TestTransformDetailsSumToTotal(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldWaiterName: "А", resto.FieldDiscountSum: 0.333},
		{resto.FieldWaiterName: "Б", resto.FieldDiscountSum: 0.333},
		{resto.FieldWaiterName: "В", resto.FieldDiscountSum: 0.334},
	}

	table, err := Transform(resto.ReportWaiters, raw)
	require.NoError(t, err)

	total, ok := table.Total()
	require.True(t, ok)
	assert.True(t, sumColumn(table.Details(), ColDiscountSum).Equal(total.number(ColDiscountSum)))
	assertNumber(t, "0.99", total.Cell(ColDiscountSum))
}

func TestTransformRejectsDocumentReports(t *testing.T) {
	_, err := Transform(resto.ReportWriteoffs, nil)
	require.ErrorIs(t, err, resto.ErrUnknownReportType)

	_, err = Transform(resto.ReportType("sales"), nil)
	require.ErrorIs(t, err, resto.ErrUnknownReportType)
}
