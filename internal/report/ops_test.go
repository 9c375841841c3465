package report

import (
	"testing"

	"olap_report/internal/resto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRecomputesTotals(t *testing.T) {
	table, err := Transform(resto.ReportGuests, guestsRaw())
	require.NoError(t, err)

	filtered := table.Filter(map[string][]string{ColDay: {"Пн, 01.01.2024"}})

	require.Len(t, filtered.Rows, 2)
	assert.Equal(t, 1, filtered.Meta.RowCount)
	total, ok := filtered.Total()
	require.True(t, ok)
	assertNumber(t, "20", total.Cell(ColGuests))
	assertNumber(t, "10", total.Cell(ColChecks))
	assertNumber(t, "2", total.Cell(ColAvgGuests))

	assert.Len(t, table.Rows, 3, "source table is not modified")
}

func TestFilterDropsBackendTotal(t *testing.T) {
	raw := append(guestsRaw(), resto.AggregateRow{resto.FieldOpenDate: "Итого", resto.FieldGuests: 999.0})
	table, err := Transform(resto.ReportGuests, raw)
	require.NoError(t, err)

	filtered := table.Filter(map[string][]string{ColDay: {"Пн, 01.01.2024", "Вт, 02.01.2024"}})
	total, ok := filtered.Total()
	require.True(t, ok)
	assertNumber(t, "35", total.Cell(ColGuests))
}

func TestFilterHourlyRebuildsDaySubtotals(t *testing.T) {
	table, err := Transform(resto.ReportHourly, hourlyRaw())
	require.NoError(t, err)

	filtered := table.Filter(map[string][]string{ColHour: {"9"}})

	assert.Equal(t, []string{
		"Пн, 01.01.2024",
		"Пн, 01.01.2024 всего",
		"Вт, 02.01.2024",
		"Вт, 02.01.2024 всего",
		TotalLabel,
	}, labels(filtered.Rows, ColDay))
	assertNumber(t, "2", filtered.Rows[1].Cell(ColGuests))
	assertNumber(t, "5", filtered.Rows[4].Cell(ColGuests))
}

func TestFilterWithoutValuesKeepsRows(t *testing.T) {
	table, err := Transform(resto.ReportGuests, guestsRaw())
	require.NoError(t, err)

	filtered := table.Filter(map[string][]string{ColDay: nil})
	assert.Equal(t, labels(table.Rows, ColDay), labels(filtered.Rows, ColDay))
}

func TestFilterWriteoffs(t *testing.T) {
	table := TransformWriteoffs([]resto.WriteoffDocument{
		{DocumentNumber: "1", Status: "PROCESSED"},
		{DocumentNumber: "2"},
	}, resto.EmptyDictionaries())

	filtered := table.Filter(map[string][]string{ColConducted: {"Нет"}})
	assert.Equal(t, []string{"2", TotalLabel}, labels(filtered.Rows, ColDocNumber))
}

func TestSortKeepsTotalsLast(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldWaiterName: "борис", resto.FieldDiscountSum: 100.0},
		{resto.FieldWaiterName: "Анна", resto.FieldDiscountSum: 900.0},
		{resto.FieldWaiterName: "Вера", resto.FieldDiscountSum: 50.0},
	}
	table, err := Transform(resto.ReportWaiters, raw)
	require.NoError(t, err)

	byName := table.Sort(ColWaiter, false)
	assert.Equal(t, []string{"Анна", "борис", "Вера", TotalLabel}, labels(byName.Rows, ColWaiter))

	bySum := table.Sort(ColDiscountSum, true)
	assert.Equal(t, []string{"Анна", "борис", "Вера", TotalLabel}, labels(bySum.Rows, ColWaiter))

	ascending := table.Sort(ColDiscountSum, false)
	assert.Equal(t, []string{"Вера", "борис", "Анна", TotalLabel}, labels(ascending.Rows, ColWaiter))
}

func TestSortByDate(t *testing.T) {
	raw := []resto.AggregateRow{
		{resto.FieldOpenDate: "2024-02-01", resto.FieldGuests: 1.0},
		{resto.FieldOpenDate: "2024-01-15", resto.FieldGuests: 1.0},
		{resto.FieldOpenDate: "2023-12-31", resto.FieldGuests: 1.0},
	}
	table, err := Transform(resto.ReportGuests, raw)
	require.NoError(t, err)

	sorted := table.Sort(ColDay, true)
	assert.Equal(t, []string{"Чт, 01.02.2024", "Пн, 15.01.2024", "Вс, 31.12.2023", TotalLabel}, labels(sorted.Rows, ColDay))
}

func TestDistinctValues(t *testing.T) {
	table, err := Transform(resto.ReportHourly, hourlyRaw())
	require.NoError(t, err)

	assert.Equal(t, []string{"9", "14"}, table.DistinctValues(ColHour))
	assert.Equal(t, []string{"Пн, 01.01.2024", "Вт, 02.01.2024"}, table.DistinctValues(ColDay))
	assert.Equal(t, []string{"2", "3", "4"}, table.DistinctValues(ColGuests))
	assert.Empty(t, table.DistinctValues("missing"))
}
