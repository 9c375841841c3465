package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"olap_report/internal/resto"

	"github.com/shopspring/decimal"
)

// flatReport describes a report with one row per group-by value.
type flatReport struct {
	labelColumn string
	label       func(resto.AggregateRow) string
	row         func(resto.AggregateRow) Row
	total       func(details []Row) Row
}

var flatReports = map[resto.ReportType]flatReport{
	resto.ReportGuests: {
		labelColumn: ColDay,
		label:       func(item resto.AggregateRow) string { return item.Text(resto.FieldOpenDate) },
		row:         guestsRow,
		total:       guestsTotal,
	},
	resto.ReportWaiters: {
		labelColumn: ColWaiter,
		label:       func(item resto.AggregateRow) string { return nameOrDefault(item.Text(resto.FieldWaiterName)) },
		row:         waitersRow,
		total:       waitersTotal,
	},
	resto.ReportStores: {
		labelColumn: ColStore,
		label:       func(item resto.AggregateRow) string { return nameOrDefault(item.Text(resto.FieldStoreName)) },
		row:         storesRow,
		total:       storesTotal,
	},
}

// Transform shapes the raw rows of an aggregate report into a table with totals.
func Transform(reportType resto.ReportType, raw []resto.AggregateRow) (*Table, error) {
	if reportType == resto.ReportHourly {
		return newTable(reportType, hourlyRows(raw)), nil
	}

	spec, ok := flatReports[reportType]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no aggregate shape", resto.ErrUnknownReportType, reportType)
	}
	return newTable(reportType, spec.shape(raw)), nil
}

// shape keeps a backend "Итого" row in place, relabelled, or appends a computed total.
func (f flatReport) shape(raw []resto.AggregateRow) []Row {
	rows := make([]Row, 0, len(raw)+1)
	hasTotal := false

	for _, item := range raw {
		row := f.row(item)
		if isTotalLabel(f.label(item)) {
			row.Cells[f.labelColumn] = TextCell(TotalLabel)
			row.IsTotal = true
			hasTotal = true
		}
		rows = append(rows, row)
	}

	if !hasTotal {
		rows = append(rows, f.total(rows))
	}
	return rows
}

// arrange rebuilds totals for a set of detail rows.
func arrange(reportType resto.ReportType, details []Row) []Row {
	switch reportType {
	case resto.ReportHourly:
		return arrangeHourly(details)
	case resto.ReportWriteoffs:
		return append(details, writeoffsTotal(details))
	}
	if spec, ok := flatReports[reportType]; ok {
		return append(details, spec.total(details))
	}
	return details
}

func isTotalLabel(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), totalSentinel)
}

func isDayTotalLabel(label string) bool {
	return strings.Contains(label, dayTotalSuffix)
}

func nameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return NotSpecified
	}
	return name
}

func guestsRow(item resto.AggregateRow) Row {
	guests := roundCount(item.Number(resto.FieldGuests))
	checks := roundCount(item.Number(resto.FieldChecks))

	avg := average(guests, checks)
	if backendAvg := item.Number(resto.FieldGuestsAvg); backendAvg != 0 {
		avg = round2(backendAvg)
	}

	row := newRow()
	row.Cells[ColDay] = TextCell(dayLabel(item.Text(resto.FieldOpenDate)))
	row.Cells[ColAvgGuests] = NumberCell(avg)
	row.Cells[ColChecks] = NumberCell(checks)
	row.Cells[ColGuests] = NumberCell(guests)
	return row
}

func guestsTotal(details []Row) Row {
	guests := sumColumn(details, ColGuests)
	checks := sumColumn(details, ColChecks)

	row := newRow()
	row.IsTotal = true
	row.Cells[ColDay] = TextCell(TotalLabel)
	row.Cells[ColAvgGuests] = NumberCell(average(guests, checks))
	row.Cells[ColChecks] = NumberCell(checks)
	row.Cells[ColGuests] = NumberCell(guests)
	return row
}

func waitersRow(item resto.AggregateRow) Row {
	row := newRow()
	row.Cells[ColWaiter] = TextCell(nameOrDefault(item.Text(resto.FieldWaiterName)))
	row.Cells[ColDiscountSum] = NumberCell(round2(item.Number(resto.FieldDiscountSum)))
	return row
}

func waitersTotal(details []Row) Row {
	row := newRow()
	row.IsTotal = true
	row.Cells[ColWaiter] = TextCell(TotalLabel)
	row.Cells[ColDiscountSum] = NumberCell(sumColumn(details, ColDiscountSum))
	return row
}

func storesRow(item resto.AggregateRow) Row {
	row := newRow()
	row.Cells[ColStore] = TextCell(nameOrDefault(item.Text(resto.FieldStoreName)))
	row.Cells[ColDiscountSum] = NumberCell(round2(item.Number(resto.FieldDiscountSum)))
	row.Cells[ColCost] = NumberCell(round2(item.Number(resto.FieldProductCost)))
	return row
}

func storesTotal(details []Row) Row {
	row := newRow()
	row.IsTotal = true
	row.Cells[ColStore] = TextCell(TotalLabel)
	row.Cells[ColDiscountSum] = NumberCell(sumColumn(details, ColDiscountSum))
	row.Cells[ColCost] = NumberCell(sumColumn(details, ColCost))
	return row
}

func hourlyRows(raw []resto.AggregateRow) []Row {
	details := make([]Row, 0, len(raw))
	for _, item := range raw {
		date := item.Text(resto.FieldOpenDate)
		if isTotalLabel(date) || isDayTotalLabel(date) {
			continue
		}

		row := newRow()
		row.IsHourlyDetail = true
		row.dayKey = dayKey(date)
		row.Cells[ColDay] = TextCell(dayLabel(date))
		row.Cells[ColHour] = TextCell(item.Text(resto.FieldHourClose))
		row.Cells[ColGuests] = NumberCell(roundCount(item.Number(resto.FieldGuests)))
		row.Cells[ColSum] = NumberCell(round2(item.Number(resto.FieldSum)))
		row.Cells[ColDiscountSum] = NumberCell(round2(item.Number(resto.FieldDiscountSum)))
		row.Cells[ColChecks] = NumberCell(roundCount(item.Number(resto.FieldChecks)))
		details = append(details, row)
	}
	return arrangeHourly(details)
}

// arrangeHourly groups rows by day, orders hours inside each day and adds subtotals.
func arrangeHourly(details []Row) []Row {
	groups := map[string][]Row{}
	for _, row := range details {
		groups[row.dayKey] = append(groups[row.dayKey], row)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(details)+len(keys)+1)
	for _, key := range keys {
		day := groups[key]
		sort.SliceStable(day, func(i, j int) bool {
			return leadingInt(day[i].Cell(ColHour).Text) < leadingInt(day[j].Cell(ColHour).Text)
		})
		rows = append(rows, day...)

		subtotal := hourlySummary(day, day[0].Cell(ColDay).Text+dayTotalSuffix)
		subtotal.IsDayTotal = true
		subtotal.dayKey = key
		rows = append(rows, subtotal)
	}

	total := hourlySummary(details, TotalLabel)
	total.IsTotal = true
	return append(rows, total)
}

func hourlySummary(rows []Row, label string) Row {
	row := newRow()
	row.Cells[ColDay] = TextCell(label)
	row.Cells[ColHour] = TextCell("")
	for _, column := range []string{ColGuests, ColSum, ColDiscountSum, ColChecks} {
		row.Cells[column] = NumberCell(sumColumn(rows, column))
	}
	return row
}

// leadingInt parses the leading digits of value; anything else counts as 0.
func leadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

// numberOf reads a cell as a number, parsing text cells when possible.
func numberOf(cell Cell) (decimal.Decimal, bool) {
	if cell.Numeric {
		return cell.Number, true
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(cell.Text))
	if err != nil {
		return decimal.Zero, false
	}
	return parsed, true
}
