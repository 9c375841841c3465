// Package report turns raw backend responses into display-ready tables.
package report

import (
	"encoding/json"

	"olap_report/internal/resto"

	"github.com/shopspring/decimal"
)

// Column labels.
const (
	ColDay         = "Учетный день"
	ColAvgGuests   = "Ср.кол-во гостей на чек"
	ColChecks      = "Чеков"
	ColGuests      = "Количество гостей"
	ColWaiter      = "Официант заказа"
	ColDiscountSum = "Сумма со скидкой, р."
	ColHour        = "Час закрытия"
	ColSum         = "Сумма без скидки, р."
	ColStore       = "Со склада"
	ColCost        = "Себестоимость, р."

	ColDate       = "Дата"
	ColDocType    = "Тип"
	ColDocNumber  = "№ документа"
	ColItems      = "Товары"
	ColDocSum     = "Сумма, р."
	ColConducted  = "Проведен"
	ColDocStore   = "Склад"
	ColConception = "Концепция"
	ColComment    = "Комментарий"
	ColAccount    = "Счет списания"
)

const (
	TotalLabel     = "Итого:"
	NotSpecified   = "Не указан"
	NoConception   = "Без концепции"
	totalSentinel  = "Итого"
	dayTotalSuffix = " всего"
)

// Cell is a single table value: a decimal number or a string.
type Cell struct {
	Text    string
	Number  decimal.Decimal
	Numeric bool
}

func TextCell(text string) Cell {
	return Cell{Text: text}
}

func NumberCell(number decimal.Decimal) Cell {
	return Cell{Number: number, Numeric: true}
}

func (c Cell) String() string {
	if c.Numeric {
		return c.Number.String()
	}
	return c.Text
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return json.Marshal(c.Number.InexactFloat64())
	}
	return json.Marshal(c.Text)
}

type Row struct {
	Cells          map[string]Cell
	IsTotal        bool
	IsDayTotal     bool
	IsHourlyDetail bool

	dayKey string
}

func newRow() Row {
	return Row{Cells: map[string]Cell{}}
}

// Cell returns the value of column, or an empty text cell.
func (r Row) Cell(column string) Cell {
	return r.Cells[column]
}

// IsSummary reports whether the row is a grand total or a day subtotal.
func (r Row) IsSummary() bool {
	return r.IsTotal || r.IsDayTotal
}

func (r Row) number(column string) decimal.Decimal {
	return r.Cells[column].Number
}

type Meta struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Source   string `json:"source"`
	RowCount int    `json:"rowCount"`
	Revision string `json:"revision,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Table struct {
	Type    resto.ReportType
	Name    string
	Headers []string
	Rows    []Row
	Meta    Meta
}

// Details returns the rows that are neither totals nor day subtotals.
func (t *Table) Details() []Row {
	details := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !row.IsSummary() {
			details = append(details, row)
		}
	}
	return details
}

// Total returns the grand total row, if any.
func (t *Table) Total() (Row, bool) {
	for _, row := range t.Rows {
		if row.IsTotal {
			return row, true
		}
	}
	return Row{}, false
}

func (t *Table) clone(rows []Row) *Table {
	return &Table{
		Type:    t.Type,
		Name:    t.Name,
		Headers: append([]string(nil), t.Headers...),
		Rows:    rows,
		Meta:    t.Meta,
	}
}

var writeoffHeaders = []string{
	ColDate, ColDocType, ColDocNumber, ColItems, ColDocSum,
	ColConducted, ColDocStore, ColConception, ColComment, ColAccount,
}

var reportHeaders = map[resto.ReportType][]string{
	resto.ReportGuests:    {ColDay, ColAvgGuests, ColChecks, ColGuests},
	resto.ReportWaiters:   {ColWaiter, ColDiscountSum},
	resto.ReportHourly:    {ColDay, ColHour, ColGuests, ColSum, ColDiscountSum, ColChecks},
	resto.ReportStores:    {ColStore, ColDiscountSum, ColCost},
	resto.ReportWriteoffs: writeoffHeaders,
}

// Headers returns the column labels of a report in display order.
func Headers(reportType resto.ReportType) []string {
	return append([]string(nil), reportHeaders[reportType]...)
}

// Empty returns a table of reportType with headers and no rows.
func Empty(reportType resto.ReportType) *Table {
	return newTable(reportType, []Row{})
}

func newTable(reportType resto.ReportType, rows []Row) *Table {
	return &Table{
		Type:    reportType,
		Name:    reportType.Title(),
		Headers: Headers(reportType),
		Rows:    rows,
	}
}

func round2(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

func roundCount(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(0)
}

func sumColumn(rows []Row, column string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.number(column))
	}
	return total
}

// average divides and rounds to 2 decimals; a zero divisor yields 0.
func average(total, count decimal.Decimal) decimal.Decimal {
	if count.IsZero() {
		return decimal.Zero
	}
	return total.DivRound(count, 2)
}
