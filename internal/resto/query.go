package resto

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ReportType string

const (
	ReportGuests    ReportType = "guests"
	ReportWaiters   ReportType = "waiters"
	ReportHourly    ReportType = "hourly"
	ReportStores    ReportType = "stores"
	ReportWriteoffs ReportType = "writeoffs"
)

// OLAP field names used in group-by and aggregate lists.
const (
	FieldOpenDate    = "OpenDate.Typed"
	FieldHourClose   = "HourClose"
	FieldWaiterName  = "OrderWaiter.Name"
	FieldStoreName   = "Store.Name"
	FieldGuests      = "GuestNum"
	FieldGuestsAvg   = "GuestNum.Avg"
	FieldChecks      = "UniqOrderId"
	FieldSum         = "DishSumInt"
	FieldDiscountSum = "DishDiscountSumInt"
	FieldProductCost = "ProductCostBase.ProductCost"

	fieldOrderDeleted        = "OrderDeleted"
	fieldDeletedWithWriteoff = "DeletedWithWriteoff"
)

const (
	olapPath     = "/api/v2/reports/olap"
	writeoffPath = "/api/v2/documents/writeoff"
	dateLayout   = "2006-01-02"
)

var reportTitles = map[ReportType]string{
	ReportGuests:    "Кол-во чеков и гостей",
	ReportWaiters:   "Выручка по официантам",
	ReportHourly:    "Почасовая выручка",
	ReportStores:    "Отчет по складам",
	ReportWriteoffs: "Акты списания",
}

type olapShape struct {
	rows       []string
	aggregates []string
}

var olapShapes = map[ReportType]olapShape{
	ReportGuests: {
		rows:       []string{FieldOpenDate},
		aggregates: []string{FieldGuests, FieldGuestsAvg, FieldChecks},
	},
	ReportWaiters: {
		rows:       []string{FieldWaiterName},
		aggregates: []string{FieldDiscountSum},
	},
	ReportHourly: {
		rows:       []string{FieldOpenDate, FieldHourClose},
		aggregates: []string{FieldGuests, FieldSum, FieldDiscountSum, FieldChecks},
	},
	ReportStores: {
		rows:       []string{FieldStoreName},
		aggregates: []string{FieldDiscountSum, FieldProductCost},
	},
}

// ReportTypes lists the supported reports in menu order.
func ReportTypes() []ReportType {
	return []ReportType{ReportGuests, ReportWaiters, ReportHourly, ReportStores, ReportWriteoffs}
}

func ParseReportType(value string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := reportTitles[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReportType, value)
	}
	return t, nil
}

// Title is the localized report name.
func (t ReportType) Title() string {
	return reportTitles[t]
}

type ValuesFilter struct {
	FilterType string   `json:"filterType"`
	Values     []string `json:"values"`
}

type DateRangeFilter struct {
	FilterType  string `json:"filterType"`
	PeriodType  string `json:"periodType"`
	From        string `json:"from"`
	To          string `json:"to"`
	IncludeLow  bool   `json:"includeLow"`
	IncludeHigh bool   `json:"includeHigh"`
}

type OLAPRequest struct {
	ReportType       string         `json:"reportType"`
	BuildSummary     bool           `json:"buildSummary"`
	GroupByRowFields []string       `json:"groupByRowFields"`
	GroupByColFields []string       `json:"groupByColFields"`
	AggregateFields  []string       `json:"aggregateFields"`
	Filters          map[string]any `json:"filters"`
}

// Query is a ready-to-send backend request. Payload is nil for GET queries.
type Query struct {
	Report   ReportType
	Method   string
	Endpoint string
	Params   map[string]string
	Payload  *OLAPRequest
}

// BuildQuery returns the request for a report over the calendar range [from, to].
func BuildQuery(reportType ReportType, from, to time.Time) (Query, error) {
	if reportType == ReportWriteoffs {
		return Query{
			Report:   reportType,
			Method:   http.MethodGet,
			Endpoint: writeoffPath,
			Params: map[string]string{
				"dateFrom": from.Format(dateLayout),
				"dateTo":   to.Format(dateLayout),
			},
		}, nil
	}

	shape, ok := olapShapes[reportType]
	if !ok {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownReportType, reportType)
	}

	filters := baseFilters()
	filters[FieldOpenDate] = DateRangeFilter{
		FilterType:  "DateRange",
		PeriodType:  "CUSTOM",
		From:        from.Format(dateLayout),
		To:          to.AddDate(0, 0, 1).Format(dateLayout),
		IncludeLow:  true,
		IncludeHigh: false,
	}

	return Query{
		Report:   reportType,
		Method:   http.MethodPost,
		Endpoint: olapPath,
		Payload: &OLAPRequest{
			ReportType:       "SALES",
			BuildSummary:     true,
			GroupByRowFields: append([]string(nil), shape.rows...),
			GroupByColFields: []string{},
			AggregateFields:  append([]string(nil), shape.aggregates...),
			Filters:          filters,
		},
	}, nil
}

func baseFilters() map[string]any {
	notDeleted := func() ValuesFilter {
		return ValuesFilter{FilterType: "IncludeValues", Values: []string{"NOT_DELETED"}}
	}
	return map[string]any{
		fieldOrderDeleted:        notDeleted(),
		fieldDeletedWithWriteoff: notDeleted(),
	}
}
