package resto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AggregateRow is one row of an OLAP response keyed by group-by and aggregate field names.
type AggregateRow map[string]any

// Text returns the field rendered as a string, or "" when it is absent or null.
func (r AggregateRow) Text(field string) string {
	return textValue(r[field])
}

// Number returns the numeric value of the field, 0 when it is absent or not a number.
func (r AggregateRow) Number(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

type WriteoffItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Cost        decimal.Decimal `json:"cost"`
}

type WriteoffDocument struct {
	ID                           string         `json:"id"`
	DocumentNumber               string         `json:"documentNumber"`
	Date                         string         `json:"date"`
	DateIncoming                 string         `json:"dateIncoming"`
	Type                         string         `json:"type"`
	Status                       string         `json:"status"`
	Comment                      string         `json:"comment"`
	StoreID                      string         `json:"storeId"`
	ConceptionID                 string         `json:"conceptionId"`
	AccountID                    string         `json:"accountId"`
	ExternalOutgoingInvoiceID    string         `json:"externalOutgoingInvoiceId"`
	ExternalProductionDocumentID string         `json:"externalProductionDocumentId"`
	ExternalIncomingInvoiceID    string         `json:"externalIncomingInvoiceId"`
	Items                        []WriteoffItem `json:"items"`
}

type WriteoffResponse struct {
	Documents []WriteoffDocument `json:"response"`
	Revision  json.Number        `json:"revision"`
}

// aggregateRows picks the rows out of an OLAP body: {"data": [...]}, {"rows": [...]} or a bare array.
// Entries that are not objects are dropped.
func aggregateRows(body any) []AggregateRow {
	var items []any
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, field := range []string{"data", "rows"} {
			if list, ok := v[field].([]any); ok {
				items = list
				break
			}
		}
	}

	rows := make([]AggregateRow, 0, len(items))
	for _, item := range items {
		if entity, ok := item.(map[string]any); ok {
			rows = append(rows, AggregateRow(entity))
		}
	}
	return rows
}

// writeoffResponse reads the document list field by field so that a drifting field type
// in one document costs that field, not the report. The second result counts skipped entries.
func writeoffResponse(body any) (WriteoffResponse, int) {
	obj, _ := body.(map[string]any)
	resp := WriteoffResponse{Revision: json.Number(textValue(obj["revision"]))}

	items, _ := obj["response"].([]any)
	skipped := 0
	for _, item := range items {
		entity, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		resp.Documents = append(resp.Documents, writeoffDocument(entity))
	}
	return resp, skipped
}

func writeoffDocument(entity map[string]any) WriteoffDocument {
	text := func(field string) string {
		return strings.TrimSpace(textValue(entity[field]))
	}

	doc := WriteoffDocument{
		ID:                           text("id"),
		DocumentNumber:               text("documentNumber"),
		Date:                         text("date"),
		DateIncoming:                 text("dateIncoming"),
		Type:                         text("type"),
		Status:                       text("status"),
		Comment:                      text("comment"),
		StoreID:                      text("storeId"),
		ConceptionID:                 text("conceptionId"),
		AccountID:                    text("accountId"),
		ExternalOutgoingInvoiceID:    text("externalOutgoingInvoiceId"),
		ExternalProductionDocumentID: text("externalProductionDocumentId"),
		ExternalIncomingInvoiceID:    text("externalIncomingInvoiceId"),
	}

	items, _ := entity["items"].([]any)
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Items = append(doc.Items, WriteoffItem{
			ProductID:   strings.TrimSpace(textValue(fields["productId"])),
			ProductName: strings.TrimSpace(textValue(fields["productName"])),
			Cost:        decimalValue(fields["cost"]),
		})
	}
	return doc
}

// decimalValue parses numbers and numeric strings; anything else is zero.
func decimalValue(value any) decimal.Decimal {
	text := strings.TrimSpace(textValue(value))
	if text == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
