package report

import (
	"sort"
	"strings"

	"olap_report/internal/resto"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultDocumentType = "Акт списания"
	defaultProductName  = "Товар"
	statusProcessed     = "PROCESSED"
	conductedYes        = "Да"
	conductedNo         = "Нет"
)

var documentTypes = map[string]string{
	"WRITEOFF_DOCUMENT":   "Акт списания",
	"OUTGOING_INVOICE":    "Расходная накладная",
	"PRODUCTION_DOCUMENT": "Акт производства",
	"INCOMING_INVOICE":    "Приходная накладная",
	"MOVEMENT_DOCUMENT":   "Акт перемещения",
	"SALES_DOCUMENT":      "Документ продажи",
	"RETURN_DOCUMENT":     "Документ возврата",
	"INVENTORY_DOCUMENT":  "Инвентаризация",
	"WRITE_OFF":           "Списание",
	"PURCHASE":            "Закупка",
	"SALES":               "Продажа",
	"INCOMING":            "Приход",
	"Р":                   "Расход",
	"АЗ":                  "Акт списания",
	"АП":                  "Акт производства",
}

// TransformWriteoffs resolves document references through the dictionaries and
// orders the documents by write-off account name.
func TransformWriteoffs(docs []resto.WriteoffDocument, dicts resto.Dictionaries) *Table {
	details := make([]Row, 0, len(docs))
	for _, doc := range docs {
		details = append(details, writeoffRow(doc, dicts))
	}

	lower := cases.Lower(language.Und)
	keys := make(map[string]string, len(details))
	for _, row := range details {
		account := row.Cell(ColAccount).Text
		keys[account] = lower.String(account)
	}
	sort.SliceStable(details, func(i, j int) bool {
		return keys[details[i].Cell(ColAccount).Text] < keys[details[j].Cell(ColAccount).Text]
	})

	return newTable(resto.ReportWriteoffs, append(details, writeoffsTotal(details)))
}

func writeoffRow(doc resto.WriteoffDocument, dicts resto.Dictionaries) Row {
	date := doc.DateIncoming
	if date == "" {
		date = doc.Date
	}

	conducted := conductedNo
	if doc.Status == statusProcessed {
		conducted = conductedYes
	}

	row := newRow()
	row.Cells[ColDate] = TextCell(dateTimeLabel(date))
	row.Cells[ColDocType] = TextCell(documentType(doc))
	row.Cells[ColDocNumber] = TextCell(doc.DocumentNumber)
	row.Cells[ColItems] = TextCell(itemsText(doc.Items, dicts.Products))
	row.Cells[ColDocSum] = NumberCell(documentSum(doc.Items).Round(2))
	row.Cells[ColConducted] = TextCell(conducted)
	row.Cells[ColDocStore] = TextCell(storeName(doc.StoreID, dicts))
	row.Cells[ColConception] = TextCell(conceptionName(doc.ConceptionID, dicts.Conceptions))
	row.Cells[ColComment] = TextCell(doc.Comment)
	row.Cells[ColAccount] = TextCell(resolve(doc.AccountID, dicts.Accounts))
	return row
}

func writeoffsTotal(details []Row) Row {
	row := newRow()
	row.IsTotal = true
	for _, column := range writeoffHeaders {
		row.Cells[column] = TextCell("")
	}
	row.Cells[ColDocNumber] = TextCell(TotalLabel)
	row.Cells[ColDocSum] = NumberCell(sumColumn(details, ColDocSum))
	return row
}

// documentType maps the type code; external document links take precedence.
func documentType(doc resto.WriteoffDocument) string {
	switch {
	case doc.ExternalOutgoingInvoiceID != "":
		return "Расходная накладная"
	case doc.ExternalProductionDocumentID != "":
		return "Акт производства"
	case doc.ExternalIncomingInvoiceID != "":
		return "Приходная накладная"
	case doc.Type == "":
		return defaultDocumentType
	}
	if label, ok := documentTypes[doc.Type]; ok {
		return label
	}
	return doc.Type
}

func documentSum(items []resto.WriteoffItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost)
	}
	return total
}

func itemsText(items []resto.WriteoffItem, products resto.Dictionary) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			names = append(names, defaultProductName)
			continue
		}
		name, ok := products.Lookup(item.ProductID)
		if !ok {
			name = item.ProductName
		}
		if name == "" {
			name = truncatedID(item.ProductID)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func storeName(id string, dicts resto.Dictionaries) string {
	if id == "" {
		return ""
	}
	if name, ok := dicts.Stores.Lookup(id); ok {
		return name
	}
	if name, ok := dicts.Accounts.Lookup(id); ok {
		return name
	}
	return truncatedID(id)
}

// conceptionName falls back to NoConception for both absent and unknown ids.
func conceptionName(id string, conceptions resto.Dictionary) string {
	if name, ok := conceptions.Lookup(id); ok && id != "" {
		return name
	}
	return NoConception
}

func resolve(id string, dict resto.Dictionary) string {
	if id == "" {
		return ""
	}
	if name, ok := dict.Lookup(id); ok {
		return name
	}
	return truncatedID(id)
}

// truncatedID is the placeholder shown for an id missing from its dictionary.
func truncatedID(id string) string {
	runes := []rune(id)
	if len(runes) > 8 {
		runes = runes[:8]
	}
	return "[" + string(runes) + "...]"
}
