package report

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter keeps the detail rows whose value in every filtered column is one of
// the allowed values and recomputes the totals from what is left.
func (t *Table) Filter(filters map[string][]string) *Table {
	active := make(map[string]map[string]struct{}, len(filters))
	for column, values := range filters {
		if len(values) == 0 {
			continue
		}
		allowed := make(map[string]struct{}, len(values))
		for _, value := range values {
			allowed[value] = struct{}{}
		}
		active[column] = allowed
	}

	if len(active) == 0 {
		return t.clone(append([]Row(nil), t.Rows...))
	}

	kept := make([]Row, 0, len(t.Rows))
	for _, row := range t.Details() {
		if matches(row, active) {
			kept = append(kept, row)
		}
	}

	filtered := t.clone(arrange(t.Type, kept))
	filtered.Meta.RowCount = len(kept)
	return filtered
}

func matches(row Row, active map[string]map[string]struct{}) bool {
	for column, allowed := range active {
		if _, ok := allowed[row.Cell(column).String()]; !ok {
			return false
		}
	}
	return true
}

// Sort orders the detail rows by column; totals and day subtotals follow them.
func (t *Table) Sort(column string, desc bool) *Table {
	details := t.Details()
	less := lessFunc(column)
	sort.SliceStable(details, func(i, j int) bool {
		a, b := details[i].Cell(column), details[j].Cell(column)
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})

	rows := details
	for _, row := range t.Rows {
		if row.IsSummary() {
			rows = append(rows, row)
		}
	}
	return t.clone(rows)
}

// DistinctValues returns the sorted distinct non-empty values of column among detail rows.
func (t *Table) DistinctValues(column string) []string {
	seen := map[string]Cell{}
	for _, row := range t.Details() {
		cell := row.Cell(column)
		if value := cell.String(); value != "" {
			seen[value] = cell
		}
	}

	cells := make([]Cell, 0, len(seen))
	for _, cell := range seen {
		cells = append(cells, cell)
	}
	less := lessFunc(column)
	sort.SliceStable(cells, func(i, j int) bool {
		if less(cells[i], cells[j]) {
			return true
		}
		if less(cells[j], cells[i]) {
			return false
		}
		return cells[i].String() < cells[j].String()
	})

	values := make([]string, 0, len(cells))
	for _, cell := range cells {
		values = append(values, cell.String())
	}
	return values
}

func lessFunc(column string) func(a, b Cell) bool {
	switch column {
	case ColDay, ColDate:
		return lessByDate
	case ColHour:
		return func(a, b Cell) bool { return leadingInt(a.String()) < leadingInt(b.String()) }
	}
	lower := cases.Lower(language.Und)
	return func(a, b Cell) bool {
		if x, ok := numberOf(a); ok {
			if y, ok := numberOf(b); ok {
				return x.LessThan(y)
			}
		}
		return lower.String(a.String()) < lower.String(b.String())
	}
}

// lessByDate orders parsable dates chronologically, before unparsable labels.
func lessByDate(a, b Cell) bool {
	x, okA := parseLabel(a.String())
	y, okB := parseLabel(b.String())
	switch {
	case okA && okB:
		return x.Before(y)
	case okA != okB:
		return okA
	default:
		return a.String() < b.String()
	}
}
