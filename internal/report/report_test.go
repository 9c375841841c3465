package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNumber(t *testing.T, expected string, cell Cell) {
	t.Helper()
	require.True(t, cell.Numeric, "cell %q is not numeric", cell.Text)
	assert.True(t, decimal.RequireFromString(expected).Equal(cell.Number),
		"expected %s, got %s", expected, cell.Number.String())
}

func labels(rows []Row, column string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Cell(column).String())
	}
	return out
}

func countTotals(rows []Row) int {
	n := 0
	for _, row := range rows {
		if row.IsTotal {
			n++
		}
	}
	return n
}
