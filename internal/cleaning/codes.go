package cleaning

import (
	"unicode"

	"segpipe/internal/dataset"
)

// DefaultMaxAnomalousDigits is the digit-count threshold at or below which a
// stock code is anomalous. Real product codes in this dataset carry 5-6
// digits; codes with 0 or 1 digit are service lines or data artifacts.
const DefaultMaxAnomalousDigits = 1

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// FilterAnomalousCodes drops every row whose stock code carries maxDigits or
// fewer decimal digits. The anomalous set is computed once over the distinct
// codes, then the table is filtered by membership.
func FilterAnomalousCodes(t *dataset.TransactionTable, maxDigits int) (*dataset.TransactionTable, int) {
	anomalous := make(map[string]struct{})
	checked := make(map[string]struct{}, t.Len())
	for _, row := range t.Rows {
		if _, done := checked[row.StockCode]; done {
			continue
		}
		checked[row.StockCode] = struct{}{}
		if digitCount(row.StockCode) <= maxDigits {
			anomalous[row.StockCode] = struct{}{}
		}
	}

	out := &dataset.TransactionTable{
		Rows:      make([]dataset.Transaction, 0, t.Len()),
		HasStatus: t.HasStatus,
	}
	for _, row := range t.Rows {
		if _, bad := anomalous[row.StockCode]; bad {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, t.Len() - out.Len()
}
