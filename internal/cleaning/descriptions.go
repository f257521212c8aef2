package cleaning

import (
	"strings"

	"segpipe/internal/dataset"
)

// serviceDescriptions are known non-product service lines excluded from the
// transaction table. Matching happens before case folding, so the list keeps
// the source casing.
var serviceDescriptions = map[string]struct{}{
	"Next Day Carriage":     {},
	"High Resolution Image": {},
	"POSTAGE":               {},
	"Manual":                {},
	"Discount":              {},
	"Adjust bad debt":       {},
}

// NormalizeDescriptions drops rows whose description exactly matches a known
// service label, then folds the remaining descriptions to upper case.
func NormalizeDescriptions(t *dataset.TransactionTable) (*dataset.TransactionTable, int) {
	out := &dataset.TransactionTable{
		Rows:      make([]dataset.Transaction, 0, t.Len()),
		HasStatus: t.HasStatus,
	}
	for _, row := range t.Rows {
		if _, service := serviceDescriptions[row.Description]; service {
			continue
		}
		row.Description = strings.ToUpper(row.Description)
		out.Rows = append(out.Rows, row)
	}
	return out, t.Len() - out.Len()
}
