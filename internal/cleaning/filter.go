package cleaning

import (
	"fmt"

	"segpipe/internal/dataset"
)

// dedupKey is the composite key identifying a duplicate transaction row.
type dedupKey struct {
	invoiceNo   string
	stockCode   string
	description string
	customerID  string
	quantity    int64
}

// FilterInvalid drops rows with a missing customer id or description, then
// removes duplicate rows on the (invoice, product, description, customer,
// quantity) key, keeping the first occurrence in row order. The returned count
// is the number of rows removed. An error means the zero-nulls post-condition
// failed, which callers must treat as fatal.
func FilterInvalid(t *dataset.TransactionTable) (*dataset.TransactionTable, int, error) {
	out := &dataset.TransactionTable{
		Rows:      make([]dataset.Transaction, 0, t.Len()),
		HasStatus: t.HasStatus,
	}
	seen := make(map[dedupKey]struct{}, t.Len())

	for _, row := range t.Rows {
		if row.CustomerID == "" || row.Description == "" {
			continue
		}
		key := dedupKey{
			invoiceNo:   row.InvoiceNo,
			stockCode:   row.StockCode,
			description: row.Description,
			customerID:  row.CustomerID,
			quantity:    row.Quantity,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}

	// Post-condition: the required join columns contain no nulls.
	for i, row := range out.Rows {
		if row.CustomerID == "" || row.Description == "" {
			return nil, 0, fmt.Errorf("null value remains in required columns at row %d", i)
		}
	}
	return out, t.Len() - out.Len(), nil
}

// ValidatePrices keeps rows with a strictly positive unit price. Zero and
// negative prices are data artifacts, not real sales.
func ValidatePrices(t *dataset.TransactionTable) (*dataset.TransactionTable, int) {
	out := &dataset.TransactionTable{
		Rows:      make([]dataset.Transaction, 0, t.Len()),
		HasStatus: t.HasStatus,
	}
	for _, row := range t.Rows {
		if row.UnitPrice > 0 {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, t.Len() - out.Len()
}
