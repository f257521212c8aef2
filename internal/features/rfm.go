package features

import (
	"time"

	"segpipe/internal/dataset"
)

// dateOnly truncates a timestamp to its date component.
func dateOnly(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

// customerOrder returns the distinct customer ids in first-appearance order,
// which fixes the row order of every per-customer aggregate.
func customerOrder(t *dataset.TransactionTable) []string {
	seen := make(map[string]struct{})
	order := make([]string, 0)
	for _, row := range t.Rows {
		if _, ok := seen[row.CustomerID]; ok {
			continue
		}
		seen[row.CustomerID] = struct{}{}
		order = append(order, row.CustomerID)
	}
	return order
}

// BuildRFM computes the foundational value metrics per customer: recency in
// whole days between the table's latest transaction date and the customer's
// own latest date, frequency as the distinct invoice count, total products as
// the summed quantity, and monetary as the summed spend with its per-invoice
// average. Produces exactly one row per distinct customer in the input.
func BuildRFM(t *dataset.TransactionTable) *dataset.MetricsTable {
	type acc struct {
		lastDate time.Time
		invoices map[string]struct{}
		quantity int64
		spend    float64
	}
	accs := make(map[string]*acc)
	var maxDate time.Time

	for _, row := range t.Rows {
		day := dateOnly(row.InvoiceDate)
		if day.After(maxDate) {
			maxDate = day
		}
		a := accs[row.CustomerID]
		if a == nil {
			a = &acc{invoices: make(map[string]struct{})}
			accs[row.CustomerID] = a
		}
		if day.After(a.lastDate) {
			a.lastDate = day
		}
		a.invoices[row.InvoiceNo] = struct{}{}
		a.quantity += row.Quantity
		a.spend += row.UnitPrice * float64(row.Quantity)
	}

	out := dataset.NewMetricsTable(
		dataset.ColRecency,
		dataset.ColFrequency,
		dataset.ColTotalProducts,
		dataset.ColMonetary,
		dataset.ColAvgTransactionValue,
	)
	for _, id := range customerOrder(t) {
		a := accs[id]
		frequency := float64(len(a.invoices))
		row := dataset.MetricsRow{CustomerID: id}
		row.Set(dataset.ColRecency, maxDate.Sub(a.lastDate).Hours()/24)
		row.Set(dataset.ColFrequency, frequency)
		row.Set(dataset.ColTotalProducts, float64(a.quantity))
		row.Set(dataset.ColMonetary, a.spend)
		row.Set(dataset.ColAvgTransactionValue, a.spend/frequency)
		out.Append(row)
	}
	return out
}
