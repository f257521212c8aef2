package features

import (
	"segpipe/internal/dataset"
)

// Cancellations computes per-customer cancellation behavior: the distinct
// count of cancelled invoices and the rate of cancelled to total distinct
// invoices. The cancellation flag is re-derived from the invoice prefix with
// the shared predicate, independent of any status column a prior step may have
// persisted. Customers with no cancellations get frequency 0 by explicit fill
// after the merge. Returns the merged table and the number of customers with
// at least one cancellation.
func Cancellations(metrics *dataset.MetricsTable, t *dataset.TransactionTable) (*dataset.MetricsTable, int) {
	totals := make(map[string]map[string]struct{})
	cancelled := make(map[string]map[string]struct{})
	for _, row := range t.Rows {
		all := totals[row.CustomerID]
		if all == nil {
			all = make(map[string]struct{})
			totals[row.CustomerID] = all
		}
		all[row.InvoiceNo] = struct{}{}

		if !dataset.IsCancellation(row.InvoiceNo) {
			continue
		}
		c := cancelled[row.CustomerID]
		if c == nil {
			c = make(map[string]struct{})
			cancelled[row.CustomerID] = c
		}
		c[row.InvoiceNo] = struct{}{}
	}

	side := dataset.NewMetricsTable(dataset.ColCancellationFreq)
	withCancellations := 0
	for _, id := range customerOrder(t) {
		c, ok := cancelled[id]
		if !ok {
			continue
		}
		withCancellations++
		row := dataset.MetricsRow{CustomerID: id}
		row.Set(dataset.ColCancellationFreq, float64(len(c)))
		side.Append(row)
	}

	out := metrics.MergeLeft(side, dataset.ColCancellationFreq)
	out.FillMissing(dataset.ColCancellationFreq, 0)

	// Rate is cancelled distinct invoices over total distinct invoices. Every
	// metrics row exists because the customer has at least one transaction, so
	// the denominator is always positive.
	out.AddColumn(dataset.ColCancellationRate)
	for i := range out.Rows {
		freq, _ := out.Rows[i].Value(dataset.ColCancellationFreq)
		total := len(totals[out.Rows[i].CustomerID])
		if total > 0 {
			out.Rows[i].Set(dataset.ColCancellationRate, freq/float64(total))
		} else {
			out.Rows[i].Set(dataset.ColCancellationRate, 0)
		}
	}
	return out, withCancellations
}
