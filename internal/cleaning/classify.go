package cleaning

import (
	"segpipe/internal/dataset"
)

// ClassifyStatus adds the transaction status column, derived purely from the
// invoice number prefix: a leading cancellation marker means Cancelled, all
// other invoices are Completed. Returns the new table and the number of rows
// classified Cancelled.
func ClassifyStatus(t *dataset.TransactionTable) (*dataset.TransactionTable, int) {
	out := t.Clone()
	out.HasStatus = true

	cancelled := 0
	for i := range out.Rows {
		if dataset.IsCancellation(out.Rows[i].InvoiceNo) {
			out.Rows[i].Status = dataset.StatusCancelled
			cancelled++
		} else {
			out.Rows[i].Status = dataset.StatusCompleted
		}
	}
	return out, cancelled
}
