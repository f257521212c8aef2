package features

import (
	"segpipe/internal/dataset"
)

// ProductDiversity counts the distinct stock codes each customer purchased and
// left-merges the count onto the metrics table. The counts are restricted to
// customer ids already present in the metrics table before the merge, so a
// customer with transactions but no metrics row is skipped rather than added;
// with the shared lineage the two key sets are identical. Returns the merged
// table and the number of rows that received a count.
func ProductDiversity(metrics *dataset.MetricsTable, t *dataset.TransactionTable) (*dataset.MetricsTable, int) {
	known := make(map[string]struct{}, metrics.Len())
	for _, r := range metrics.Rows {
		known[r.CustomerID] = struct{}{}
	}

	products := make(map[string]map[string]struct{})
	for _, row := range t.Rows {
		if _, ok := known[row.CustomerID]; !ok {
			continue
		}
		set := products[row.CustomerID]
		if set == nil {
			set = make(map[string]struct{})
			products[row.CustomerID] = set
		}
		set[row.StockCode] = struct{}{}
	}

	side := dataset.NewMetricsTable(dataset.ColUniqueProducts)
	for _, id := range customerOrder(t) {
		set, ok := products[id]
		if !ok {
			continue
		}
		row := dataset.MetricsRow{CustomerID: id}
		row.Set(dataset.ColUniqueProducts, float64(len(set)))
		side.Append(row)
	}

	return metrics.MergeLeft(side, dataset.ColUniqueProducts), side.Len()
}
