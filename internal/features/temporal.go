package features

import (
	"sort"

	"segpipe/internal/dataset"
)

type monthKey struct {
	year  int
	month int
}

// Temporal buckets each customer's spend by calendar month and derives the
// mean and sample standard deviation of the monthly totals plus a linear
// spending trend: the least-squares slope over the chronologically ordered
// bucket sequence. A single-bucket customer gets std 0 and slope 0, never an
// undefined value. Returns the merged table and the number of customers with
// more than one monthly bucket.
func Temporal(metrics *dataset.MetricsTable, t *dataset.TransactionTable) (*dataset.MetricsTable, int) {
	spend := make(map[string]map[monthKey]float64)
	for _, row := range t.Rows {
		buckets := spend[row.CustomerID]
		if buckets == nil {
			buckets = make(map[monthKey]float64)
			spend[row.CustomerID] = buckets
		}
		key := monthKey{year: row.InvoiceDate.Year(), month: int(row.InvoiceDate.Month())}
		buckets[key] += row.UnitPrice * float64(row.Quantity)
	}

	side := dataset.NewMetricsTable(
		dataset.ColMonthlySpendMean,
		dataset.ColMonthlySpendStd,
		dataset.ColSpendingTrend,
	)
	multiMonth := 0
	for _, id := range customerOrder(t) {
		buckets := spend[id]
		keys := make([]monthKey, 0, len(buckets))
		for k := range buckets {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year < keys[j].year
			}
			return keys[i].month < keys[j].month
		})
		totals := make([]float64, 0, len(keys))
		for _, k := range keys {
			totals = append(totals, buckets[k])
		}
		if len(totals) > 1 {
			multiMonth++
		}

		row := dataset.MetricsRow{CustomerID: id}
		row.Set(dataset.ColMonthlySpendMean, mean(totals))
		row.Set(dataset.ColMonthlySpendStd, sampleStd(totals))
		row.Set(dataset.ColSpendingTrend, linearSlope(totals))
		side.Append(row)
	}

	out := metrics.MergeLeft(side,
		dataset.ColMonthlySpendMean,
		dataset.ColMonthlySpendStd,
		dataset.ColSpendingTrend,
	)
	return out, multiMonth
}
