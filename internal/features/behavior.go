package features

import (
	"sort"
	"time"

	"segpipe/internal/dataset"
)

// mondayIndexed maps a weekday to the 0=Monday..6=Sunday encoding used in the
// persisted feature table.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// firstMax returns the index of the first maximum in counts, skipping zero
// buckets. Ties break toward the lower index.
func firstMax(counts []int) int {
	best, bestIdx := 0, 0
	for i, c := range counts {
		if c > best {
			best = c
			bestIdx = i
		}
	}
	return bestIdx
}

// Behavior derives three shopping-pattern features per customer: the mean gap
// in whole days between consecutive distinct transaction dates (chronological
// order), the day-of-week with the most transactions, and the hour-of-day with
// the most transactions. All three left-merge onto the metrics table; a
// customer with a single transaction day has no interval, and that null is
// filled with 0 right after the merge so nothing undefined flows downstream.
func Behavior(metrics *dataset.MetricsTable, t *dataset.TransactionTable) (*dataset.MetricsTable, int) {
	type acc struct {
		days  map[time.Time]struct{}
		byDow [7]int
		byHr  [24]int
	}
	accs := make(map[string]*acc)
	for _, row := range t.Rows {
		a := accs[row.CustomerID]
		if a == nil {
			a = &acc{days: make(map[time.Time]struct{})}
			accs[row.CustomerID] = a
		}
		a.days[dateOnly(row.InvoiceDate)] = struct{}{}
		a.byDow[mondayIndexed(row.InvoiceDate.Weekday())]++
		a.byHr[row.InvoiceDate.Hour()]++
	}

	side := dataset.NewMetricsTable(
		dataset.ColAvgDaysBetween,
		dataset.ColFavoriteDay,
		dataset.ColFavoriteHour,
	)
	for _, id := range customerOrder(t) {
		a := accs[id]
		row := dataset.MetricsRow{CustomerID: id}

		days := make([]time.Time, 0, len(a.days))
		for d := range a.days {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
		if len(days) > 1 {
			gaps := make([]float64, 0, len(days)-1)
			for i := 1; i < len(days); i++ {
				gaps = append(gaps, days[i].Sub(days[i-1]).Hours()/24)
			}
			row.Set(dataset.ColAvgDaysBetween, mean(gaps))
		}

		row.Set(dataset.ColFavoriteDay, float64(firstMax(a.byDow[:])))
		row.Set(dataset.ColFavoriteHour, float64(firstMax(a.byHr[:])))
		side.Append(row)
	}

	out := metrics.MergeLeft(side,
		dataset.ColAvgDaysBetween,
		dataset.ColFavoriteDay,
		dataset.ColFavoriteHour,
	)
	filled := out.FillMissing(dataset.ColAvgDaysBetween, 0)
	return out, filled
}
