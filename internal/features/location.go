package features

import (
	"segpipe/internal/dataset"
)

// Location determines each customer's primary country as the one with the
// most transactions, first-encountered winning ties, and merges a binary
// home-market indicator (1 when the primary country equals homeMarket) onto
// the metrics table. The country name itself is never merged. Returns the
// merged table and the number of customers in the home market.
func Location(metrics *dataset.MetricsTable, t *dataset.TransactionTable, homeMarket string) (*dataset.MetricsTable, int) {
	type acc struct {
		counts map[string]int
		order  []string
	}
	accs := make(map[string]*acc)
	for _, row := range t.Rows {
		a := accs[row.CustomerID]
		if a == nil {
			a = &acc{counts: make(map[string]int)}
			accs[row.CustomerID] = a
		}
		if _, seen := a.counts[row.Country]; !seen {
			a.order = append(a.order, row.Country)
		}
		a.counts[row.Country]++
	}

	side := dataset.NewMetricsTable(dataset.ColIsHomeMarket)
	home := 0
	for _, id := range customerOrder(t) {
		a := accs[id]
		primary, best := "", 0
		for _, country := range a.order {
			if a.counts[country] > best {
				best = a.counts[country]
				primary = country
			}
		}
		indicator := 0.0
		if primary == homeMarket {
			indicator = 1
			home++
		}
		row := dataset.MetricsRow{CustomerID: id}
		row.Set(dataset.ColIsHomeMarket, indicator)
		side.Append(row)
	}

	return metrics.MergeLeft(side, dataset.ColIsHomeMarket), home
}
