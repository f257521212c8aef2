package features

import (
	"sort"

	"segpipe/internal/dataset"
)

// Outlier detection defaults: flag the top 5% most isolated rows, with a fixed
// seed so repeated runs drop the same rows.
const (
	DefaultContamination = 0.05
	DefaultSeed          = 42
)

// RemoveOutliers scores every row of the feature matrix (all columns except
// the customer id) with an isolation forest and drops the rows whose score
// falls in the top contamination fraction. Score and flag are transient and
// never appear in the returned table. Returns the reduced table and the number
// of rows dropped.
func RemoveOutliers(metrics *dataset.MetricsTable, contamination float64, seed int64) (*dataset.MetricsTable, int) {
	n := metrics.Len()
	flagged := int(contamination * float64(n))
	if n == 0 || flagged == 0 {
		return metrics.Clone(), 0
	}

	matrix := make([][]float64, n)
	for i := range metrics.Rows {
		vec := make([]float64, len(metrics.Columns))
		for j, col := range metrics.Columns {
			if v, set := metrics.Rows[i].Value(col); set {
				vec[j] = v
			}
		}
		matrix[i] = vec
	}

	forest := fitIsolationForest(matrix, seed)
	scores := make([]float64, n)
	for i, vec := range matrix {
		scores[i] = forest.score(vec)
	}

	// Threshold at the k-th highest score; ties at the threshold are dropped
	// together, matching a fixed-quantile cutoff.
	ranked := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(ranked)))
	threshold := ranked[flagged-1]

	kept := metrics.Clone()
	out := dataset.NewMetricsTable(metrics.Columns...)
	for i := range kept.Rows {
		if scores[i] >= threshold {
			continue
		}
		out.Append(kept.Rows[i])
	}
	return out, n - out.Len()
}
