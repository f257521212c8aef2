package dataset

import (
	"fmt"
)

// Customer metrics column names, in the order the secondary lineage adds them.
const (
	ColRecency             = "Days_Since_Last_Purchase"
	ColFrequency           = "Total_Transactions"
	ColTotalProducts       = "Total_Products_Purchased"
	ColMonetary            = "Total_Spend"
	ColAvgTransactionValue = "Average_Transaction_Value"
	ColUniqueProducts      = "Unique_Products_Purchased"
	ColAvgDaysBetween      = "Average_Days_Between_Purchases"
	ColFavoriteDay         = "Day_Of_Week"
	ColFavoriteHour        = "Hour"
	ColIsHomeMarket        = "Is_UK"
	ColCancellationFreq    = "Cancellation_Frequency"
	ColCancellationRate    = "Cancellation_Rate"
	ColMonthlySpendMean    = "Monthly_Spending_Mean"
	ColMonthlySpendStd     = "Monthly_Spending_Std"
	ColSpendingTrend       = "Spending_Trend"
)

// MetricsRow is one customer's feature vector. A column absent from Values is
// a null cell; nulls survive left merges until an explicit fill.
type MetricsRow struct {
	CustomerID string
	Values     map[string]float64
}

// Value returns the cell for col and whether it is set.
func (r *MetricsRow) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Set assigns the cell for col.
func (r *MetricsRow) Set(col string, v float64) {
	if r.Values == nil {
		r.Values = make(map[string]float64)
	}
	r.Values[col] = v
}

// MetricsTable is the per-customer feature table, keyed by CustomerID. The
// column list only grows along the lineage; row order is insertion order.
type MetricsTable struct {
	Columns []string
	Rows    []MetricsRow
}

// NewMetricsTable creates an empty table with the given columns.
func NewMetricsTable(columns ...string) *MetricsTable {
	return &MetricsTable{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *MetricsTable) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table schema contains col.
func (t *MetricsTable) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// AddColumn appends col to the schema if not already present.
func (t *MetricsTable) AddColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Append adds a row. The caller guarantees key uniqueness; CheckUniqueKey
// enforces it at step boundaries.
func (t *MetricsTable) Append(row MetricsRow) {
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table.
func (t *MetricsTable) Clone() *MetricsTable {
	out := NewMetricsTable(t.Columns...)
	out.Rows = make([]MetricsRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		values := make(map[string]float64, len(r.Values))
		for k, v := range r.Values {
			values[k] = v
		}
		out.Rows = append(out.Rows, MetricsRow{CustomerID: r.CustomerID, Values: values})
	}
	return out
}

// CheckUniqueKey verifies that CustomerID is unique across rows.
func (t *MetricsTable) CheckUniqueKey() error {
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		if _, dup := seen[r.CustomerID]; dup {
			return fmt.Errorf("duplicate customer id %q in metrics table", r.CustomerID)
		}
		seen[r.CustomerID] = struct{}{}
	}
	return nil
}

// MergeLeft left-joins the given columns of other onto a copy of t by
// CustomerID. Rows of t with no match in other keep null cells; rows of other
// absent from t are dropped.
func (t *MetricsTable) MergeLeft(other *MetricsTable, columns ...string) *MetricsTable {
	byID := make(map[string]*MetricsRow, len(other.Rows))
	for i := range other.Rows {
		byID[other.Rows[i].CustomerID] = &other.Rows[i]
	}

	out := t.Clone()
	for _, col := range columns {
		out.AddColumn(col)
	}
	for i := range out.Rows {
		src, ok := byID[out.Rows[i].CustomerID]
		if !ok {
			continue
		}
		for _, col := range columns {
			if v, set := src.Value(col); set {
				out.Rows[i].Set(col, v)
			}
		}
	}
	return out
}

// FillMissing assigns value to every null cell in col and returns the number
// of cells filled.
func (t *MetricsTable) FillMissing(col string, value float64) int {
	filled := 0
	for i := range t.Rows {
		if _, set := t.Rows[i].Value(col); !set {
			t.Rows[i].Set(col, value)
			filled++
		}
	}
	return filled
}
