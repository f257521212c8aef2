package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segpipe/internal/dataset"
)

func txRow(customer, invoice, code string, qty int64, price float64, when time.Time) dataset.Transaction {
	return dataset.Transaction{
		InvoiceNo:   invoice,
		StockCode:   code,
		Description: "WHITE HANGING HEART",
		Quantity:    qty,
		InvoiceDate: when,
		UnitPrice:   price,
		CustomerID:  customer,
		Country:     "United Kingdom",
	}
}

func metricsValue(t *testing.T, table *dataset.MetricsTable, customer, col string) float64 {
	t.Helper()
	for i := range table.Rows {
		if table.Rows[i].CustomerID != customer {
			continue
		}
		v, set := table.Rows[i].Value(col)
		require.True(t, set, "column %s should be set for customer %s", col, customer)
		return v
	}
	t.Fatalf("customer %s not found", customer)
	return 0
}

func TestBuildRFM(t *testing.T) {
	maxDate := time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC)
	tx := &dataset.TransactionTable{Rows: []dataset.Transaction{
		// Customer A: purchases 30 and 10 days before the dataset max, and on
		// the max date itself, spend summing to 45.0.
		txRow("A", "100", "85123", 2, 5, maxDate.AddDate(0, 0, -30)),  // 10.0
		txRow("A", "101", "85124", 1, 15, maxDate.AddDate(0, 0, -10)), // 15.0
		txRow("A", "102", "85125", 4, 5, maxDate),                     // 20.0
		// Customer B: single purchase 5 days before the max.
		txRow("B", "103", "85126", 1, 7.5, maxDate.AddDate(0, 0, -5)),
	}}

	out := BuildRFM(tx)
	require.Equal(t, 2, out.Len())
	require.NoError(t, out.CheckUniqueKey())

	assert.Equal(t, 0.0, metricsValue(t, out, "A", dataset.ColRecency))
	assert.Equal(t, 3.0, metricsValue(t, out, "A", dataset.ColFrequency))
	assert.Equal(t, 45.0, metricsValue(t, out, "A", dataset.ColMonetary))
	assert.Equal(t, 7.0, metricsValue(t, out, "A", dataset.ColTotalProducts))
	assert.InDelta(t, 15.0, metricsValue(t, out, "A", dataset.ColAvgTransactionValue), 1e-9)

	assert.Equal(t, 5.0, metricsValue(t, out, "B", dataset.ColRecency))
	assert.Equal(t, 1.0, metricsValue(t, out, "B", dataset.ColFrequency))
	assert.Equal(t, 7.5, metricsValue(t, out, "B", dataset.ColMonetary))
}

func TestBuildRFMDistinctInvoices(t *testing.T) {
	when := time.Date(2011, 6, 1, 9, 0, 0, 0, time.UTC)
	tx := &dataset.TransactionTable{Rows: []dataset.Transaction{
		txRow("A", "200", "85123", 1, 1, when),
		txRow("A", "200", "85124", 1, 1, when), // same invoice, second line
		txRow("A", "201", "85125", 1, 1, when.AddDate(0, 0, 1)),
	}}

	out := BuildRFM(tx)
	assert.Equal(t, 2.0, metricsValue(t, out, "A", dataset.ColFrequency))
}
