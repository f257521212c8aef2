package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segpipe/internal/config"
	"segpipe/internal/dataset"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			Dir:           dir,
			RawArtifact:   "transactions.csv",
			FinalArtifact: "customer_features.csv",
		},
		Cleaning: config.CleaningConfig{MaxAnomalousDigits: 1},
		Features: config.FeaturesConfig{
			HomeMarket:    "United Kingdom",
			Contamination: 0.05,
			Seed:          42,
		},
	}
}

func fabricatedExport() *dataset.TransactionTable {
	day := func(y int, m time.Month, d, h int) time.Time {
		return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	}
	rows := []dataset.Transaction{
		{InvoiceNo: "536365", StockCode: "85123A", Description: "WHITE HANGING HEART",
			Quantity: 6, InvoiceDate: day(2010, 12, 1, 8), UnitPrice: 2.55,
			CustomerID: "17850", Country: "United Kingdom"},
		// Exact duplicate of the first row.
		{InvoiceNo: "536365", StockCode: "85123A", Description: "WHITE HANGING HEART",
			Quantity: 6, InvoiceDate: day(2010, 12, 1, 8), UnitPrice: 2.55,
			CustomerID: "17850", Country: "United Kingdom"},
		// Missing customer id.
		{InvoiceNo: "536366", StockCode: "85123A", Description: "WHITE HANGING HEART",
			Quantity: 6, InvoiceDate: day(2010, 12, 1, 9), UnitPrice: 2.55,
			CustomerID: "", Country: "United Kingdom"},
		// Cancellation for the second customer.
		{InvoiceNo: "C536379", StockCode: "85123A", Description: "WHITE HANGING HEART",
			Quantity: -1, InvoiceDate: day(2011, 1, 5, 10), UnitPrice: 4.25,
			CustomerID: "13047", Country: "France"},
		{InvoiceNo: "536412", StockCode: "22423", Description: "REGENCY CAKESTAND",
			Quantity: 2, InvoiceDate: day(2011, 1, 7, 12), UnitPrice: 12.75,
			CustomerID: "13047", Country: "France"},
	}
	return &dataset.TransactionTable{Rows: rows}
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	store := dataset.NewStore(dir)
	require.NoError(t, store.SaveTransactions("transactions.csv", fabricatedExport()))

	cfg := testConfig(dir)
	runner := NewRunner(store, slog.Default(), Chain(cfg))
	results, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 12)

	final, err := store.LoadMetrics(cfg.Data.FinalArtifact)
	require.NoError(t, err)
	require.NoError(t, final.CheckUniqueKey())
	require.Equal(t, 2, final.Len(), "one row per surviving customer")

	wantColumns := []string{
		dataset.ColRecency,
		dataset.ColFrequency,
		dataset.ColTotalProducts,
		dataset.ColMonetary,
		dataset.ColAvgTransactionValue,
		dataset.ColUniqueProducts,
		dataset.ColAvgDaysBetween,
		dataset.ColFavoriteDay,
		dataset.ColFavoriteHour,
		dataset.ColIsHomeMarket,
		dataset.ColCancellationFreq,
		dataset.ColCancellationRate,
		dataset.ColMonthlySpendMean,
		dataset.ColMonthlySpendStd,
		dataset.ColSpendingTrend,
	}
	assert.Equal(t, wantColumns, final.Columns)
	for _, row := range final.Rows {
		for _, col := range wantColumns {
			_, set := row.Value(col)
			assert.True(t, set, "customer %s column %s should be non-null", row.CustomerID, col)
		}
	}

	byID := make(map[string]dataset.MetricsRow, final.Len())
	for _, row := range final.Rows {
		byID[row.CustomerID] = row
	}

	uk := byID["17850"]
	v, _ := uk.Value(dataset.ColFrequency)
	assert.Equal(t, 1.0, v)
	v, _ = uk.Value(dataset.ColMonetary)
	assert.InDelta(t, 15.3, v, 1e-9)
	v, _ = uk.Value(dataset.ColIsHomeMarket)
	assert.Equal(t, 1.0, v)
	v, _ = uk.Value(dataset.ColRecency)
	assert.Equal(t, 37.0, v)
	v, _ = uk.Value(dataset.ColCancellationRate)
	assert.Equal(t, 0.0, v)

	fr := byID["13047"]
	v, _ = fr.Value(dataset.ColFrequency)
	assert.Equal(t, 2.0, v)
	v, _ = fr.Value(dataset.ColCancellationFreq)
	assert.Equal(t, 1.0, v)
	v, _ = fr.Value(dataset.ColCancellationRate)
	assert.InDelta(t, 0.5, v, 1e-9)
	v, _ = fr.Value(dataset.ColAvgDaysBetween)
	assert.InDelta(t, 2.0, v, 1e-9)
	v, _ = fr.Value(dataset.ColIsHomeMarket)
	assert.Equal(t, 0.0, v)
	v, _ = fr.Value(dataset.ColMonthlySpendStd)
	assert.Equal(t, 0.0, v, "single-month std is exactly 0")
	v, _ = fr.Value(dataset.ColSpendingTrend)
	assert.Equal(t, 0.0, v)
}

func TestRunnerMissingRawArtifact(t *testing.T) {
	dir := t.TempDir()
	store := dataset.NewStore(dir)
	runner := NewRunner(store, slog.Default(), Chain(testConfig(dir)))

	results, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, results)
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	store := dataset.NewStore(dir)
	require.NoError(t, store.SaveTransactions("transactions.csv", fabricatedExport()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(store, slog.Default(), Chain(testConfig(dir))).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChainArtifactLineage(t *testing.T) {
	steps := Chain(testConfig("data"))
	require.Len(t, steps, 12)

	// Each step's first input is the previous step's output along the
	// metrics lineage; merge steps also read the price-validated table.
	for i := 1; i < len(steps); i++ {
		assert.Equal(t, steps[i-1].Output(), steps[i].Inputs()[0],
			"step %s must consume the output of %s", steps[i].ID(), steps[i-1].ID())
	}
	for _, s := range steps[6:11] {
		require.Len(t, s.Inputs(), 2)
		assert.Equal(t, ArtifactPriceValid, s.Inputs()[1])
	}
}
