package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"segpipe/internal/dataset"
)

func TestCancellations(t *testing.T) {
	when := time.Date(2011, 7, 12, 13, 0, 0, 0, time.UTC)
	tx := &dataset.TransactionTable{Rows: []dataset.Transaction{
		// Customer A: 4 distinct invoices, 1 cancelled.
		txRow("A", "100", "85123", 1, 1, when),
		txRow("A", "101", "85123", 1, 1, when),
		txRow("A", "102", "85123", 1, 1, when),
		txRow("A", "C103", "85123", -1, 1, when),
		// The cancelled invoice has two lines; it still counts once.
		txRow("A", "C103", "85124", -2, 1, when),
		// Customer B: no cancellations.
		txRow("B", "104", "85123", 1, 1, when),
	}}

	out, withCancellations := Cancellations(seedMetrics("A", "B"), tx)
	assert.Equal(t, 1, withCancellations)

	assert.Equal(t, 1.0, metricsValue(t, out, "A", dataset.ColCancellationFreq))
	assert.InDelta(t, 0.25, metricsValue(t, out, "A", dataset.ColCancellationRate), 1e-9)

	assert.Equal(t, 0.0, metricsValue(t, out, "B", dataset.ColCancellationFreq),
		"customers with zero cancellations get frequency 0, not null")
	assert.Equal(t, 0.0, metricsValue(t, out, "B", dataset.ColCancellationRate))
}

func TestCancellationsIgnorePersistedStatus(t *testing.T) {
	when := time.Date(2011, 7, 12, 13, 0, 0, 0, time.UTC)
	// A stale status column must not influence the analyzer; the flag is
	// re-derived from the invoice prefix.
	row := txRow("A", "C100", "85123", -1, 1, when)
	row.Status = dataset.StatusCompleted
	tx := &dataset.TransactionTable{Rows: []dataset.Transaction{row}, HasStatus: true}

	out, _ := Cancellations(seedMetrics("A"), tx)
	assert.Equal(t, 1.0, metricsValue(t, out, "A", dataset.ColCancellationFreq))
}
