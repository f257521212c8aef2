package pipeline

import (
	"context"

	"segpipe/internal/dataset"
	"segpipe/internal/features"
)

// RFMStep seeds the customer metrics table with recency, frequency and
// monetary aggregates from the cleaned transaction table.
type RFMStep struct {
	Transactions string
	Out          string
}

func (s *RFMStep) ID() string       { return StepIDRFM }
func (s *RFMStep) Name() string     { return "Customer Value Analyzer" }
func (s *RFMStep) Inputs() []string { return []string{s.Transactions} }
func (s *RFMStep) Output() string   { return s.Out }

func (s *RFMStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	tx, err := loadTransactions(s.ID(), store, s.Transactions)
	if err != nil {
		return nil, err
	}
	out := features.BuildRFM(tx)
	if err := checkUniqueKey(s.ID(), out); err != nil {
		return nil, err
	}
	if err := store.SaveMetrics(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: tx.Len(), RowsOut: out.Len(), RowsAffected: out.Len()}, nil
}

// mergeTransform is a secondary-lineage transform joining per-customer
// aggregates of the transaction table onto the metrics table.
type mergeTransform func(*dataset.MetricsTable, *dataset.TransactionTable) (*dataset.MetricsTable, int)

// MergeStep is the shared shape of the product, behavior, location,
// cancellation and temporal steps: load the running metrics table and the
// cleaned transactions, aggregate, left-merge, persist.
type MergeStep struct {
	StepID       string
	StepName     string
	Metrics      string
	Transactions string
	Out          string
	Required     []string
	Transform    mergeTransform
}

func (s *MergeStep) ID() string       { return s.StepID }
func (s *MergeStep) Name() string     { return s.StepName }
func (s *MergeStep) Inputs() []string { return []string{s.Metrics, s.Transactions} }
func (s *MergeStep) Output() string   { return s.Out }

func (s *MergeStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	metrics, err := loadMetrics(s.ID(), store, s.Metrics, s.Required...)
	if err != nil {
		return nil, err
	}
	tx, err := loadTransactions(s.ID(), store, s.Transactions)
	if err != nil {
		return nil, err
	}
	out, affected := s.Transform(metrics, tx)
	if out.Len() != metrics.Len() {
		return nil, NewValidationError(s.ID(), "merge changed the metrics row count")
	}
	if err := checkUniqueKey(s.ID(), out); err != nil {
		return nil, err
	}
	if err := store.SaveMetrics(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: metrics.Len(), RowsOut: out.Len(), RowsAffected: affected}, nil
}

// RemoveOutliersStep drops the rows an isolation forest flags as outliers.
type RemoveOutliersStep struct {
	Metrics       string
	Out           string
	Contamination float64
	Seed          int64
}

func (s *RemoveOutliersStep) ID() string       { return StepIDRemoveOutliers }
func (s *RemoveOutliersStep) Name() string     { return "Outlier Filter" }
func (s *RemoveOutliersStep) Inputs() []string { return []string{s.Metrics} }
func (s *RemoveOutliersStep) Output() string   { return s.Out }

func (s *RemoveOutliersStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	metrics, err := loadMetrics(s.ID(), store, s.Metrics)
	if err != nil {
		return nil, err
	}
	out, removed := features.RemoveOutliers(metrics, s.Contamination, s.Seed)
	if err := checkUniqueKey(s.ID(), out); err != nil {
		return nil, err
	}
	if err := store.SaveMetrics(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: metrics.Len(), RowsOut: out.Len(), RowsAffected: removed}, nil
}
