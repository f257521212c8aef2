package pipeline

import (
	"context"

	"segpipe/internal/cleaning"
	"segpipe/internal/dataset"
)

// FilterInvalidStep drops rows with missing required values and duplicate
// rows, validating that no nulls remain.
type FilterInvalidStep struct {
	Input string
	Out   string
}

func (s *FilterInvalidStep) ID() string       { return StepIDFilterInvalid }
func (s *FilterInvalidStep) Name() string     { return "Null & Duplicate Filter" }
func (s *FilterInvalidStep) Inputs() []string { return []string{s.Input} }
func (s *FilterInvalidStep) Output() string   { return s.Out }

func (s *FilterInvalidStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	in, err := loadTransactions(s.ID(), store, s.Input)
	if err != nil {
		return nil, err
	}
	out, removed, err := cleaning.FilterInvalid(in)
	if err != nil {
		return nil, NewValidationError(s.ID(), err.Error())
	}
	if err := store.SaveTransactions(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: in.Len(), RowsOut: out.Len(), RowsAffected: removed}, nil
}

// ClassifyStatusStep adds the transaction status column from the invoice
// prefix rule.
type ClassifyStatusStep struct {
	Input string
	Out   string
}

func (s *ClassifyStatusStep) ID() string       { return StepIDClassifyStatus }
func (s *ClassifyStatusStep) Name() string     { return "Transaction Status Classifier" }
func (s *ClassifyStatusStep) Inputs() []string { return []string{s.Input} }
func (s *ClassifyStatusStep) Output() string   { return s.Out }

func (s *ClassifyStatusStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	in, err := loadTransactions(s.ID(), store, s.Input)
	if err != nil {
		return nil, err
	}
	out, cancelled := cleaning.ClassifyStatus(in)
	if err := store.SaveTransactions(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: in.Len(), RowsOut: out.Len(), RowsAffected: cancelled}, nil
}

// FilterCodesStep removes rows referencing anomalous stock codes.
type FilterCodesStep struct {
	Input     string
	Out       string
	MaxDigits int
}

func (s *FilterCodesStep) ID() string       { return StepIDFilterCodes }
func (s *FilterCodesStep) Name() string     { return "Code Anomaly Filter" }
func (s *FilterCodesStep) Inputs() []string { return []string{s.Input} }
func (s *FilterCodesStep) Output() string   { return s.Out }

func (s *FilterCodesStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	in, err := loadTransactions(s.ID(), store, s.Input)
	if err != nil {
		return nil, err
	}
	out, removed := cleaning.FilterAnomalousCodes(in, s.MaxDigits)
	if err := store.SaveTransactions(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: in.Len(), RowsOut: out.Len(), RowsAffected: removed}, nil
}

// CleanDescriptionsStep removes service lines and upper-cases descriptions.
type CleanDescriptionsStep struct {
	Input string
	Out   string
}

func (s *CleanDescriptionsStep) ID() string       { return StepIDCleanDescriptions }
func (s *CleanDescriptionsStep) Name() string     { return "Description Normalizer" }
func (s *CleanDescriptionsStep) Inputs() []string { return []string{s.Input} }
func (s *CleanDescriptionsStep) Output() string   { return s.Out }

func (s *CleanDescriptionsStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	in, err := loadTransactions(s.ID(), store, s.Input)
	if err != nil {
		return nil, err
	}
	out, removed := cleaning.NormalizeDescriptions(in)
	if err := store.SaveTransactions(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: in.Len(), RowsOut: out.Len(), RowsAffected: removed}, nil
}

// ValidatePricesStep keeps rows with a strictly positive unit price.
type ValidatePricesStep struct {
	Input string
	Out   string
}

func (s *ValidatePricesStep) ID() string       { return StepIDValidatePrices }
func (s *ValidatePricesStep) Name() string     { return "Price Validator" }
func (s *ValidatePricesStep) Inputs() []string { return []string{s.Input} }
func (s *ValidatePricesStep) Output() string   { return s.Out }

func (s *ValidatePricesStep) Run(ctx context.Context, store *dataset.Store) (*Result, error) {
	in, err := loadTransactions(s.ID(), store, s.Input)
	if err != nil {
		return nil, err
	}
	out, removed := cleaning.ValidatePrices(in)
	if err := store.SaveTransactions(s.Out, out); err != nil {
		return nil, NewExecutionError(s.ID(), err)
	}
	return &Result{Step: s.ID(), Output: s.Out, RowsIn: in.Len(), RowsOut: out.Len(), RowsAffected: removed}, nil
}
