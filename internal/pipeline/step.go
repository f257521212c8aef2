package pipeline

import (
	"context"
	"errors"
	"io/fs"

	"segpipe/internal/dataset"
)

// Step identifiers, in chain order.
const (
	StepIDFilterInvalid     = "filter_invalid"
	StepIDClassifyStatus    = "classify_status"
	StepIDFilterCodes       = "filter_codes"
	StepIDCleanDescriptions = "clean_descriptions"
	StepIDValidatePrices    = "validate_prices"
	StepIDRFM               = "rfm"
	StepIDProducts          = "products"
	StepIDBehavior          = "behavior"
	StepIDLocation          = "location"
	StepIDCancellations     = "cancellations"
	StepIDTemporal          = "temporal"
	StepIDRemoveOutliers    = "remove_outliers"
)

// Intermediate artifact names. The raw and final names come from
// configuration; everything in between is fixed by the chain.
const (
	ArtifactFiltered     = "01_filtered.csv"
	ArtifactClassified   = "02_classified.csv"
	ArtifactCodesValid   = "03_codes_validated.csv"
	ArtifactDescriptions = "04_descriptions_cleaned.csv"
	ArtifactPriceValid   = "05_price_validated.csv"
	ArtifactRFM          = "06_rfm.csv"
	ArtifactProducts     = "07_products.csv"
	ArtifactBehavior     = "08_behavior.csv"
	ArtifactLocation     = "09_location.csv"
	ArtifactCancellation = "10_cancellations.csv"
	ArtifactTemporal     = "11_temporal.csv"
)

// Result reports what a step did, for observability rather than correctness.
type Result struct {
	Step         string
	Output       string
	RowsIn       int
	RowsOut      int
	RowsAffected int
}

// Step is one link of the pipeline chain: read the named input artifacts,
// apply one transform, write the named output artifact.
type Step interface {
	ID() string
	Name() string
	Inputs() []string
	Output() string
	Run(ctx context.Context, store *dataset.Store) (*Result, error)
}

// classifyLoadError maps artifact-store failures onto the step error
// taxonomy: a missing file is NotFound, a missing column is a SchemaError,
// anything else is an execution failure.
func classifyLoadError(step, artifact string, err error) error {
	var missing *dataset.MissingColumnError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewNotFoundError(step, artifact, err)
	case errors.As(err, &missing):
		return NewSchemaError(step, missing.Column)
	default:
		return NewExecutionError(step, err)
	}
}

func loadTransactions(step string, store *dataset.Store, artifact string) (*dataset.TransactionTable, error) {
	t, err := store.LoadTransactions(artifact)
	if err != nil {
		return nil, classifyLoadError(step, artifact, err)
	}
	return t, nil
}

func loadMetrics(step string, store *dataset.Store, artifact string, required ...string) (*dataset.MetricsTable, error) {
	t, err := store.LoadMetrics(artifact, required...)
	if err != nil {
		return nil, classifyLoadError(step, artifact, err)
	}
	return t, nil
}

// checkUniqueKey enforces the per-customer invariant on every metrics output.
func checkUniqueKey(step string, t *dataset.MetricsTable) error {
	if err := t.CheckUniqueKey(); err != nil {
		return NewValidationError(step, err.Error())
	}
	return nil
}
