package pipeline

import (
	"segpipe/internal/config"
	"segpipe/internal/dataset"
	"segpipe/internal/features"
)

// Chain builds the twelve steps in their fixed order. The primary lineage
// cleans the transaction table; the secondary lineage accumulates customer
// features by repeatedly joining against the price-validated table.
func Chain(cfg *config.Config) []Step {
	homeMarket := cfg.Features.HomeMarket

	return []Step{
		&FilterInvalidStep{Input: cfg.Data.RawArtifact, Out: ArtifactFiltered},
		&ClassifyStatusStep{Input: ArtifactFiltered, Out: ArtifactClassified},
		&FilterCodesStep{Input: ArtifactClassified, Out: ArtifactCodesValid, MaxDigits: cfg.Cleaning.MaxAnomalousDigits},
		&CleanDescriptionsStep{Input: ArtifactCodesValid, Out: ArtifactDescriptions},
		&ValidatePricesStep{Input: ArtifactDescriptions, Out: ArtifactPriceValid},
		&RFMStep{Transactions: ArtifactPriceValid, Out: ArtifactRFM},
		&MergeStep{
			StepID:       StepIDProducts,
			StepName:     "Product Aggregator",
			Metrics:      ArtifactRFM,
			Transactions: ArtifactPriceValid,
			Out:          ArtifactProducts,
			Required:     []string{dataset.ColRecency, dataset.ColFrequency, dataset.ColMonetary},
			Transform:    features.ProductDiversity,
		},
		&MergeStep{
			StepID:       StepIDBehavior,
			StepName:     "Behavior Analyzer",
			Metrics:      ArtifactProducts,
			Transactions: ArtifactPriceValid,
			Out:          ArtifactBehavior,
			Required:     []string{dataset.ColUniqueProducts},
			Transform:    features.Behavior,
		},
		&MergeStep{
			StepID:       StepIDLocation,
			StepName:     "Location Feature Builder",
			Metrics:      ArtifactBehavior,
			Transactions: ArtifactPriceValid,
			Out:          ArtifactLocation,
			Required:     []string{dataset.ColAvgDaysBetween},
			Transform: func(m *dataset.MetricsTable, t *dataset.TransactionTable) (*dataset.MetricsTable, int) {
				return features.Location(m, t, homeMarket)
			},
		},
		&MergeStep{
			StepID:       StepIDCancellations,
			StepName:     "Cancellation Analyzer",
			Metrics:      ArtifactLocation,
			Transactions: ArtifactPriceValid,
			Out:          ArtifactCancellation,
			Required:     []string{dataset.ColIsHomeMarket},
			Transform:    features.Cancellations,
		},
		&MergeStep{
			StepID:       StepIDTemporal,
			StepName:     "Temporal Pattern Extractor",
			Metrics:      ArtifactCancellation,
			Transactions: ArtifactPriceValid,
			Out:          ArtifactTemporal,
			Required:     []string{dataset.ColCancellationRate},
			Transform:    features.Temporal,
		},
		&RemoveOutliersStep{
			Metrics:       ArtifactTemporal,
			Out:           cfg.Data.FinalArtifact,
			Contamination: cfg.Features.Contamination,
			Seed:          cfg.Features.Seed,
		},
	}
}
