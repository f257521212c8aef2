// Package dataset defines the typed tables flowing through the pipeline and
// the CSV artifact store that persists them between steps.
//
// Two table shapes exist: TransactionTable, the row-level transaction export
// cleaned along the primary lineage, and MetricsTable, the per-customer
// feature table accumulated along the secondary lineage. Both are loaded with
// their column schema checked up front, so a missing column surfaces at the
// step boundary instead of mid-computation.
package dataset
