// Package features implements the secondary lineage: per-customer aggregates
// computed from the cleaned transaction table and accumulated onto a single
// customer metrics table by left merges on CustomerID. The metrics table only
// grows columns until the final outlier step, which drops rows and nothing
// else.
package features
