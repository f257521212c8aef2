// Package cleaning implements the primary lineage of the pipeline: the row
// filters and classifiers that turn the raw transaction export into a clean
// transaction table. Every function returns a new table and never mutates its
// input; the transaction table strictly shrinks along this lineage (the status
// classifier is the one step that adds a column instead of dropping rows).
package cleaning
