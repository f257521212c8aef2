// Package pipeline wires the cleaning and feature transforms into a chain of
// artifact-to-artifact steps. Each step reads named CSV artifacts from the
// store, applies exactly one transform, and writes exactly one new artifact;
// a step either fully succeeds or persists nothing. Sequencing, retries and
// timeouts belong to whatever invokes the runner; the step contract assumes
// at-most-once, run-to-completion semantics.
package pipeline
