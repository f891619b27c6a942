// Package tokenise attaches token id sequences to dataset splits using an external
// tokeniser, fanning batches out over a bounded worker pool.
package tokenise
