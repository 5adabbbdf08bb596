// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates whole-file conversions in both directions.
// Each note is fully read, transformed, and written before the next; the
// partial-failure policy isolates errors at the smallest unit (resource,
// note record, table) that can fail independently.
package convert

import (
	"fmt"
	"io"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of notes processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any notes failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// add folds another result into this one.
func (r *BatchResult) add(other BatchResult) {
	r.Converted += other.Converted
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// summarize prints the batch summary line to the progress stream.
func (r BatchResult) summarize(w io.Writer) {
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		r.Converted, r.Skipped, r.Failed, r.Total())
}
