// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"io"

	"github.com/matt-FFFFFF/incusbake/internal/runbatch"
)

// Report holds the outcome of every job of a run, in the order they were attempted.
type Report struct {
	ID   string // Unique ID of the run, also found in its log records
	root *runbatch.Result
}

// Results returns one result per job, in order.
func (r *Report) Results() runbatch.Results {
	return r.root.Children
}

// Failures returns the results of the jobs that failed, in order.
func (r *Report) Failures() runbatch.Results {
	return r.Results().Failures()
}

// Failed reports whether any job failed.
func (r *Report) Failed() bool {
	return r.Results().HasError()
}

// ExitCode returns 1 if any job failed, 0 otherwise.
func (r *Report) ExitCode() int {
	if r.Failed() {
		return 1
	}

	return 0
}

// WriteSummary writes the result tree of the run.
func (r *Report) WriteSummary(w io.Writer, opts *runbatch.OutputOptions) error {
	return runbatch.WriteResults(w, runbatch.Results{r.root}, opts)
}
