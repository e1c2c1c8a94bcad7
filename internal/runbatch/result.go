// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"os"
)

// ErrResultChildrenHasError is the error of a batch result when at least one child failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus is the outcome of a command or batch.
type ResultStatus int

const (
	// ResultStatusUnknown is the zero value, the command has not finished.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the command succeeded.
	ResultStatusSuccess
	// ResultStatusError means the command failed.
	ResultStatusError
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result represents the outcome of running a command or batch.
type Result struct {
	Label    string       // Label of the command or batch
	Status   ResultStatus // Outcome
	ExitCode int          // Exit code of the process, -1 for failures that are not process exits
	Error    error        // Error, if any
	Output   []byte       // Combined stdout and stderr, if captured
	LogFile  string       // Log file holding the detailed output, if any
	Children Results      // Nested results for tree output
}

// Failed reports whether the result is a failure.
func (r *Result) Failed() bool {
	return r.Status == ResultStatusError || r.Error != nil || r.ExitCode != 0
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result, or any of their children, failed.
func (r Results) HasError() bool {
	for _, v := range r {
		if v.Failed() {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Failures returns the failed results without children, depth first in run order.
func (r Results) Failures() Results {
	var out Results

	for _, v := range r {
		if len(v.Children) > 0 {
			out = append(out, v.Children.Failures()...)
			continue
		}

		if v.Failed() {
			out = append(out, v)
		}
	}

	return out
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}
