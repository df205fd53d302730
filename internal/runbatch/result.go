// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"slices"
)

// ErrResultChildrenHasError is set on a result when one of its children failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus is the outcome of a command.
type ResultStatus int

const (
	// ResultStatusUnknown means the outcome has not been determined.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the command succeeded.
	ResultStatusSuccess
	// ResultStatusError means the command failed or could not be run.
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

// Result represents the outcome of running a command.
type Result struct {
	Label    string       // Label of the command
	ExitCode int          // Exit code of the command
	Error    error        // Error, if any
	StdOut   []byte       // Captured output of the command
	StdErr   []byte       // Captured error output of the command
	Status   ResultStatus // Outcome of the command
	Children Results      // Nested results for tree output
}

// Results is a slice of Result pointers.
type Results []*Result

// HasError reports whether any result, or any of its children, failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Error != nil || v.ExitCode != 0 || v.Status == ResultStatusError {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Failed returns the results without children that failed, in order.
func (r Results) Failed() Results {
	var failed Results

	for v := range slices.Values(r) {
		if len(v.Children) > 0 {
			failed = append(failed, v.Children.Failed()...)
			continue
		}

		if v.Error != nil || v.ExitCode != 0 || v.Status == ResultStatusError {
			failed = append(failed, v)
		}
	}

	return failed
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return writeTextResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return writeTextResults(w, r, options)
}
