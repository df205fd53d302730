// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"slices"
	"strings"
)

const (
	fullLabelInitialSliceSize = 4
)

// FullLabel returns the label of a Runnable prefixed with the labels of its parents.
func FullLabel(r Runnable) string {
	if r == nil {
		return "Unknown"
	}

	parent := r.GetParent()
	if parent == nil {
		return r.GetLabel()
	}

	labels := make([]string, 0, fullLabelInitialSliceSize)
	labels = append(labels, r.GetLabel())

	for parent != nil {
		labels = append(labels, parent.GetLabel())
		parent = parent.GetParent()
	}

	slices.Reverse(labels)

	return strings.Join(labels, " > ")
}
