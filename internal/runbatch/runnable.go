// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is something that can be run and reports its results.
type Runnable interface {
	// Run executes the command and returns the results.
	// It should handle context cancellation and passing signals to any spawned process.
	Run(context.Context) Results
	// InheritEnv adds environment variables without overwriting existing ones.
	InheritEnv(map[string]string)
	// GetLabel returns the label or description of the command.
	GetLabel() string
	// GetParent returns the parent of this command.
	GetParent() Runnable
	// SetParent sets the parent of this command.
	SetParent(Runnable)
}
