// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is an interface for something that can be run as part of a batch (either a command or a nested batch).
type Runnable interface {
	// Run executes the command or batch and returns the results.
	// The first result describes the runnable itself.
	Run(context.Context) Results
	// GetLabel returns the label or description of the command or batch.
	GetLabel() string
}
