// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"

	"github.com/matt-FFFFFF/incusbake/internal/jobs"
)

// Destinations tells the builder where to write.
type Destinations struct {
	LogFile string // The job's log file
	Output  string // Where to put the image, empty for the builder's default
}

// Builder builds the image of one job.
// Attempt blocks until the build is over and returns an error if it failed.
type Builder interface {
	Attempt(ctx context.Context, job jobs.Job, dst Destinations) error
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, job jobs.Job, dst Destinations) error

// Attempt calls f.
func (f BuilderFunc) Attempt(ctx context.Context, job jobs.Job, dst Destinations) error {
	return f(ctx, job, dst)
}
