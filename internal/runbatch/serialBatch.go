// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/progress"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch represents a collection of commands, which are run serially.
//
// Every command is run, whatever happened to the ones before it, and the batch
// does not stop early when the context is cancelled: cancellation is left to the
// commands, which are expected to fail quickly.
type SerialBatch struct {
	Label    string
	Commands []Runnable       // The commands or nested batches to run
	Reporter progress.Reporter // Receives started/completed/failed events, may be nil
}

// GetLabel returns the label of the batch.
func (b *SerialBatch) GetLabel() string {
	return b.Label
}

// Run implements the Runnable interface for SerialBatch.
func (b *SerialBatch) Run(ctx context.Context) Results {
	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.NullReporter{}
	}

	logger := ctxlog.Logger(ctx).With("runnableType", "SerialBatch", "label", b.Label)
	logger.Debug("running serial batch", "commands", len(b.Commands))

	children := make(Results, 0, len(b.Commands))

	for i, cmd := range b.Commands {
		reporter.Report(progress.Event{
			Label:     cmd.GetLabel(),
			Index:     i,
			Type:      progress.EventStarted,
			Timestamp: time.Now(),
		})

		res := cmd.Run(ctx)

		ev := progress.Event{
			Label:     cmd.GetLabel(),
			Index:     i,
			Type:      progress.EventCompleted,
			Timestamp: time.Now(),
		}

		if res.HasError() {
			ev.Type = progress.EventFailed
			ev.Error = firstError(res)
		}

		reporter.Report(ev)

		children = append(children, res...)
	}

	parent := &Result{
		Label:    b.Label,
		Status:   ResultStatusSuccess,
		Children: children,
	}

	if children.HasError() {
		parent.Status = ResultStatusError
		parent.ExitCode = -1
		parent.Error = ErrResultChildrenHasError
	}

	return Results{parent}
}

func firstError(r Results) error {
	for _, f := range r.Failures() {
		if f.Error != nil {
			return f.Error
		}
	}

	return ErrResultChildrenHasError
}
