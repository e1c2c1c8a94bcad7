// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/jobs"
	"github.com/matt-FFFFFF/incusbake/internal/progress"
	"github.com/matt-FFFFFF/incusbake/internal/runbatch"
)

const (
	startedFormat = "############### Building %s...\n"
	failedFormat  = "Could not build image %s!\n"
)

// ErrJobsFailed is returned by callers when at least one job of the report failed.
var ErrJobsFailed = errors.New("one or more images could not be built")

// Options configures a run.
type Options struct {
	LogsDir string    // Directory of the per-job log files
	Output  string    // Passed to every job, empty when not set
	Stdout  io.Writer // Receives the progress lines, os.Stdout when nil
}

// Run attempts every job in order and returns their outcomes.
// It never stops early: a failed, panicking or cancelled job is recorded and the next one is attempted.
func Run(ctx context.Context, list jobs.List, builder Builder, opts Options) *Report {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	id := uuid.NewString()
	logger := ctxlog.Logger(ctx).With("run", id)
	ctx = ctxlog.New(ctx, logger)

	logger.Info("starting run", "jobs", len(list), "logsDir", opts.LogsDir, "output", opts.Output)

	cmds := make([]runbatch.Runnable, 0, len(list))

	for _, job := range list {
		dst := Destinations{
			LogFile: job.LogFile(opts.LogsDir),
			Output:  opts.Output,
		}

		cmds = append(cmds, &runbatch.FunctionCommand{
			Label:   job.String(),
			LogFile: dst.LogFile,
			Func: func(ctx context.Context) error {
				return builder.Attempt(ctx, job, dst)
			},
		})
	}

	batch := &runbatch.SerialBatch{
		Label:    "incusbake",
		Commands: cmds,
		Reporter: consoleReporter(ctx, stdout),
	}

	res := batch.Run(ctx)

	report := &Report{
		ID:   id,
		root: res[0],
	}

	logger.Info("run finished", "jobs", len(list), "failed", len(report.Failures()))

	return report
}

// consoleReporter prints the progress lines in the order the events arrive.
func consoleReporter(ctx context.Context, w io.Writer) progress.Reporter {
	return progress.ReporterFunc(func(e progress.Event) {
		var err error

		switch e.Type {
		case progress.EventStarted:
			_, err = fmt.Fprintf(w, startedFormat, e.Label)
		case progress.EventFailed:
			ctxlog.Debug(ctx, "job failed", "job", e.Label, "error", e.Error)
			_, err = fmt.Fprintf(w, failedFormat, e.Label)
		case progress.EventCompleted:
			ctxlog.Debug(ctx, "job completed", "job", e.Label)
		}

		if err != nil {
			ctxlog.Warn(ctx, "could not write progress", "error", err)
		}
	})
}
