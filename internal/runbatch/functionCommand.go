// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrFunctionCmdPanic is the error returned when a function command panics.
// It is constructed with the value that caused the panic.
type ErrFunctionCmdPanic struct {
	v any
}

// Error implements the error interface for ErrFunctionCmdPanic.
func (e *ErrFunctionCmdPanic) Error() string {
	prefix := "function command panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value if it was an error.
func (e *ErrFunctionCmdPanic) Unwrap() error {
	err, _ := e.v.(error)
	return err
}

// NewErrFunctionCmdPanic creates a new ErrFunctionCmdPanic with the given value.
func NewErrFunctionCmdPanic(v any) error {
	return &ErrFunctionCmdPanic{v: v}
}

// FunctionCommandFunc is the type of the function that can be run by FunctionCommand.
type FunctionCommandFunc func(ctx context.Context) error

// FunctionCommand is a command that runs a function. It implements the Runnable interface.
//
// The function runs on the calling goroutine and Run returns only once it has,
// so commands of a SerialBatch never overlap.
type FunctionCommand struct {
	Label   string
	LogFile string // Copied to the result, where the function writes its detailed log
	Func    FunctionCommandFunc
}

// GetLabel returns the label of the command.
func (f *FunctionCommand) GetLabel() string {
	return f.Label
}

// Run implements the Runnable interface for FunctionCommand.
func (f *FunctionCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).With("runnableType", "FunctionCommand", "label", f.Label)

	res := &Result{
		Label:   f.Label,
		LogFile: f.LogFile,
		Status:  ResultStatusSuccess,
	}

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return Results{res}
	}

	if err := f.call(ctx); err != nil {
		logger.Debug("function command failed", "error", err)

		res.Status = ResultStatusError
		res.ExitCode = -1
		res.Error = err
	}

	return Results{res}
}

func (f *FunctionCommand) call(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "function command panicked", "label", f.Label, "panic", r)
			err = NewErrFunctionCmdPanic(r)
		}
	}()

	return f.Func(ctx)
}
