// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/signalbroker"
)

const (
	maxBufferSize = 8 * 1024 * 1024 // 8MB
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when the captured output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrNonZeroExit is returned when the process exits with a non-zero exit code.
	ErrNonZeroExit = errors.New("process exited with non-zero exit code")
	// ErrTimeoutExceeded is returned when the context ends before the process does.
	ErrTimeoutExceeded = errors.New("context done before process finished")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSCommand represents a process to run.
// Standard output and standard error are merged, in the order the process writes them.
type OSCommand struct {
	Label string
	Path  string            // The executable, either a path or a name looked up in PATH
	Args  []string          // Arguments, do not include the executable name itself
	Cwd   string            // Working directory, empty for the current one
	Env   map[string]string // Added to the environment of the current process
	// Stream, if set, receives the output as it is produced and the output is not kept in the result.
	// Otherwise up to 8MB of output is captured in Result.Output.
	Stream io.Writer
	sigCh  chan os.Signal // Channel to receive signals, allows mocking in test.
}

// GetLabel returns the label of the command, or the command line if there is none.
func (c *OSCommand) GetLabel() string {
	if c.Label != "" {
		return c.Label
	}

	return c.CommandLine()
}

// CommandLine returns the command and its arguments joined by spaces, for messages.
func (c *OSCommand) CommandLine() string {
	return strings.Join(slices.Concat([]string{c.Path}, c.Args), " ")
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSCommand", "label", c.GetLabel())

	res := &Result{
		Label:    c.GetLabel(),
		ExitCode: -1,
		Status:   ResultStatusError,
	}

	if err := ctx.Err(); err != nil {
		res.Error = errors.Join(ErrTimeoutExceeded, err)
		return Results{res}
	}

	path, err := c.resolve()
	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return Results{res}
	}

	logger.Debug("command info", "path", path, "cwd", c.Cwd, "args", c.Args)

	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return Results{res}
	}
	defer devNull.Close() //nolint:errcheck

	rOut, wOut, err := os.Pipe()
	if err != nil {
		res.Error = errors.Join(ErrFailedToCreatePipe, err)
		return Results{res}
	}
	defer rOut.Close() //nolint:errcheck

	ps, err := os.StartProcess(path, slices.Concat([]string{filepath.Base(path)}, c.Args), &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{devNull, wOut, wOut},
	})

	// The child has its own copy, ours must be closed to see EOF.
	_ = wOut.Close()

	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return Results{res}
	}

	logger.Debug("process started", "pid", ps.Pid)

	capture := &limitedBuffer{max: maxBufferSize}

	var dst io.Writer = capture
	if c.Stream != nil {
		dst = c.Stream
	}

	readDone := make(chan error, 1)

	go func() {
		_, err := io.Copy(dst, rOut)
		readDone <- err
	}()

	sigCh := c.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	done := make(chan struct{})
	killed := make(chan error, 1)

	var wg sync.WaitGroup

	wg.Add(1)

	// watchdog for process signals and context cancellation
	go func() {
		defer wg.Done()

		seen := make(map[os.Signal]struct{})

		for {
			select {
			case s, ok := <-sigCh:
				if !ok {
					sigCh = nil
					continue
				}

				if _, dup := seen[s]; dup {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					killPs(ctx, ps)
					killed <- ErrDuplicateSignalReceived

					return
				}

				seen[s] = struct{}{}

				logger.Info("forwarding signal", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.Debug("failed to send signal", "signal", s.String(), "error", err)
				}

			case <-ctx.Done():
				logger.Info("context done, killing process")
				killPs(ctx, ps)
				killed <- ErrTimeoutExceeded

				return

			case <-done:
				return
			}
		}
	}()

	state, waitErr := ps.Wait()

	close(done)
	wg.Wait()

	if readErr := <-readDone; readErr != nil {
		res.Error = errors.Join(res.Error, readErr)
	}

	if c.Stream == nil {
		res.Output = capture.Bytes()
	}

	select {
	case e := <-killed:
		res.Error = errors.Join(res.Error, e)
	default:
	}

	if waitErr != nil {
		res.Error = errors.Join(res.Error, waitErr)
	}

	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	if res.ExitCode != 0 && res.Error == nil {
		res.Error = fmt.Errorf("%w: %d", ErrNonZeroExit, res.ExitCode)
	}

	if capture.overflow {
		res.Error = errors.Join(res.Error, ErrBufferOverflow)
	}

	if res.Error == nil {
		res.Status = ResultStatusSuccess
	} else if res.ExitCode == 0 {
		res.ExitCode = -1
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "error", res.Error)

	return Results{res}
}

// resolve looks up bare executable names in PATH.
func (c *OSCommand) resolve() (string, error) {
	if strings.ContainsRune(c.Path, filepath.Separator) {
		return c.Path, nil
	}

	return exec.LookPath(c.Path)
}

// limitedBuffer keeps the first max bytes written and drops the rest.
// It never returns an error so the pipe is always drained.
type limitedBuffer struct {
	buf      []byte
	max      int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.max - len(b.buf)
	if len(p) > room {
		b.overflow = true
		b.buf = append(b.buf, p[:max(room, 0)]...)

		return len(p), nil
	}

	b.buf = append(b.buf, p...)

	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf
}

// killPs kills the process.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}
