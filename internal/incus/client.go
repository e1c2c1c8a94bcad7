// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package incus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/runbatch"
	"github.com/matt-FFFFFF/incusbake/internal/teereader"
)

const (
	// DefaultBinary is the name of the incus client looked up in PATH.
	DefaultBinary = "incus"
	// ExecPrefix is prepended to every line of output of a command run in an instance.
	ExecPrefix = " In container |\t"

	maxCauseLength = 200
)

var (
	// ErrCommandFailed is returned when an incus command fails.
	ErrCommandFailed = errors.New("incus command failed")
	// ErrUnknownArch is returned when the host architecture has no image name.
	ErrUnknownArch = errors.New("unknown architecture")
	// ErrInstanceNotFound is returned when an operation needs an instance that does not exist.
	ErrInstanceNotFound = errors.New("instance not found")
	// ErrParseOutput is returned when the output of incus cannot be decoded.
	ErrParseOutput = errors.New("could not parse incus output")
)

// Client runs incus commands.
type Client struct {
	Binary string            // The incus executable, DefaultBinary when empty
	Env    map[string]string // Extra environment for every command
	goarch string
}

// New returns a client for the incus binary found in PATH.
func New() *Client {
	return &Client{
		Binary: DefaultBinary,
	}
}

func (c *Client) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}

	return c.Binary
}

// Arch returns the image architecture name of the host: amd64, arm64 or armhf.
func (c *Client) Arch() (string, error) {
	goarch := c.goarch
	if goarch == "" {
		goarch = runtime.GOARCH
	}

	switch goarch {
	case "amd64":
		return "amd64", nil
	case "arm64":
		return "arm64", nil
	case "arm":
		return "armhf", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownArch, goarch)
	}
}

// run runs incus with args in cwd and returns its combined output.
// If stream is set the output is written to it instead.
// The error of a failed command ends with the last line incus printed.
func (c *Client) run(ctx context.Context, cwd string, stream io.Writer, args ...string) ([]byte, error) {
	var captured bytes.Buffer

	if stream == nil {
		stream = &captured
	}

	tee := teereader.NewLastLineWriter(stream)

	cmd := &runbatch.OSCommand{
		Path:   c.binary(),
		Args:   args,
		Cwd:    cwd,
		Env:    c.Env,
		Stream: tee,
	}

	logger := ctxlog.Logger(ctx)
	logger.Debug("running incus", "command", cmd.CommandLine(), "cwd", cwd)

	res := cmd.Run(ctx)[0]
	if res.Error != nil {
		if captured.Len() > 0 {
			logger.Warn("incus output", "command", cmd.CommandLine(), "output", captured.String())
		}

		err := fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd.CommandLine(), res.Error)
		if last := tee.LastLine(maxCauseLength); last != "" {
			err = fmt.Errorf("%w: %s", err, last)
		}

		return captured.Bytes(), err
	}

	return captured.Bytes(), nil
}

// runLogged runs incus and logs each line of its output at debug level, prefixed.
func (c *Client) runLogged(ctx context.Context, prefix string, args ...string) error {
	lw := ctxlog.NewLineWriter(ctx, slog.LevelDebug, prefix)

	_, err := c.run(ctx, "", lw, args...)

	return errors.Join(err, lw.Close())
}
