// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOSCommandRun_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	cmd := &OSCommand{
		Label: "echo",
		Path:  "/bin/echo",
		Args:  []string{"hello", "world"},
	}

	results := cmd.Run(context.Background())
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Error)
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello world\n", string(res.Output))
}

func TestOSCommandRun_LooksUpPath(t *testing.T) {
	cmd := &OSCommand{Path: "sh", Args: []string{"-c", "echo found"}}

	res := cmd.Run(context.Background())[0]
	require.NoError(t, res.Error)
	assert.Equal(t, "found\n", string(res.Output))
}

func TestOSCommandRun_MergesStderr(t *testing.T) {
	cmd := &OSCommand{
		Path: "/bin/sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	}

	res := cmd.Run(context.Background())[0]
	require.NoError(t, res.Error)
	assert.Equal(t, "out\nerr\n", string(res.Output))
}

func TestOSCommandRun_NonZeroExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	cmd := &OSCommand{Path: "/bin/sh", Args: []string{"-c", "echo nope; exit 3"}}

	res := cmd.Run(context.Background())[0]
	assert.Equal(t, ResultStatusError, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	assert.ErrorIs(t, res.Error, ErrNonZeroExit)
	assert.Equal(t, "nope\n", string(res.Output))
}

func TestOSCommandRun_NotFound(t *testing.T) {
	cmd := &OSCommand{Path: "definitely-not-a-real-command-incusbake"}

	res := cmd.Run(context.Background())[0]
	assert.ErrorIs(t, res.Error, ErrCouldNotStartProcess)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, ResultStatusError, res.Status)
}

func TestOSCommandRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := (&OSCommand{Path: "/bin/echo"}).Run(ctx)[0]
	assert.ErrorIs(t, res.Error, ErrTimeoutExceeded)
	assert.ErrorIs(t, res.Error, context.Canceled)
}

func TestOSCommandRun_ContextTimeoutKills(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := (&OSCommand{Path: "/bin/sleep", Args: []string{"10"}}).Run(ctx)[0]

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, res.Error, ErrTimeoutExceeded)
	assert.Equal(t, ResultStatusError, res.Status)
}

func TestOSCommandRun_DuplicateSignalKills(t *testing.T) {
	defer goleak.VerifyNone(t)

	sigCh := make(chan os.Signal, 2)
	cmd := &OSCommand{
		Path:  "/bin/sh",
		Args:  []string{"-c", "trap '' INT; exec sleep 10"},
		sigCh: sigCh,
	}

	go func() {
		time.Sleep(200 * time.Millisecond)
		sigCh <- syscall.SIGINT
		sigCh <- syscall.SIGINT
	}()

	res := cmd.Run(context.Background())[0]
	assert.ErrorIs(t, res.Error, ErrDuplicateSignalReceived)
}

func TestOSCommandRun_Stream(t *testing.T) {
	var buf bytes.Buffer

	cmd := &OSCommand{
		Path:   "/bin/sh",
		Args:   []string{"-c", "echo one; echo two"},
		Stream: &buf,
	}

	res := cmd.Run(context.Background())[0]
	require.NoError(t, res.Error)
	assert.Empty(t, res.Output)
	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestOSCommandRun_EnvAndCwd(t *testing.T) {
	dir := t.TempDir()

	cmd := &OSCommand{
		Path: "/bin/sh",
		Args: []string{"-c", "echo $INCUSBAKE_TEST_VAR; pwd"},
		Cwd:  dir,
		Env:  map[string]string{"INCUSBAKE_TEST_VAR": "baked"},
	}

	res := cmd.Run(context.Background())[0]
	require.NoError(t, res.Error)

	lines := strings.Split(strings.TrimSpace(string(res.Output)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "baked", lines[0])

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(lines[1])
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOSCommand_Labels(t *testing.T) {
	cmd := &OSCommand{Path: "incus", Args: []string{"info", "box"}}
	assert.Equal(t, "incus info box", cmd.GetLabel())
	assert.Equal(t, "incus info box", cmd.CommandLine())

	cmd.Label = "query"
	assert.Equal(t, "query", cmd.GetLabel())
}

func TestLimitedBuffer(t *testing.T) {
	b := &limitedBuffer{max: 4}

	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, b.overflow)
	assert.Equal(t, "abcd", string(b.Bytes()))
}
