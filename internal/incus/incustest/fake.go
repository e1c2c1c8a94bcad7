// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package incustest provides fake command line tools for tests.
package incustest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fake is a shell script standing in for a command line tool.
// Every invocation appends its arguments, space separated, as one line to a call log.
type Fake struct {
	Path string // The script, to be used as the binary
	Dir  string // A scratch directory, available to the script body as $FAKE_DIR
	log  string
}

// New writes an executable script called name into a temporary directory.
// body is shell code run after the call is logged, with the arguments in "$@".
// The script exits 0 unless body exits otherwise.
func New(t testing.TB, name, body string) *Fake {
	t.Helper()

	dir := t.TempDir()
	f := &Fake{
		Path: filepath.Join(dir, name),
		Dir:  dir,
		log:  filepath.Join(dir, name+".calls"),
	}

	script := "#!/bin/sh\n" +
		"FAKE_DIR='" + dir + "'\n" +
		"printf '%s\\n' \"$*\" >> '" + f.log + "'\n" +
		body + "\n" +
		"exit 0\n"

	require.NoError(t, os.WriteFile(f.Path, []byte(script), 0o755)) //nolint:gosec

	return f
}

// WriteFile writes a file into the scratch directory, for the script to read.
func (f *Fake) WriteFile(t testing.TB, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.Dir, name), []byte(content), 0o644)) //nolint:gosec
}

// Calls returns the argument lists the script was called with, in order.
func (f *Fake) Calls(t testing.TB) []string {
	t.Helper()

	b, err := os.ReadFile(f.log)
	if os.IsNotExist(err) {
		return nil
	}

	require.NoError(t, err)

	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}
