// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/incusbake/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()

	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })
}

func sampleResults() Results {
	return Results{{
		Label:  "incusbake",
		Status: ResultStatusError,
		Error:  ErrResultChildrenHasError,
		Children: Results{
			{Label: "bookworm stable dev", Status: ResultStatusSuccess, LogFile: "logs/bookworm_stable_dev.log"},
			{
				Label:    "bookworm stable demo",
				Status:   ResultStatusError,
				ExitCode: 2,
				Error:    errors.New("incus publish failed"),
				LogFile:  "logs/bookworm_stable_demo.log",
				Output:   []byte("line one\n\nline two\n"),
			},
		},
	}}
}

func TestWriteResults_Default(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	require.NoError(t, sampleResults().Write(&buf))

	want := "✗ incusbake\n" +
		"  ✓ bookworm stable dev\n" +
		"  ✗ bookworm stable demo (exit code: 2)\n" +
		"    ➜ Error: incus publish failed\n" +
		"    ➜ Log: logs/bookworm_stable_demo.log\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResults_SuccessDetailsAndOutput(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	require.NoError(t, sampleResults().WriteWithOptions(&buf, &OutputOptions{
		IncludeOutput:      true,
		ShowSuccessDetails: true,
	}))

	out := buf.String()
	assert.Contains(t, out, "  ✓ bookworm stable dev\n    ➜ Log: logs/bookworm_stable_dev.log\n")
	assert.Contains(t, out, "    ➜ Output:\n       line one\n\n       line two\n")
}

func TestWriteResults_OutputIndentFollowsDepth(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, Results{{
		Label:  "top",
		Status: ResultStatusSuccess,
		Output: []byte("hello\n"),
	}}, &OutputOptions{IncludeOutput: true, ShowSuccessDetails: true}))

	assert.Equal(t, "✓ top\n  ➜ Output:\n     hello\n", buf.String())
}

func TestWriteResults_UnnamedAndUnknown(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, Results{{}}, nil))
	assert.Equal(t, "? [unnamed]\n", buf.String())
}
