// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/incusbake/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeOutput      bool // Whether to include captured process output
	ShowSuccessDetails bool // Whether to show details (log file, output) for successful commands
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeOutput:      false,
		ShowSuccessDetails: false,
	}
}

// WriteResults writes the results as an indented tree, one line per command,
// followed by the error and log file of failed commands.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if err := writeResultWithIndent(w, r, "", options); err != nil {
			return err
		}
	}

	return nil
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch {
	case r.Failed():
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	case r.Status == ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	line := fmt.Sprintf("%s%s %s%s%s", indent, statusStr, labelPrefix, label, color.ControlString(color.Reset))

	if r.ExitCode > 0 {
		line += fmt.Sprintf(" (exit code: %d)", r.ExitCode)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	// The children carry the real errors.
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		if _, err := fmt.Fprintf(w, "%s  %s %s%s\n",
			indent,
			color.ColorizeNoReset("➜ Error:", color.FgRed),
			r.Error.Error(),
			color.ControlString(color.Reset),
		); err != nil {
			return err
		}
	}

	showDetails := (r.Failed() || options.ShowSuccessDetails) && len(r.Children) == 0

	if showDetails && r.LogFile != "" {
		if _, err := fmt.Fprintf(w, "%s  ➜ Log: %s\n", indent, r.LogFile); err != nil {
			return err
		}
	}

	if showDetails && options.IncludeOutput && len(r.Output) > 0 {
		if _, err := fmt.Fprintf(w, "%s  ➜ Output:\n%s", indent, formatOutput(r.Output, indent+"     ")); err != nil {
			return err
		}
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput indents every non-empty line of output.
func formatOutput(output []byte, indent string) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")

	sb := strings.Builder{}
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
