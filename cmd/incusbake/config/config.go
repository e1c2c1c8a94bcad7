// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config is the command that explains and checks configuration files.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/incusbake/internal/exedir"
	"github.com/matt-FFFFFF/incusbake/internal/imagebuild"
	"github.com/matt-FFFFFF/incusbake/internal/jobs"
	"github.com/urfave/cli/v3"
)

const (
	fileArg     = "file"
	logsDirFlag = "logs-dir"
	logsDirName = "logs"
)

// NewCmd returns the command that prints an example configuration, or the jobs of a configuration file.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print an example configuration, or list the images a configuration builds",
		Description: `Without a file, print an example configuration and the accepted values.

With a file, which may use go-getter syntax, list the images it builds in order
with their log files, without building anything. The exit code is 1 if the file is invalid.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: fileArg,
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        logsDirFlag,
				Usage:       "The directory of the per-image log files",
				DefaultText: "logs, next to the executable",
				TakesFile:   true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	src := cmd.StringArg(fileArg)
	if src == "" {
		return writeExample(w)
	}

	cfg, err := jobs.Resolve(ctx, src)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logsDir := exedir.Or(cmd.String(logsDirFlag), logsDirName)

	for i, job := range cfg.Jobs {
		fmt.Fprintf(w, "%d. %s -> %s\n", i+1, job, job.LogFile(logsDir)) //nolint:errcheck
	}

	fmt.Fprintf(w, "%d image(s)\n", len(cfg.Jobs)) //nolint:errcheck

	return nil
}

// example is a configuration building every variant that starts from Debian on bookworm stable,
// and the ones built from those on trixie unstable.
func example() yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "jobs", Value: yaml.MapSlice{
			{Key: "bookworm", Value: yaml.MapSlice{
				{Key: "stable", Value: []string{"build-and-lint", "before-install", "all"}},
			}},
			{Key: "trixie", Value: yaml.MapSlice{
				{Key: "unstable", Value: []string{"all", "appci-only", "before-install", "demo"}},
			}},
		}},
	}
}

func writeExample(w io.Writer) error {
	b, err := yaml.Marshal(example())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	comment := fmt.Sprintf(`# bases: %s
# distributions: %s
# variants: %s
`, strings.Join(imagebuild.Bases, ", "), strings.Join(imagebuild.Distributions, ", "), strings.Join(imagebuild.Variants, ", "))

	if _, err := io.WriteString(w, comment+string(b)); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
