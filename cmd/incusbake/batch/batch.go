// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch is the default action of incusbake: building every image listed in a configuration file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/exedir"
	"github.com/matt-FFFFFF/incusbake/internal/imagebuild"
	"github.com/matt-FFFFFF/incusbake/internal/incus"
	"github.com/matt-FFFFFF/incusbake/internal/jobs"
	"github.com/matt-FFFFFF/incusbake/internal/runbatch"
	"github.com/matt-FFFFFF/incusbake/internal/runner"
	"github.com/urfave/cli/v3"
)

const (
	configFlag    = "config"
	outputFlag    = "output"
	logsDirFlag   = "logs-dir"
	resourcesFlag = "resources"
	summaryFlag   = "summary"
	cliExitStr    = ""
	logsDirName   = "logs"
)

// ErrConfigRequired is returned when the batch run is started without a configuration file.
var ErrConfigRequired = errors.New("--config is required")

// builderFactory creates the builder of the run. Tests replace it.
var builderFactory = func(resourcesDir string) runner.Builder {
	return imagebuild.New(incus.New(), resourcesDir)
}

// Flags returns the flags of the batch action.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage: "The configuration file listing the images to build. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
			OnlyOnce:  true,
			Local:     true,
		},
		&cli.StringFlag{
			Name:      outputFlag,
			Aliases:   []string{"o"},
			Usage:     "If passed, the path to the simplestreams repository",
			TakesFile: true,
			OnlyOnce:  true,
			Local:     true,
		},
		&cli.StringFlag{
			Name:        logsDirFlag,
			Usage:       "The directory of the per-image log files, which must exist",
			DefaultText: "logs, next to the executable",
			TakesFile:   true,
			OnlyOnce:    true,
			Local:       true,
		},
		&cli.StringFlag{
			Name:        resourcesFlag,
			Usage:       "The directory holding the recipes script, the gitlab runner package and the image cache",
			DefaultText: "the directory of the executable",
			TakesFile:   true,
			OnlyOnce:    true,
			Local:       true,
		},
		&cli.BoolFlag{
			Name:        summaryFlag,
			Usage:       "Print a summary of the results once every image has been attempted",
			DefaultText: "false",
			OnlyOnce:    true,
			Local:       true,
		},
	}
}

// Action builds every image of the configuration, one after the other.
// The configuration flag is checked here rather than marked required,
// so that the subcommands of the root command run without it.
// It returns an exit code of 1 if the configuration is invalid or any image failed.
func Action(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running batch")

	src := cmd.String(configFlag)
	if src == "" {
		return cli.Exit(ErrConfigRequired.Error(), 1)
	}

	cfg, err := jobs.Resolve(ctx, src)
	if err != nil {
		logger.Error("invalid configuration", "config", src, "error", err)
		return cli.Exit(fmt.Sprintf("could not load %s: %s", src, err), 1)
	}

	opts := runner.Options{
		LogsDir: exedir.Or(cmd.String(logsDirFlag), logsDirName),
		Output:  cmd.String(outputFlag),
		Stdout:  stdout(cmd),
	}

	report := runner.Run(ctx, cfg.Jobs, builderFactory(exedir.Or(cmd.String(resourcesFlag))), opts)

	if cmd.Bool(summaryFlag) {
		if err := report.WriteSummary(opts.Stdout, runbatch.DefaultOutputOptions()); err != nil {
			logger.Warn("could not write summary", "error", err)
		}
	}

	if report.Failed() {
		logger.Error(runner.ErrJobsFailed.Error(), "failed", len(report.Failures()), "jobs", len(cfg.Jobs))
		return cli.Exit(cliExitStr, report.ExitCode())
	}

	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
