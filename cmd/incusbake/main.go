// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the incusbake command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/incusbake"
	"github.com/matt-FFFFFF/incusbake/cmd/incusbake/batch"
	"github.com/matt-FFFFFF/incusbake/cmd/incusbake/config"
	"github.com/matt-FFFFFF/incusbake/cmd/incusbake/image"
	"github.com/matt-FFFFFF/incusbake/cmd/incusbake/prune"
	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// newRootCmd returns the root command for the CLI.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			config.NewCmd(),
			image.NewCmd(),
			prune.NewCmd(),
		},
		Flags:     batch.Flags(),
		Action:    batch.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "incusbake",
		Description: `incusbake builds YunoHost container images with Incus.

Without a subcommand, it builds every image listed in the configuration file:

  jobs:
    bookworm:
      stable: [build-and-lint, before-install, all]
    trixie:
      unstable: [all]

Each image is built in turn, with its log in <logs-dir>/<base>_<distribution>_<variant>.log.
A failed image does not stop the others. The exit code is 1 if any image failed.`,
		Usage:     "incusbake -c jobs.yml -o /srv/images",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := newRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", incusbake.Version, incusbake.Commit)

	err := rootCmd.Run(ctx, os.Args) // Exit codes are handled by the cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
