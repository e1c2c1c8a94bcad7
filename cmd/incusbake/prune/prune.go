// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prune is the command that tidies a simplestreams repository.
package prune

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/exedir"
	"github.com/matt-FFFFFF/incusbake/internal/incus"
	"github.com/matt-FFFFFF/incusbake/internal/simplestreams"
	"github.com/urfave/cli/v3"
)

const (
	repositoryFlag    = "repository"
	cleanPreviousFlag = "clean-previous"
	imageCacheDir     = "images"
)

// openRepository opens the repository. Tests replace it.
var openRepository = func(path string) (*simplestreams.Repository, error) {
	return simplestreams.New(incus.New(), path, filepath.Join(exedir.Dir(), imageCacheDir))
}

// NewCmd returns the command that deletes the image files of a simplestreams repository
// that its index no longer lists.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete unreferenced image files from a simplestreams repository",
		Description: `Delete the files of the images directory that streams/v1/images.json does not list.

With --clean-previous, every version of every image but the newest is removed from
the repository first, so that its files are deleted too.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      repositoryFlag,
				Aliases:   []string{"r"},
				Usage:     "The path to the simplestreams repository",
				TakesFile: true,
				Required:  true,
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:        cleanPreviousFlag,
				Usage:       "Remove all but the newest version of each image before pruning",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	w := stdout(cmd)

	repo, err := openRepository(cmd.String(repositoryFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	repo.Out = w

	if cmd.Bool(cleanPreviousFlag) {
		removed, err := repo.CleanPreviousVersions(ctx)
		if err != nil {
			logger.Error("could not remove previous versions", "error", err)
			return cli.Exit(err.Error(), 1)
		}

		logger.Debug("removed previous versions", "count", len(removed))
	}

	pruned, err := repo.Prune(ctx)
	if err != nil {
		logger.Error("could not prune repository", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	logger.Debug("pruned repository", "count", len(pruned))

	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
