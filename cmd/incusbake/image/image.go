// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package image is the command that builds a single image.
package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/exedir"
	"github.com/matt-FFFFFF/incusbake/internal/imagebuild"
	"github.com/matt-FFFFFF/incusbake/internal/incus"
	"github.com/matt-FFFFFF/incusbake/internal/jobs"
	"github.com/matt-FFFFFF/incusbake/internal/runner"
	"github.com/urfave/cli/v3"
)

const (
	baseArg         = "base"
	distributionArg = "distribution"
	variantArg      = "variant"
	logFlag         = "log"
	outputFlag      = "output"
	resourcesFlag   = "resources"
)

// ErrInvalidArgument is returned when an argument is not one of the accepted values.
var ErrInvalidArgument = errors.New("invalid argument")

// builderFactory creates the builder. Tests replace it.
var builderFactory = func(resourcesDir string) runner.Builder {
	return imagebuild.New(incus.New(), resourcesDir)
}

// NewCmd returns the command that builds one image.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:      "image",
		Usage:     "Build a single image",
		ArgsUsage: "<base> <distribution> <variant>",
		Description: fmt.Sprintf(`Build a single image.

  base is one of %v
  distribution is one of %v
  variant is one of %v`, imagebuild.Bases, imagebuild.Distributions, imagebuild.Variants),
		Arguments: []cli.Argument{
			&cli.StringArg{Name: baseArg},
			&cli.StringArg{Name: distributionArg},
			&cli.StringArg{Name: variantArg},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      logFlag,
				Aliases:   []string{"l"},
				Usage:     "If passed, logs will be printed to this file",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringFlag{
				Name:      outputFlag,
				Aliases:   []string{"o"},
				Usage:     "If passed, the path to the simplestreams repository",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringFlag{
				Name:        resourcesFlag,
				Usage:       "The directory holding the recipes script, the gitlab runner package and the image cache",
				DefaultText: "the directory of the executable",
				TakesFile:   true,
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	job := jobs.Job{
		Base:         cmd.StringArg(baseArg),
		Distribution: cmd.StringArg(distributionArg),
		Variant:      cmd.StringArg(variantArg),
	}

	if err := validate(job); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := ctxlog.Logger(ctx).With("command", cmd.Name, "job", job.String())
	logger.Debug("building image")

	builder := builderFactory(exedir.Or(cmd.String(resourcesFlag)))

	if err := builder.Attempt(ctx, job, runner.Destinations{
		LogFile: cmd.String(logFlag),
		Output:  cmd.String(outputFlag),
	}); err != nil {
		logger.Error("could not build image", "error", err)
		return cli.Exit(fmt.Sprintf("Could not build image %s!", job), 1)
	}

	return nil
}

func validate(job jobs.Job) error {
	switch {
	case !imagebuild.ValidBase(job.Base):
		return fmt.Errorf("%w: base %q, expected one of %v", ErrInvalidArgument, job.Base, imagebuild.Bases)
	case !imagebuild.ValidDistribution(job.Distribution):
		return fmt.Errorf("%w: distribution %q, expected one of %v",
			ErrInvalidArgument, job.Distribution, imagebuild.Distributions)
	case !imagebuild.ValidVariant(job.Variant):
		return fmt.Errorf("%w: variant %q, expected one of %v", ErrInvalidArgument, job.Variant, imagebuild.Variants)
	default:
		return nil
	}
}
