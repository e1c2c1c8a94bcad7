// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package imagebuild

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/incus"
	"github.com/matt-FFFFFF/incusbake/internal/jobs"
	"github.com/matt-FFFFFF/incusbake/internal/runner"
	"github.com/matt-FFFFFF/incusbake/internal/simplestreams"
)

const (
	recipesFile      = "recipes"
	gitlabRunnerFile = "gitlab-runner-light.deb"
	imageCacheDir    = "images"
	logFilePerm      = 0o644
)

var _ runner.Builder = (*Builder)(nil)

// ErrOpenLogFile is returned when the log file of a build cannot be created.
var ErrOpenLogFile = errors.New("could not open log file")

// Incus is what a build needs from incus.
type Incus interface {
	Arch() (string, error)
	InstanceExists(ctx context.Context, name string) (bool, error)
	InstanceStopped(ctx context.Context, name string) (bool, error)
	InstanceStart(ctx context.Context, name string) error
	InstanceStop(ctx context.Context, name string) error
	InstanceDelete(ctx context.Context, name string) error
	Launch(ctx context.Context, image, name string) error
	PushFile(ctx context.Context, name, file, target string) error
	Exec(ctx context.Context, name string, args ...string) error
	Publish(ctx context.Context, name, alias string, props ...incus.Property) error
	ImageExists(ctx context.Context, alias string) (bool, error)
	ImageDelete(ctx context.Context, alias string) error
	ImageDownload(ctx context.Context, alias string) error
	simplestreams.ImageExporter
}

// Builder builds one image per call to Attempt.
type Builder struct {
	Incus        Incus
	ResourcesDir string // Holds the recipes script, the gitlab runner package and the image cache
	// SimplestreamsBinary overrides the incus-simplestreams executable when set.
	SimplestreamsBinary string
	now                 func() time.Time
}

// New returns a builder using the given incus client and resources directory.
func New(client Incus, resourcesDir string) *Builder {
	return &Builder{
		Incus:        client,
		ResourcesDir: resourcesDir,
		now:          time.Now,
	}
}

// Attempt builds the image of the job.
// Records at debug level and above go to dst.LogFile; the console keeps info and above.
// When dst.Output is set the published images are also added to the simplestreams repository there.
func (b *Builder) Attempt(ctx context.Context, job jobs.Job, dst runner.Destinations) (err error) {
	ctx, closeLog, err := b.withLogFile(ctx, dst.LogFile)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, closeLog())
	}()

	logger := ctxlog.Logger(ctx)
	logger.Debug(fmt.Sprintf("Starting at %s", b.timeNow().Format(time.DateTime)))

	r, err := recipeFor(job.Variant)
	if err != nil {
		logger.Error("cannot build image", "error", err)
		return err
	}

	c := &container{
		b:            b,
		base:         job.Base,
		distribution: job.Distribution,
		name:         fmt.Sprintf("ynh-builder-%s-%s", job.Base, job.Distribution),
		output:       dst.Output,
	}

	if err := c.build(ctx, r); err != nil {
		logger.Error("build failed", "error", err)
		return err
	}

	return nil
}

// withLogFile returns a context whose logger also writes everything to the log file.
// An empty path leaves the context logger as it is.
func (b *Builder) withLogFile(ctx context.Context, path string) (context.Context, func() error, error) {
	if path == "" {
		return ctx, func() error { return nil }, nil
	}

	f, err := FsFactory().OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, logFilePerm)
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: %s: %w", ErrOpenLogFile, path, err)
	}

	console := ctxlog.NewLevelFilter(ctxlog.Logger(ctx).Handler(), slog.LevelInfo)
	file := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(ctxlog.NewFanout(file, console))

	return ctxlog.New(ctx, logger), f.Close, nil
}

func (b *Builder) timeNow() time.Time {
	if b.now == nil {
		return time.Now()
	}

	return b.now()
}

func (b *Builder) resource(name string) string {
	return filepath.Join(b.ResourcesDir, name)
}
