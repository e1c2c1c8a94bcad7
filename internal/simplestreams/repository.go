// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package simplestreams

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// DefaultBinary is the name of the incus-simplestreams tool looked up in PATH.
	DefaultBinary = "incus-simplestreams"

	imagesDir     = "images"
	exportSuffix  = ".tar.gz"
	dirPermission = 0o755
)

var (
	// ErrCreateDir is returned when the repository or cache directory cannot be created.
	ErrCreateDir = errors.New("could not create directory")
	// ErrToolFailed is returned when incus-simplestreams fails.
	ErrToolFailed = errors.New("incus-simplestreams failed")
	// ErrNoExporter is returned when importing into a repository opened without an exporter.
	ErrNoExporter = errors.New("no image exporter")
	// ErrPrune is returned when an orphaned image file cannot be listed or deleted.
	ErrPrune = errors.New("could not prune image files")
)

// ImageExporter writes an incus image to a file.
type ImageExporter interface {
	ImageExport(ctx context.Context, alias, target, dir string) error
}

// Repository is a simplestreams repository on disk.
type Repository struct {
	Path     string // Root of the repository
	CacheDir string // Where images are exported before being added
	Binary   string // The incus-simplestreams executable, DefaultBinary when empty
	// Out, if set, receives a "Pruning ..." line just before each removal.
	Out      io.Writer
	exporter ImageExporter
	fs       afero.Fs
}

// Removal identifies an item removed from the repository.
type Removal struct {
	Product string
	SHA256  string
}

// New returns the repository at path, creating it and the cache directory if needed.
// exporter may be nil when nothing is imported.
func New(exporter ImageExporter, path, cacheDir string) (*Repository, error) {
	fs := FsFactory()

	repo, err := mkdir(fs, path)
	if err != nil {
		return nil, err
	}

	cache, err := mkdir(fs, cacheDir)
	if err != nil {
		return nil, err
	}

	return &Repository{
		Path:     repo,
		CacheDir: cache,
		Binary:   DefaultBinary,
		exporter: exporter,
		fs:       fs,
	}, nil
}

func mkdir(fs afero.Fs, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Join(ErrCreateDir, err)
	}

	if err := fs.MkdirAll(abs, dirPermission); err != nil {
		return "", errors.Join(ErrCreateDir, err)
	}

	return abs, nil
}

// ImportFromIncus exports the incus image name and adds it to the repository.
// alias names the intermediate file, with slashes replaced by underscores.
func (r *Repository) ImportFromIncus(ctx context.Context, name, alias string) error {
	base := strings.ReplaceAll(alias, "/", "_")
	file := filepath.Join(r.CacheDir, base+exportSuffix)

	if r.exporter == nil {
		return ErrNoExporter
	}

	ctxlog.Info(ctx, "importing image into simplestreams repository", "image", name, "repository", r.Path)

	if err := r.exporter.ImageExport(ctx, name, base, r.CacheDir); err != nil {
		return err
	}

	if err := r.tool(ctx, "add", file); err != nil {
		return err
	}

	if err := r.fs.Remove(file); err != nil {
		return fmt.Errorf("could not remove exported image %s: %w", file, err)
	}

	return nil
}

// ImagePaths returns the path of every item listed in the index, in a stable order.
func (r *Repository) ImagePaths() ([]string, error) {
	idx, err := readIndex(r.fs, r.Path)
	if err != nil {
		return nil, err
	}

	var paths []string

	for _, pn := range idx.ProductNames() {
		p := idx.Products[pn]
		for _, vn := range p.VersionNames() {
			v := p.Versions[vn]
			for _, in := range v.ItemNames() {
				paths = append(paths, filepath.Join(r.Path, v.Items[in].Path))
			}
		}
	}

	return paths, nil
}

// Prune deletes the files of the images directory that the index does not list.
// Every file is tried and the names of the deleted ones are returned.
func (r *Repository) Prune(ctx context.Context) ([]string, error) {
	listed, err := r.ImagePaths()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(r.Path, imagesDir)

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, errors.Join(ErrPrune, err)
	}

	var (
		pruned []string
		result *multierror.Error
	)

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if slices.Contains(listed, path) {
			continue
		}

		ctxlog.Info(ctx, "pruning image file", "file", e.Name())
		r.announce("Pruning %s...\n", e.Name())

		if err := r.fs.RemoveAll(path); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %s: %w", ErrPrune, e.Name(), err))
			continue
		}

		pruned = append(pruned, e.Name())
	}

	return pruned, result.ErrorOrNil()
}

// CleanPreviousVersions removes every version of every product but the newest.
// Versions are compared lexically. Every removal is tried.
func (r *Repository) CleanPreviousVersions(ctx context.Context) ([]Removal, error) {
	idx, err := readIndex(r.fs, r.Path)
	if err != nil {
		return nil, err
	}

	var (
		removed []Removal
		result  *multierror.Error
	)

	for _, pn := range idx.ProductNames() {
		p := idx.Products[pn]

		versions := p.VersionNames()
		if len(versions) < 2 {
			continue
		}

		for _, vn := range versions[:len(versions)-1] {
			v := p.Versions[vn]
			for _, in := range v.ItemNames() {
				sha := v.Items[in].SHA256

				ctxlog.Info(ctx, "removing previous version", "product", pn, "version", vn, "sha256", sha)
				r.announce("Pruning %s / %s...\n", pn, sha)

				if err := r.tool(ctx, "remove", sha); err != nil {
					result = multierror.Append(result, err)
					continue
				}

				removed = append(removed, Removal{Product: pn, SHA256: sha})
			}
		}
	}

	return removed, result.ErrorOrNil()
}

func (r *Repository) announce(format string, args ...any) {
	if r.Out == nil {
		return
	}

	fmt.Fprintf(r.Out, format, args...) //nolint:errcheck
}

// tool runs incus-simplestreams in the repository.
func (r *Repository) tool(ctx context.Context, args ...string) error {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := &runbatch.OSCommand{
		Path: bin,
		Args: args,
		Cwd:  r.Path,
	}

	res := cmd.Run(ctx)[0]
	if res.Error != nil {
		if len(res.Output) > 0 {
			ctxlog.Warn(ctx, "incus-simplestreams output", "command", cmd.CommandLine(), "output", string(res.Output))
		}

		return fmt.Errorf("%w: %s: %w", ErrToolFailed, cmd.CommandLine(), res.Error)
	}

	ctxlog.Debug(ctx, "incus-simplestreams finished", "command", cmd.CommandLine(), "output", string(res.Output))

	return nil
}
