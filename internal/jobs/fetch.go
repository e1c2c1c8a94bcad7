// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
)

// ErrGetConfigFile is returned when a remote configuration cannot be fetched.
var ErrGetConfigFile = errors.New("failed to get config file")

// getterShorthands are the prefixes go-getter detects as remote sources without a scheme.
var getterShorthands = []string{"github.com/", "gitlab.com/", "bitbucket.org/", "git@"}

// Resolve loads the configuration from src.
// A go-getter source such as git::https://example.com/repo.git//jobs.yml?ref=main is fetched,
// anything else is a path on the local filesystem.
func Resolve(ctx context.Context, src string) (*Config, error) {
	if src == "" {
		return nil, ErrGetConfigFile
	}

	if !isGetterSource(src) {
		return Load(ctx, src)
	}

	data, err := Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	return cfg, nil
}

// isGetterSource reports whether src names a remote source: a forced getter (git::),
// a URL with a scheme, or a shorthand such as github.com/org/repo.
func isGetterSource(src string) bool {
	if strings.Contains(src, "::") || strings.Contains(src, "://") {
		return true
	}

	for _, p := range getterShorthands {
		if strings.HasPrefix(src, p) {
			return true
		}
	}

	return strings.Contains(src, ".amazonaws.com/") || strings.Contains(src, ".googleapis.com/")
}

// Fetch retrieves the content of the file at src using go-getter.
// The download is made into a temporary directory which is removed before returning.
func Fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "incusbake-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	// go-getter fetches directories, so the file name is split off and read afterwards.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(src)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, src)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(src)
		fileName = filepath.Base(src)
	}

	ctxlog.Debug(ctx, "fetching configuration", "src", req.Src, "file", fileName)

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return data, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL returns the getter URL of the directory holding the file,
// keeping any query string, and the file name.
func splitFileNameFromGetterURL(url string) (string, string) {
	var query string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, ok := strings.Cut(last, goGetterRefSeparator); ok {
		query = after
		last = before
	}

	if last == "" || filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if query != "" {
		newURL += goGetterRefSeparator + query
	}

	return newURL, fileName
}
