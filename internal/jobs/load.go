// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrReadConfig is returned when the configuration file cannot be read.
var ErrReadConfig = errors.New("failed to read config file")

// Load reads and parses the configuration file at path.
func Load(ctx context.Context, path string) (*Config, error) {
	ctxlog.Debug(ctx, "loading configuration", "path", path)

	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.Debug(ctx, "configuration loaded", "path", path, "jobs", len(cfg.Jobs))

	return cfg, nil
}
