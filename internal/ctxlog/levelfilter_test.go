// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewLevelFilter(inner, slog.LevelInfo)).With("job", "bookworm stable dev")

	logger.Debug("container output")
	logger.Info("publishing")
	logger.Warn("retrying")

	out := buf.String()
	assert.NotContains(t, out, "container output")
	assert.Contains(t, out, "msg=publishing")
	assert.Contains(t, out, "msg=retrying")
	assert.Contains(t, out, `job="bookworm stable dev"`)
}

func TestLevelFilter_InnerLevelStillApplies(t *testing.T) {
	inner := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	h := NewLevelFilter(inner, slog.LevelInfo)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
