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

func TestLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name string
		ctx  context.Context
		want *slog.Logger
	}{
		{
			name: "context with logger",
			ctx:  New(context.Background(), custom),
			want: custom,
		},
		{
			name: "context without logger",
			ctx:  context.Background(),
			want: DefaultLogger,
		},
		{
			name: "nil logger is replaced by default",
			ctx:  New(context.Background(), nil),
			want: DefaultLogger,
		},
		{
			name: "wrong type value",
			ctx:  context.WithValue(context.Background(), loggerKey{}, "not a logger"),
			want: DefaultLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, Logger(tt.ctx))
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	ctx := New(context.Background(), logger)

	tests := []struct {
		name    string
		logFunc func(context.Context, string, ...any)
		level   string
	}{
		{name: "info", logFunc: Info, level: "INFO"},
		{name: "debug", logFunc: Debug, level: "DEBUG"},
		{name: "warn", logFunc: Warn, level: "WARN"},
		{name: "error", logFunc: Error, level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, "hello "+tt.name, "key", "value")

			out := buf.String()
			assert.Contains(t, out, "level="+tt.level)
			assert.Contains(t, out, "hello "+tt.name)
			assert.Contains(t, out, "key=value")
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{env: "DEBUG", want: slog.LevelDebug},
		{env: "INFO", want: slog.LevelInfo},
		{env: "WARN", want: slog.LevelWarn},
		{env: "ERROR", want: slog.LevelError},
		{env: "verbose", want: slog.LevelWarn},
		{env: "", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run("level "+tt.env, func(t *testing.T) {
			t.Setenv(levelEnvVarName(), tt.env)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}

func TestLevelEnvVarName(t *testing.T) {
	name := levelEnvVarName()
	assert.Regexp(t, `^[A-Z0-9._-]+_LOG_LEVEL$`, name)
}
