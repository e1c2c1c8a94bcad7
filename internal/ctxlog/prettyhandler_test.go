// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyHandler_Format(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug},
		WithDestinationWriter(&buf),
	))

	logger.Info("publishing image", "alias", "yunohost/bookworm-stable/dev")

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "publishing image")
	assert.Contains(t, out, `"alias"`)
	assert.Contains(t, out, `"yunohost/bookworm-stable/dev"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "\033[", "colour must be off unless requested")
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelWarn},
		WithDestinationWriter(&buf),
	))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "WARN:")
}

func TestPrettyHandler_EmptyAttrs(t *testing.T) {
	var without, with bytes.Buffer

	slog.New(NewPrettyHandler(nil, WithDestinationWriter(&without))).Warn("x")
	slog.New(NewPrettyHandler(nil, WithDestinationWriter(&with), WithOutputEmptyAttrs())).Warn("x")

	assert.NotContains(t, without.String(), "{")
	assert.Contains(t, with.String(), "{")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(&buf))).
		With("job", "bookworm").
		WithGroup("incus")

	logger.Warn("exec", "exitCode", 1)

	out := buf.String()
	assert.Contains(t, out, `"job"`)
	assert.Contains(t, out, `"bookworm"`)
	assert.Contains(t, out, `"incus"`)
	assert.Contains(t, out, `"exitCode"`)
}

func TestPrettyHandler_ReplaceAttrDropsTime(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	slog.New(h).Warn("no time")
	assert.True(t, strings.HasPrefix(buf.String(), "WARN:"), buf.String())
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))

	err := h.Handle(t.Context(), slog.NewRecord(timeZero, slog.LevelError, "boom", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestPrettyHandler_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
	)

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}))))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Warn("line", "i", i)
		}()
	}

	wg.Wait()
	out := buf.String()
	assert.Equal(t, 20, strings.Count(out, "WARN:"))

	for i := range 20 {
		assert.Contains(t, out, fmt.Sprintf("\"i\": %d", i))
	}
}
