// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

var _ io.WriteCloser = (*LineWriter)(nil)

// LineWriter is an io.Writer that logs every complete line written to it as one record.
// A trailing partial line is held back until it is completed or the writer is closed.
// It is safe for concurrent use.
type LineWriter struct {
	ctx     context.Context
	logger  *slog.Logger
	level   slog.Level
	prefix  string
	partial bytes.Buffer
	mu      sync.Mutex
}

// NewLineWriter creates a LineWriter that logs to the context logger at the given level,
// prepending prefix to each line.
func NewLineWriter(ctx context.Context, level slog.Level, prefix string) *LineWriter {
	return &LineWriter{
		ctx:    ctx,
		logger: Logger(ctx),
		level:  level,
		prefix: prefix,
	}
}

// Write implements io.Writer. It never fails.
func (lw *LineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.partial.Write(p)

	for {
		data := lw.partial.Bytes()

		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}

		lw.emit(string(data[:i]))
		lw.partial.Next(i + 1)
	}

	return len(p), nil
}

// Close logs any remaining partial line.
func (lw *LineWriter) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.partial.Len() > 0 {
		lw.emit(lw.partial.String())
		lw.partial.Reset()
	}

	return nil
}

func (lw *LineWriter) emit(line string) {
	lw.logger.Log(lw.ctx, lw.level, lw.prefix+strings.TrimSuffix(line, "\r"))
}
