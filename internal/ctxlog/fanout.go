// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (*FanoutHandler)(nil)

// FanoutHandler sends each record to every handler that is enabled for its level.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanout returns a handler that duplicates records to all of the given handlers.
// Nil handlers are ignored.
func NewFanout(handlers ...slog.Handler) *FanoutHandler {
	hs := make([]slog.Handler, 0, len(handlers))

	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}

	return &FanoutHandler{handlers: hs}
}

// Enabled reports whether any of the handlers is enabled for the level.
func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle passes a clone of the record to each enabled handler.
// Every handler is tried, errors are joined.
func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		err = errors.Join(err, h.Handle(ctx, r.Clone()))
	}

	return err
}

// WithAttrs implements slog.Handler.
func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}

	return &FanoutHandler{handlers: hs}
}

// WithGroup implements slog.Handler.
func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}

	return &FanoutHandler{handlers: hs}
}
