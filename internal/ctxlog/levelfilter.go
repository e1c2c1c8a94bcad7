// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"log/slog"
)

var _ slog.Handler = (*LevelFilter)(nil)

// LevelFilter drops records below a minimum level before they reach the wrapped handler.
type LevelFilter struct {
	next     slog.Handler
	minLevel slog.Leveler
}

// NewLevelFilter wraps next so that only records at minLevel or above are handled.
// The wrapped handler's own level still applies.
func NewLevelFilter(next slog.Handler, minLevel slog.Leveler) *LevelFilter {
	return &LevelFilter{next: next, minLevel: minLevel}
}

// Enabled implements slog.Handler.
func (l *LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= l.minLevel.Level() && l.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (l *LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	return l.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (l *LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelFilter{next: l.next.WithAttrs(attrs), minLevel: l.minLevel}
}

// WithGroup implements slog.Handler.
func (l *LevelFilter) WithGroup(name string) slog.Handler {
	return &LevelFilter{next: l.next.WithGroup(name), minLevel: l.minLevel}
}
