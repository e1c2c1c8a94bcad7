// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger that can be used to log messages.
// It uses the slog package for structured logging and supports different log levels.
//
// The default is a pretty console handler to format the log messages in a human-readable way.
// The level is read from an environment variable derived from the executable name,
// e.g. INCUSBAKE_LOG_LEVEL for the incusbake binary.
//
// Builds that need their output in a file as well as on the console combine
// handlers with NewFanout, and stream subprocess output into a logger with LineWriter.
package ctxlog
