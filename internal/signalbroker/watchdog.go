// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
)

// Watch monitors the signal channel and cancels the context on the second signal of a given type.
// It returns when the channel is closed or after cancelling.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "watchdog", "detail", "received second signal of type, cancelling", "signal", sig.String())
			Stop(sigCh)
			cancel()

			return
		}

		ctxlog.Warn(ctx, "watchdog", "detail", "received signal, send again to abort", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
