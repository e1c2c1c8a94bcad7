// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

var _ io.Writer = (*LastLineWriter)(nil)

// LastLineWriter writes everything to the wrapped writer and tracks the last
// non-blank line written. It is safe for concurrent use.
type LastLineWriter struct {
	w        io.Writer
	lastLine string
	partial  strings.Builder // Data after the last newline
	mu       sync.RWMutex
}

// NewLastLineWriter creates a LastLineWriter in front of w. A nil w discards the data.
func NewLastLineWriter(w io.Writer) *LastLineWriter {
	if w == nil {
		w = io.Discard
	}

	return &LastLineWriter{w: w}
}

// Write implements io.Writer. The line is tracked even if the wrapped writer fails.
func (lw *LastLineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	lw.processNewData(string(p))
	lw.mu.Unlock()

	return lw.w.Write(p) //nolint:wrapcheck
}

// processNewData updates the last line. Must be called with the write lock held.
func (lw *LastLineWriter) processNewData(data string) {
	lw.partial.WriteString(data)

	combined := lw.partial.String()

	i := strings.LastIndexByte(combined, '\n')
	if i < 0 {
		return
	}

	for _, line := range strings.Split(combined[:i], "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lw.lastLine = line
		}
	}

	lw.partial.Reset()
	lw.partial.WriteString(combined[i+1:])
}

// LastLine returns the last non-blank line, or the pending partial line if it is not blank.
// If maxLength > 3, a longer line is truncated to at most maxLength bytes with "..." at the end,
// without splitting a character.
func (lw *LastLineWriter) LastLine(maxLength int) string {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	result := lw.lastLine
	if p := lw.partial.String(); strings.TrimSpace(p) != "" {
		result = p
	}

	if maxLength > 3 && len(result) > maxLength {
		cut := maxLength - 3
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}

		result = result[:cut] + "..."
	}

	return result
}

// Reset forgets everything written so far.
func (lw *LastLineWriter) Reset() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastLine = ""
	lw.partial.Reset()
}
