// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLineWriter(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{name: "single line with newline", writes: []string{"hello world\n"}, want: "hello world"},
		{name: "single line without newline", writes: []string{"hello world"}, want: "hello world"},
		{name: "empty", writes: []string{""}, want: ""},
		{name: "just newline", writes: []string{"\n"}, want: ""},
		{name: "several lines", writes: []string{"one\ntwo\nthree\n"}, want: "three"},
		{name: "trailing blank lines", writes: []string{"Error: not found\n\n  \n"}, want: "Error: not found"},
		{name: "line split across writes", writes: []string{"Err", "or: boom", "\n"}, want: "Error: boom"},
		{name: "partial after complete", writes: []string{"done\nnext"}, want: "next"},
		{name: "crlf", writes: []string{"windows\r\n"}, want: "windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			lw := NewLastLineWriter(&buf)

			var all string

			for _, w := range tt.writes {
				n, err := lw.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)

				all += w
			}

			assert.Equal(t, tt.want, lw.LastLine(0))
			assert.Equal(t, all, buf.String())
		})
	}
}

func TestLastLineWriter_Truncate(t *testing.T) {
	lw := NewLastLineWriter(nil)
	_, _ = lw.Write([]byte("0123456789\n"))

	assert.Equal(t, "0123...", lw.LastLine(7))
	assert.Equal(t, "0123456789", lw.LastLine(10))
}

func TestLastLineWriter_TruncateKeepsCharactersWhole(t *testing.T) {
	lw := NewLastLineWriter(nil)
	_, _ = lw.Write([]byte("échec: rééssayer\n"))

	for maxLength := 4; maxLength < 20; maxLength++ {
		got := lw.LastLine(maxLength)
		assert.True(t, utf8.ValidString(got), "maxLength %d: %q", maxLength, got)
		assert.LessOrEqual(t, len(got), maxLength)
	}

	// "é" is two bytes, cutting after its first byte backs up to before it.
	assert.Equal(t, "...", lw.LastLine(4))
	assert.Equal(t, "é...", lw.LastLine(5))
}

func TestLastLineWriter_Reset(t *testing.T) {
	lw := NewLastLineWriter(nil)
	_, _ = lw.Write([]byte("line\npartial"))

	lw.Reset()
	assert.Empty(t, lw.LastLine(0))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestLastLineWriter_TracksWhenWrappedWriterFails(t *testing.T) {
	lw := NewLastLineWriter(failingWriter{})

	_, err := lw.Write([]byte("still seen\n"))
	require.Error(t, err)
	assert.Equal(t, "still seen", lw.LastLine(0))
}

func TestLastLineWriter_Concurrent(t *testing.T) {
	lw := NewLastLineWriter(nil)

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 100 {
				_, _ = fmt.Fprintf(lw, "writer %d line %d\n", i, j)
				_ = lw.LastLine(0)
			}
		}()
	}

	wg.Wait()
	assert.Contains(t, lw.LastLine(0), "line 99")
}
