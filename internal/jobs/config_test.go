// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want List
	}{
		{
			name: "single distribution",
			yaml: `jobs: {debian12: {bookworm: [minimal, full]}}`,
			want: List{
				{Base: "debian12", Distribution: "bookworm", Variant: "minimal"},
				{Base: "debian12", Distribution: "bookworm", Variant: "full"},
			},
		},
		{
			name: "document order is kept",
			yaml: `
jobs:
  trixie:
    unstable: [all, demo]
    stable: [before-install]
  bookworm:
    testing: [build-and-lint]
`,
			want: List{
				{Base: "trixie", Distribution: "unstable", Variant: "all"},
				{Base: "trixie", Distribution: "unstable", Variant: "demo"},
				{Base: "trixie", Distribution: "stable", Variant: "before-install"},
				{Base: "bookworm", Distribution: "testing", Variant: "build-and-lint"},
			},
		},
		{
			name: "empty jobs",
			yaml: `jobs: {}`,
			want: List{},
		},
		{
			name: "empty distribution list",
			yaml: `jobs: {bookworm: {stable: []}}`,
			want: List{},
		},
		{
			name: "other keys are ignored",
			yaml: `
name: nightly
jobs:
  bookworm:
    stable: [demo]
extra: [1, 2]
`,
			want: List{{Base: "bookworm", Distribution: "stable", Variant: "demo"}},
		},
		{
			name: "numeric identifiers",
			yaml: `jobs: {12: {13: [14]}}`,
			want: List{{Base: "12", Distribution: "13", Variant: "14"}},
		},
		{
			name: "duplicate variants are kept",
			yaml: `jobs: {bookworm: {stable: [minimal, minimal]}}`,
			want: List{
				{Base: "bookworm", Distribution: "stable", Variant: "minimal"},
				{Base: "bookworm", Distribution: "stable", Variant: "minimal"},
			},
		},
		{
			name: "bases rendering identically are kept",
			yaml: `jobs: {12: {bookworm: [minimal]}, "12": {bookworm: [minimal]}}`,
			want: List{
				{Base: "12", Distribution: "bookworm", Variant: "minimal"},
				{Base: "12", Distribution: "bookworm", Variant: "minimal"},
			},
		},
		{
			name: "distinct bases with the same distribution and variant",
			yaml: `jobs: {debian12: {bookworm: [minimal]}, debian13: {bookworm: [minimal]}}`,
			want: List{
				{Base: "debian12", Distribution: "bookworm", Variant: "minimal"},
				{Base: "debian13", Distribution: "bookworm", Variant: "minimal"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Jobs)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid yaml", yaml: "jobs: [unclosed"},
		{name: "empty document", yaml: ""},
		{name: "document is a list", yaml: "- jobs"},
		{name: "missing jobs", yaml: "name: nightly"},
		{name: "null jobs", yaml: "jobs:"},
		{name: "jobs is a list", yaml: "jobs: [bookworm]"},
		{name: "jobs is a scalar", yaml: "jobs: bookworm"},
		{name: "base is a list", yaml: "jobs: {bookworm: [stable]}"},
		{name: "base is null", yaml: "jobs: {bookworm: }"},
		{name: "distribution is a mapping", yaml: "jobs: {bookworm: {stable: {all: true}}}"},
		{name: "distribution is a scalar", yaml: "jobs: {bookworm: {stable: all}}"},
		{name: "distribution is null", yaml: "jobs: {bookworm: {stable: }}"},
		{name: "variant is a list", yaml: "jobs: {bookworm: {stable: [[all]]}}"},
		{name: "variant is a mapping", yaml: "jobs: {bookworm: {stable: [{all: 1}]}}"},
		{name: "variant is empty", yaml: `jobs: {bookworm: {stable: [""]}}`},
		{name: "variant is null", yaml: "jobs: {bookworm: {stable: [~]}}"},
		{name: "base is empty", yaml: `jobs: {"": {stable: [all]}}`},
		{name: "distribution is empty", yaml: `jobs: {bookworm: {"": [all]}}`},
		{name: "fails even after valid entries", yaml: "jobs: {bookworm: {stable: [all]}, trixie: {testing: demo}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, cfg)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	doc := []byte(`
jobs:
  trixie: {unstable: [all, demo], testing: [all]}
  bullseye: {stable: [appci-only]}
  bookworm: {stable: [build-and-lint, before-install, all, appci-only, demo]}
`)

	first, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, first.Jobs, 9)

	for range 20 {
		again, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, first.Jobs, again.Jobs)
	}
}
