// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)
}

func TestLoad(t *testing.T) {
	memFs(t, map[string]string{
		"/etc/incusbake/jobs.yml": "jobs:\n  bookworm:\n    stable: [demo]\n",
	})

	cfg, err := Load(context.Background(), "/etc/incusbake/jobs.yml")
	require.NoError(t, err)
	assert.Equal(t, List{{Base: "bookworm", Distribution: "stable", Variant: "demo"}}, cfg.Jobs)
}

func TestLoad_Missing(t *testing.T) {
	memFs(t, nil)

	_, err := Load(context.Background(), "/nope.yml")
	require.ErrorIs(t, err, ErrReadConfig)
	assert.NotErrorIs(t, err, ErrConfiguration)
}

func TestLoad_Malformed(t *testing.T) {
	memFs(t, map[string]string{"/bad.yml": "name: nightly\n"})

	_, err := Load(context.Background(), "/bad.yml")
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "/bad.yml")
}

func TestResolve_LocalFilesystem(t *testing.T) {
	memFs(t, map[string]string{"/jobs.yml": "jobs: {trixie: {unstable: [all]}}"})

	cfg, err := Resolve(context.Background(), "/jobs.yml")
	require.NoError(t, err)
	assert.Len(t, cfg.Jobs, 1)
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrGetConfigFile)
}
