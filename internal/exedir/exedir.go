// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package exedir locates files that live next to the executable: the logs
// directory, the recipes script, the gitlab runner package and the image cache.
package exedir

import (
	"os"
	"path/filepath"
)

// Executable returns the path of the running executable. Tests replace it.
var Executable = os.Executable

// Dir returns the directory of the executable, with symlinks resolved.
// It falls back to the working directory if the executable cannot be found.
func Dir() string {
	exe, err := Executable()
	if err != nil {
		return "."
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}

// Or returns path if it is set, otherwise the elements joined onto Dir.
func Or(path string, elem ...string) string {
	if path != "" {
		return path
	}

	return filepath.Join(append([]string{Dir()}, elem...)...)
}
