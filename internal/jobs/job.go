// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"fmt"
	"path/filepath"
)

const logFileExtension = ".log"

// Job is one image to build.
type Job struct {
	Base         string // Debian release, e.g. bookworm
	Distribution string // YunoHost distribution, e.g. stable
	Variant      string // What to build on top, e.g. build-and-lint
}

// String returns the three identifiers separated by spaces.
func (j Job) String() string {
	return fmt.Sprintf("%s %s %s", j.Base, j.Distribution, j.Variant)
}

// LogFile returns the path of the job's log file in dir.
// Jobs with the same identifiers share a path.
func (j Job) LogFile(dir string) string {
	return filepath.Join(dir, j.Base+"_"+j.Distribution+"_"+j.Variant+logFileExtension)
}

// List is an ordered list of jobs.
type List []Job
