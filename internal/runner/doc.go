// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner attempts every job of a list, one after the other, against a Builder.
//
// A failing job is reported and the run carries on with the next one.
// The outcome of each job is kept in order in the Report, whose exit code is 1
// when any job failed and 0 otherwise.
package runner
