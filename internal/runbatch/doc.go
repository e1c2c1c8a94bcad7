// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch provides the primitives incusbake uses to run work and record its outcome.
//
// A FunctionCommand runs Go code and turns errors and panics into a failed Result.
// An OSCommand runs a process. A SerialBatch runs its commands one after another,
// always running every command even when an earlier one failed, and reports each
// step to a progress.Reporter. Results can be printed as a tree with WriteResults.
package runbatch
