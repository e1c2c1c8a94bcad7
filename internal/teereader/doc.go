// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a writer that passes output through while remembering
// its last line. The incus client uses it to name the cause of a failed command,
// which incus prints as the last line of its output.
package teereader
