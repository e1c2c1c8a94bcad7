// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress defines the events a batch emits while it works through its commands.
//
// Reporting is synchronous: Report returns after the event has been handled,
// so anything a reporter prints appears in the same order as the commands ran.
package progress
