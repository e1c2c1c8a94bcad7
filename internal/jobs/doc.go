// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobs reads the batch configuration and expands it into the ordered list of
// (base, distribution, variant) jobs.
//
// The configuration looks like this:
//
//	jobs:
//	  bookworm:
//	    stable: [build-and-lint, before-install, all]
//	    testing: [all]
//	  trixie:
//	    unstable: [all, demo]
//
// Keys are expanded in document order, so the same file always yields the same list.
package jobs
