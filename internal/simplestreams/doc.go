// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package simplestreams maintains a simplestreams image repository with the
// incus-simplestreams tool: importing images published in incus, removing
// older versions and deleting image files no longer listed in the index.
package simplestreams
