// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package imagebuild builds YunoHost images in an incus container.
//
// A build starts a container from a Debian image, or from a previously published
// YunoHost image, runs steps of the recipes script in it and publishes the result
// as a local incus image, optionally copied to a simplestreams repository.
package imagebuild
