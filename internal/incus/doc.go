// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package incus drives the incus command line client.
//
// Every operation runs one incus process and waits for it. Commands that produce
// machine readable output are asked for YAML, which is decoded with goccy/go-yaml.
package incus
