// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// Partstream CLI.
//
// Configuration is loaded from a single file specified by either the
// PARTSTREAM_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search. This ensures deterministic,
// auditable behavior: flags override file values, the file overrides
// [Default], and nothing else is consulted.
//
// Key exports:
//
//   - [Config] -- encode and output settings
//   - [Default] -- returns a Config with standard defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Partstream packages.
package config
