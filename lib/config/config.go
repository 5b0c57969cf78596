// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the configuration for the Partstream CLI.
type Config struct {
	// Encode configures body production.
	Encode EncodeConfig `yaml:"encode"`

	// Output configures where the produced body goes.
	Output OutputConfig `yaml:"output"`
}

// EncodeConfig configures body production.
type EncodeConfig struct {
	// ChunkSize is the body source chunk size in bytes.
	// Default: 65536.
	ChunkSize int `yaml:"chunk_size"`

	// Compression is applied to every attachment: "none", "zstd",
	// or "lz4". Compressed attachments have no declared length.
	// Default: none.
	Compression string `yaml:"compression"`

	// Boundary fixes the boundary token, for reproducible output in
	// scripts and tests. Empty means a fresh random token per run.
	Boundary string `yaml:"boundary"`

	// Digest enables BLAKE3 digest reporting for every attachment.
	// Default: false.
	Digest bool `yaml:"digest"`
}

// OutputConfig configures where the produced body goes.
type OutputConfig struct {
	// Path is the output file. "-" means stdout.
	// Default: "-".
	Path string `yaml:"path"`
}

// Default returns the default configuration. These defaults are the
// base that a loaded file merges into, so every field has a sensible
// value even for a minimal config file.
func Default() *Config {
	return &Config{
		Encode: EncodeConfig{
			ChunkSize:   64 * 1024,
			Compression: "none",
		},
		Output: OutputConfig{
			Path: "-",
		},
	}
}

// Load loads configuration from the file named by the
// PARTSTREAM_CONFIG environment variable. This is the only way to load
// configuration without an explicit path: if the variable is not set,
// Load fails rather than guessing.
func Load() (*Config, error) {
	path := os.Getenv("PARTSTREAM_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("PARTSTREAM_CONFIG environment variable not set; " +
			"set it to the path of your partstream.yaml config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over [Default] and validating the result. Environment variables do
// not override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values. It is called by LoadFile and again by
// the CLI after flags are applied, since flags can introduce the same
// mistakes a file can.
func (c *Config) Validate() error {
	if c.Encode.ChunkSize <= 0 {
		return fmt.Errorf("encode.chunk_size must be positive, got %d", c.Encode.ChunkSize)
	}
	switch c.Encode.Compression {
	case "none", "zstd", "lz4":
	default:
		return fmt.Errorf("encode.compression must be none, zstd, or lz4, got %q", c.Encode.Compression)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty (use %q for stdout)", "-")
	}
	return nil
}
