// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the optional file-based settings. Every field has a
// working default; flags override file values.
type Config struct {
	// Direction is the diagram layout direction (TD, LR, BT, RL).
	Direction string `yaml:"direction"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MaxFileSizeBytes caps the size of the analyzed source file.
	// Zero means the built-in default.
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Direction: "TD",
		LogLevel:  "info",
	}
}

// LoadConfig reads and parses a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Direction == "" {
		cfg.Direction = "TD"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
