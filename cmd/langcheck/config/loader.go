// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config persists langcheck's enable/disable flags as YAML.
//
// The file is re-read on every invocation; nothing is cached between
// processes or within one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "LANGCHECK_CONFIG"

// Path returns $LANGCHECK_CONFIG, or ~/.langcheck/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".langcheck", "config.yaml"), nil
}

// Load reads the flags at path. A missing or empty file yields empty
// flags (everything enabled).
func Load(path string) (*Flags, error) {
	flags := &Flags{Languages: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return flags, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return flags, nil
	}

	if err := yaml.Unmarshal(data, flags); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return flags, nil
}

// Save writes flags to path, creating the directory if needed. The
// file is replaced via rename so readers never see a partial write.
func Save(path string, flags *Flags) error {
	if flags == nil {
		flags = &Flags{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(flags)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
