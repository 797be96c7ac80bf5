// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry maps file extensions to language backends.
//
// A Registry is populated once at startup and read thereafter. Resolution
// matches the longest registered suffix of the file's base name, so ".d.ts"
// or ".cts" can be told apart from ".ts".
package registry

import (
	"path/filepath"
	"strings"
	"sync"
)

// Conflict records an extension claimed by two backends. The later
// registration owns the extension.
type Conflict struct {
	Extension string
	Previous  string
	Current   string
}

// Registry holds language backends keyed by extension.
//
// Thread Safety: Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	configs    []*LanguageConfig
	byID       map[string]*LanguageConfig
	extensions map[string]*LanguageConfig
	conflicts  []Conflict
}

// New creates a registry holding the given configs, registered in order.
func New(configs ...*LanguageConfig) *Registry {
	r := &Registry{
		byID:       make(map[string]*LanguageConfig),
		extensions: make(map[string]*LanguageConfig),
	}
	for _, cfg := range configs {
		r.Register(cfg)
	}
	return r
}

// Register adds a backend for every extension it lists.
//
// Description:
//
//	Extensions are matched case-insensitively. If an extension is already
//	owned by another backend, the new backend takes it over and the
//	collision is recorded in Conflicts. A collision is a defect in the
//	backend table, not a runtime condition.
//
// Inputs:
//
//	cfg - The backend to register. Nil is ignored.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(cfg *LanguageConfig) {
	if cfg == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.ToLower(cfg.ID)
	if _, exists := r.byID[id]; !exists {
		r.configs = append(r.configs, cfg)
	} else {
		for i, c := range r.configs {
			if strings.ToLower(c.ID) == id {
				r.configs[i] = cfg
			}
		}
	}
	r.byID[id] = cfg

	for _, ext := range cfg.Extensions {
		key := normalizeExt(ext)
		if key == "" {
			continue
		}
		if prev, ok := r.extensions[key]; ok && prev.ID != cfg.ID {
			r.conflicts = append(r.conflicts, Conflict{
				Extension: key,
				Previous:  prev.ID,
				Current:   cfg.ID,
			})
		}
		r.extensions[key] = cfg
	}
}

// Resolve returns the backend owning the file's suffix.
//
// Description:
//
//	Tries every dotted suffix of the base name from longest to shortest:
//	"types.d.ts" tries ".d.ts" then ".ts". Performs no I/O.
//
// Inputs:
//
//	filePath - Any path; only the base name is inspected
//
// Outputs:
//
//	*LanguageConfig - The owning backend
//	bool - False when no backend owns any suffix
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Resolve(filePath string) (*LanguageConfig, bool) {
	base := strings.ToLower(filepath.Base(filePath))

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Index 0 would make the whole name a suffix (".bashrc"), which is a
	// dotfile, not an extension.
	for i := 1; i < len(base); i++ {
		if base[i] != '.' {
			continue
		}
		if cfg, ok := r.extensions[base[i:]]; ok {
			return cfg, true
		}
	}
	return nil, false
}

// Lookup returns the backend with the given ID.
func (r *Registry) Lookup(id string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byID[strings.ToLower(id)]
	return cfg, ok
}

// Configs returns all backends in registration order.
func (r *Registry) Configs() []*LanguageConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*LanguageConfig, len(r.configs))
	copy(out, r.configs)
	return out
}

// Conflicts returns every extension collision seen during registration.
func (r *Registry) Conflicts() []Conflict {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Conflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
