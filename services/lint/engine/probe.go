// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// probeConcurrency bounds parallel PATH lookups.
const probeConcurrency = 8

// Availability describes whether a backend could run right now.
type Availability struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Tool       string   `json:"tool"`
	Extensions []string `json:"extensions"`
	ToolPath   string   `json:"tool_path,omitempty"`
	Available  bool     `json:"available"`

	// Local is true when the tool was found under the project root rather
	// than on PATH.
	Local bool `json:"local"`

	// ProjectConfig is true when the backend's project configuration
	// was detected under the root.
	ProjectConfig bool `json:"project_config"`

	Disabled bool `json:"disabled"`
}

// Probe resolves every registered backend's tool without running it.
//
// Results are in registration order. Lookups run in parallel; a canceled
// ctx stops scheduling new lookups and returns what was gathered.
func (e *Engine) Probe(ctx context.Context, root string, settings Settings) []Availability {
	configs := e.registry.Configs()
	out := make([]Availability, len(configs))

	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for i, cfg := range configs {
		hasConfig := cfg.HasProjectConfig(root)
		out[i] = Availability{
			ID:            cfg.ID,
			Name:          cfg.Name,
			Tool:          cfg.ToolFor(hasConfig),
			Extensions:    cfg.Extensions,
			ProjectConfig: hasConfig,
			Disabled:      settings.IsDisabled(cfg.ID),
		}

		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			path, err := ResolveTool(cfg, out[i].Tool, root)
			if err != nil {
				return nil
			}
			out[i].ToolPath = path
			out[i].Available = true
			out[i].Local = root != "" && strings.HasPrefix(path, root+string(filepath.Separator))
			return nil
		})
	}

	_ = g.Wait()
	return out
}
