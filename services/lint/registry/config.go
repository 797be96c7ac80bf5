// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"time"

	"github.com/AleutianAI/langcheck/services/lint/diag"
)

// =============================================================================
// LANGUAGE CONFIG
// =============================================================================

// Invocation is everything a backend needs to build its argument list.
type Invocation struct {
	// File is the absolute path of the file under check.
	File string

	// ProjectRoot is the directory the check runs from.
	ProjectRoot string

	// ToolPath is the resolved executable (project-local or from PATH).
	ToolPath string

	// HasProjectConfig is the result of DetectConfig(ProjectRoot).
	HasProjectConfig bool

	// ScratchDir is a per-check temporary directory, removed after the
	// check. Backends whose tool insists on writing artifacts point it here.
	ScratchDir string
}

// DetectFunc reports whether the language's project configuration is
// present under root.
type DetectFunc func(root string) bool

// BuildArgsFunc returns the argv tail passed to the tool.
type BuildArgsFunc func(inv Invocation) []string

// ParseFunc extracts diagnostics from captured tool output.
//
// Implementations must be pure and must not panic; malformed or empty
// output yields an empty slice. The engine still recovers panics.
type ParseFunc func(stdout, stderr, file, projectRoot string) []diag.Diagnostic

// LanguageConfig describes one backend.
//
// Thread Safety: Treat as immutable after registration.
type LanguageConfig struct {
	// ID is the stable key used in configuration (e.g. "typescript").
	ID string

	// Name is the display name (e.g. "TypeScript").
	Name string

	// Tool is the canonical executable name (e.g. "tsc").
	Tool string

	// ProjectTool replaces Tool when project configuration is detected
	// (e.g. "cargo" for a crate). Empty means Tool is always used.
	ProjectTool string

	// Extensions are the file suffixes owned by this backend, with the dot.
	Extensions []string

	// LocalPaths are project-relative locations of a local tool install,
	// checked before PATH.
	LocalPaths []string

	// Timeout overrides the runner's default deadline when non-zero.
	Timeout time.Duration

	// DetectConfig reports whether project-level configuration exists.
	// Nil means never.
	DetectConfig DetectFunc

	// BuildArgs builds the invocation.
	BuildArgs BuildArgsFunc

	// ParseOutput converts tool output into diagnostics.
	ParseOutput ParseFunc
}

// ToolFor returns the executable name to resolve for the given detection
// result.
func (c *LanguageConfig) ToolFor(hasProjectConfig bool) string {
	if hasProjectConfig && c.ProjectTool != "" {
		return c.ProjectTool
	}
	return c.Tool
}

// HasProjectConfig calls DetectConfig, treating a nil detector as false.
func (c *LanguageConfig) HasProjectConfig(root string) bool {
	if c.DetectConfig == nil || root == "" {
		return false
	}
	return c.DetectConfig(root)
}
