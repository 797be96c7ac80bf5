// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine checks a single file with the backend that owns it.
//
// Check never fails: every tool or backend problem is folded into the
// returned CheckResult as a Status, so callers only decide how to present
// it. A disabled language or a disabled engine short-circuits before any
// tool is resolved or spawned.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/process"
	"github.com/AleutianAI/langcheck/services/lint/registry"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the persisted enable/disable state consulted on every check.
type Settings struct {
	// Disabled turns off checking for every language.
	Disabled bool

	// DisabledLanguages holds language IDs (lowercase) that are turned off.
	DisabledLanguages map[string]bool
}

// IsDisabled reports whether checks for the language are turned off.
func (s Settings) IsDisabled(id string) bool {
	if s.Disabled {
		return true
	}
	return s.DisabledLanguages[strings.ToLower(id)]
}

// =============================================================================
// ENGINE
// =============================================================================

// Option configures an Engine.
type Option func(*Engine)

// WithRunner replaces the process runner.
func WithRunner(r process.Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTimeout caps every tool invocation, overriding per-language
// timeouts that are longer.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeoutCap = d
	}
}

// Engine dispatches files to language backends.
//
// Thread Safety: Safe for concurrent use. Each Check owns its own scratch
// directory and subprocess.
type Engine struct {
	registry   *registry.Registry
	runner     process.Runner
	logger     *logging.Logger
	timeoutCap time.Duration
}

// New creates an Engine over the given registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		runner:   process.NewExecRunner(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine dispatches over.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Check runs the owning backend's tool against one file.
//
// Description:
//
//	Resolves the backend by extension, honours the enable/disable
//	settings, resolves the tool (project-local first, then PATH),
//	runs it from the project root and parses its output. Any failure
//	along the way becomes a Status on the result.
//
// Inputs:
//
//	ctx - Cancellation for the tool run
//	file - File to check; made absolute
//	projectRoot - Working directory for the tool; defaults to the file's directory
//	settings - Enable/disable state
//
// Outputs:
//
//	*CheckResult - Never nil
//
// Thread Safety: Safe for concurrent use.
func (e *Engine) Check(ctx context.Context, file, projectRoot string, settings Settings) *CheckResult {
	start := time.Now()

	absFile, err := filepath.Abs(file)
	if err != nil {
		absFile = file
	}
	if projectRoot == "" {
		projectRoot = filepath.Dir(absFile)
	} else if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}

	res := &CheckResult{
		File:        absFile,
		Diagnostics: []diag.Diagnostic{},
	}

	cfg, ok := e.registry.Resolve(absFile)
	if !ok {
		res.Status = StatusUnsupported
		res.Duration = time.Since(start)
		return res
	}
	res.Language = cfg.ID
	res.LanguageName = cfg.Name
	res.Tool = cfg.Tool

	if settings.IsDisabled(cfg.ID) {
		res.Status = StatusDisabled
		res.Duration = time.Since(start)
		return res
	}

	ctx, span := startCheckSpan(ctx, cfg.ID, absFile)
	defer span.End()

	e.run(ctx, cfg, absFile, projectRoot, res)

	res.Duration = time.Since(start)
	finishCheckSpan(span, res)
	recordCheckMetrics(ctx, res, res.Duration)

	e.logger.Debug("check finished",
		"file", absFile,
		"language", cfg.ID,
		"status", string(res.Status),
		"diagnostics", len(res.Diagnostics),
		"duration", res.Duration,
	)
	return res
}

// run performs tool resolution, invocation and parsing, filling res.
func (e *Engine) run(ctx context.Context, cfg *registry.LanguageConfig, file, root string, res *CheckResult) {
	hasConfig := cfg.HasProjectConfig(root)
	tool := cfg.ToolFor(hasConfig)
	res.Tool = tool

	toolPath, err := ResolveTool(cfg, tool, root)
	if err != nil {
		res.Status = StatusToolNotFound
		res.Detail = fmt.Sprintf("%s not installed", tool)
		return
	}
	res.ToolPath = toolPath
	res.ToolAvailable = true

	scratch, err := os.MkdirTemp("", "langcheck-"+cfg.ID+"-")
	if err != nil {
		res.Status = StatusToolFailed
		res.Detail = fmt.Sprintf("create scratch dir: %v", err)
		return
	}
	defer os.RemoveAll(scratch)

	inv := registry.Invocation{
		File:             file,
		ProjectRoot:      root,
		ToolPath:         toolPath,
		HasProjectConfig: hasConfig,
		ScratchDir:       scratch,
	}

	args, err := buildArgs(cfg, inv)
	if err != nil {
		res.Status = StatusToolFailed
		res.Detail = err.Error()
		e.logger.Error("backend failed to build arguments", "language", cfg.ID, "error", err)
		return
	}

	cmd := process.Command{
		Name:    toolPath,
		Args:    args,
		Dir:     root,
		Timeout: e.timeoutFor(cfg),
	}
	e.logger.Debug("running tool", "language", cfg.ID, "command", cmd.String(), "dir", root)

	out, err := e.runner.Run(ctx, cmd)
	if err != nil {
		switch {
		case errors.Is(err, process.ErrNotFound):
			res.Status = StatusToolNotFound
			res.ToolAvailable = false
			res.Detail = fmt.Sprintf("%s not installed", tool)
		case errors.Is(err, process.ErrTimeout):
			res.Status = StatusToolTimeout
			limit := cmd.Timeout
			if limit == 0 {
				limit = process.DefaultTimeout
			}
			res.Detail = fmt.Sprintf("%s timed out after %s", tool, limit)
		default:
			res.Status = StatusToolFailed
			res.Detail = err.Error()
		}
		e.logger.Warn("tool run failed", "language", cfg.ID, "tool", tool, "error", err)
		return
	}

	diags, err := parseOutput(cfg, string(out.Stdout), string(out.Stderr), file, root)
	if err != nil {
		res.Status = StatusParserDefect
		res.Detail = err.Error()
		e.logger.Error("backend parser panicked", "language", cfg.ID, "error", err)
		return
	}

	for i := range diags {
		diags[i] = diags[i].Normalize()
	}
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	res.Diagnostics = diags
	res.Status = StatusChecked
}

// timeoutFor picks the tool deadline: the language's own, bounded by the
// engine cap. Zero lets the runner default apply.
func (e *Engine) timeoutFor(cfg *registry.LanguageConfig) time.Duration {
	t := cfg.Timeout
	if e.timeoutCap > 0 && (t == 0 || t > e.timeoutCap) {
		t = e.timeoutCap
	}
	return t
}

// ResolveTool finds the executable for a backend: the first executable
// LocalPaths entry under root, else tool on PATH.
func ResolveTool(cfg *registry.LanguageConfig, tool, root string) (string, error) {
	if root != "" {
		for _, rel := range cfg.LocalPaths {
			candidate := filepath.Join(root, rel)
			if isExecutable(candidate) {
				return candidate, nil
			}
		}
	}
	return process.LookPath(tool)
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// buildArgs calls the backend's BuildArgs, converting a panic to an error.
func buildArgs(cfg *registry.LanguageConfig, inv registry.Invocation) (args []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: build args panicked: %v", cfg.ID, r)
		}
	}()
	if cfg.BuildArgs == nil {
		return []string{inv.File}, nil
	}
	return cfg.BuildArgs(inv), nil
}

// parseOutput calls the backend's parser, converting a panic to an error.
func parseOutput(cfg *registry.LanguageConfig, stdout, stderr, file, root string) (diags []diag.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("%s: parser panicked: %v", cfg.ID, r)
		}
	}()
	if cfg.ParseOutput == nil {
		return nil, nil
	}
	return cfg.ParseOutput(stdout, stderr, file, root), nil
}
