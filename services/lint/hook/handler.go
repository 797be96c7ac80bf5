// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hook turns editor file-edit notifications into checks.
//
// A hook process handles exactly one event:
//
//	Idle → ReadPayload → Ignored  → exit 0, no output
//	                   → Checking → Reported → exit 0 or 2
//
// Any problem with the payload itself is ignored (exit 0, no output) so a
// broken hook never interrupts the editor.
package hook

import (
	"context"
	"io"
	"os"

	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

// MaxPayloadBytes bounds how much of stdin is read.
const MaxPayloadBytes = 1 << 20

// Checker runs one check. *engine.Engine satisfies it.
type Checker interface {
	Check(ctx context.Context, file, projectRoot string, settings engine.Settings) *engine.CheckResult
}

// SettingsFunc loads the enable/disable state. It is called only when an
// event triggers a check.
type SettingsFunc func() engine.Settings

// Option configures a Handler.
type Option func(*Handler)

// WithSettings sets the settings loader.
func WithSettings(fn SettingsFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.settings = fn
		}
	}
}

// WithStderr replaces os.Stderr as the report destination.
func WithStderr(w io.Writer) Option {
	return func(h *Handler) {
		if w != nil {
			h.stderr = w
		}
	}
}

// WithLogger sets the logger. It must not write to the report stream.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// Handler processes hook events.
type Handler struct {
	checker  Checker
	settings SettingsFunc
	stderr   io.Writer
	logger   *logging.Logger
}

// NewHandler creates a Handler that checks files with checker.
func NewHandler(checker Checker, opts ...Option) *Handler {
	h := &Handler{
		checker:  checker,
		settings: func() engine.Settings { return engine.Settings{} },
		stderr:   os.Stderr,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle reads one event from r and returns the process exit code.
//
// Description:
//
//	Non-triggering events, non-edit tools and unreadable or invalid
//	payloads return 0 without output. Otherwise the touched file is
//	checked with cwd as project root and the result is written to
//	stderr in hook framing.
//
// Inputs:
//
//	ctx - Cancellation for the check
//	eventName - Hook event from the command line; empty falls back to the payload
//	r - Payload source, normally stdin
//
// Outputs:
//
//	int - 0 or 2
func (h *Handler) Handle(ctx context.Context, eventName string, r io.Reader) int {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadBytes))
	if err != nil {
		h.logger.Warn("hook payload unreadable", "error", err)
		return report.ExitClean
	}

	ev, err := ParseEvent(data)
	if err != nil {
		h.logger.Warn("hook payload ignored", "error", err)
		return report.ExitClean
	}

	if eventName == "" {
		eventName = ev.HookEventName
	}
	if !Triggers(eventName) {
		h.logger.Debug("hook event ignored", "event", eventName)
		return report.ExitClean
	}
	if !IsEditTool(ev.ToolName) {
		h.logger.Debug("hook tool ignored", "tool", ev.ToolName)
		return report.ExitClean
	}

	file := ev.Path()
	res := h.checker.Check(ctx, file, ev.CWD, h.settings())
	h.logger.Info("hook check",
		"file", file,
		"tool", ev.ToolName,
		"status", string(res.Status),
		"diagnostics", len(res.Diagnostics),
	)

	code, err := report.WriteHook(h.stderr, res)
	if err != nil {
		h.logger.Error("hook report write failed", "error", err)
	}
	return code
}
