// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diag defines the normalized diagnostic shape every language
// backend produces.
//
// A Diagnostic is a plain value. Backends build them with New, which
// enforces the positional and severity invariants; consumers pass them by
// value and never mutate them.
package diag

import (
	"strconv"
)

// Diagnostic is one issue reported by an external tool.
//
// Thread Safety: Immutable after creation.
type Diagnostic struct {
	// File is the path the tool attributed the issue to. Informational only.
	File string `json:"file,omitempty"`

	// Line is the 1-indexed line number.
	Line int `json:"line"`

	// Column is the 1-indexed column number.
	Column int `json:"column"`

	// Severity is the normalized severity.
	Severity Severity `json:"severity"`

	// Message is the tool's description, verbatim.
	Message string `json:"message"`

	// Code is the tool's rule or error code (e.g. "TS2322", "SC2086").
	Code string `json:"code,omitempty"`
}

// Option sets an optional Diagnostic field in New.
type Option func(*Diagnostic)

// WithCode attaches a rule or error code.
func WithCode(code string) Option {
	return func(d *Diagnostic) {
		d.Code = code
	}
}

// WithFile attaches the file path the tool reported.
func WithFile(file string) Option {
	return func(d *Diagnostic) {
		d.File = file
	}
}

// New builds a Diagnostic that satisfies the model invariants.
//
// Description:
//
//	Lines and columns below 1 are clamped to 1 (tools that cannot
//	report a column get column 1). Severities outside the defined set
//	become SeverityError.
//
// Inputs:
//
//	line, column - 1-indexed position as reported by the tool
//	severity - Normalized severity
//	message - Tool-provided text
//	opts - Optional fields
//
// Outputs:
//
//	Diagnostic - The constructed value
func New(line, column int, severity Severity, message string, opts ...Option) Diagnostic {
	d := Diagnostic{
		Line:     line,
		Column:   column,
		Severity: severity,
		Message:  message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d.Normalize()
}

// Normalize returns a copy of d with the model invariants applied.
func (d Diagnostic) Normalize() Diagnostic {
	if d.Line < 1 {
		d.Line = 1
	}
	if d.Column < 1 {
		d.Column = 1
	}
	if !d.Severity.Valid() {
		d.Severity = SeverityError
	}
	return d
}

// Location returns "file:line:col", or "line:col" when File is empty.
func (d Diagnostic) Location() string {
	pos := strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column)
	if d.File == "" {
		return pos
	}
	return d.File + ":" + pos
}

// =============================================================================
// COUNTS
// =============================================================================

// Counts tallies diagnostics by severity.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Tally counts diagnostics by severity in a single pass.
func Tally(diags []Diagnostic) Counts {
	var c Counts
	for _, d := range diags {
		switch d.Severity {
		case SeverityWarning:
			c.Warnings++
		case SeverityInfo:
			c.Infos++
		default:
			c.Errors++
		}
	}
	return c
}

// NeedsAttention reports whether any error or warning was counted.
// Infos never need attention.
func (c Counts) NeedsAttention() bool {
	return c.Errors > 0 || c.Warnings > 0
}
