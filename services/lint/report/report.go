// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report renders check results and derives the process exit code.
//
// Three renderings share one exit-code rule:
//
//	| Mode  | Stream | Clean output         |
//	|-------|--------|----------------------|
//	| Plain | stdout | "✓ No issues found"  |
//	| Hook  | stderr | nothing              |
//	| JSON  | stdout | result with no diags |
//
// Exit code 2 means at least one error or warning; infos and degraded
// statuses never raise it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/engine"
)

const (
	// ExitClean is returned when no error or warning was found.
	ExitClean = 0

	// ExitFindings is returned when at least one error or warning was found.
	ExitFindings = 2
)

// Tally counts diagnostics by severity in one pass.
func Tally(diags []diag.Diagnostic) diag.Counts {
	return diag.Tally(diags)
}

// ExitCode returns ExitFindings when any error or warning is present.
func ExitCode(diags []diag.Diagnostic) int {
	if Tally(diags).NeedsAttention() {
		return ExitFindings
	}
	return ExitClean
}

// ResultExitCode is ExitCode over a result; nil is clean.
func ResultExitCode(res *engine.CheckResult) int {
	if res == nil {
		return ExitClean
	}
	return ExitCode(res.Diagnostics)
}

// =============================================================================
// PLAIN MODE
// =============================================================================

// Plain renders results for a terminal or pipe.
type Plain struct {
	theme ux.Theme
}

// NewPlain creates a plain renderer; color follows the theme.
func NewPlain(theme ux.Theme) *Plain {
	return &Plain{theme: theme}
}

// Write renders res to w and returns the exit code.
//
// Unsupported files produce no output. Disabled and degraded results
// produce one muted or warning line and exit clean.
func (p *Plain) Write(w io.Writer, res *engine.CheckResult) (int, error) {
	if res == nil {
		return ExitClean, nil
	}

	switch {
	case res.Status == engine.StatusUnsupported:
		return ExitClean, nil
	case res.Status == engine.StatusDisabled:
		_, err := fmt.Fprintln(w, p.theme.Render(ux.Styles.Muted,
			fmt.Sprintf("%s checks disabled", displayName(res))))
		return ExitClean, err
	case res.Status.Degraded():
		_, err := fmt.Fprintf(w, "%s %s\n", p.theme.Icon(ux.IconWarning), DegradedMessage(res))
		return ExitClean, err
	}

	var b strings.Builder
	for _, d := range res.Diagnostics {
		b.WriteString(p.line(res.File, d))
		b.WriteByte('\n')
	}
	b.WriteString(p.summary(res.Diagnostics))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return ExitCode(res.Diagnostics), err
}

// line renders "file:line:col: severity: message [code]".
func (p *Plain) line(file string, d diag.Diagnostic) string {
	if d.File == "" {
		d.File = file
	}
	sev := d.Severity.String()
	switch d.Severity {
	case diag.SeverityError:
		sev = p.theme.Render(ux.Styles.Error, sev)
	case diag.SeverityWarning:
		sev = p.theme.Render(ux.Styles.Warning, sev)
	case diag.SeverityInfo:
		sev = p.theme.Render(ux.Styles.Info, sev)
	}
	line := fmt.Sprintf("%s: %s: %s", d.Location(), sev, d.Message)
	if d.Code != "" {
		line += " " + p.theme.Render(ux.Styles.Muted, "["+d.Code+"]")
	}
	return line
}

// summary renders the closing count line.
func (p *Plain) summary(diags []diag.Diagnostic) string {
	c := Tally(diags)
	if !c.NeedsAttention() {
		msg := "No issues found"
		if c.Infos > 0 {
			msg = fmt.Sprintf("No issues found (%d info)", c.Infos)
		}
		return p.theme.Icon(ux.IconSuccess) + " " + msg
	}
	return p.theme.Icon(ux.IconError) + " " + Summary(c)
}

// Summary renders "N error(s), M warning(s)".
func Summary(c diag.Counts) string {
	return fmt.Sprintf("%d error(s), %d warning(s)", c.Errors, c.Warnings)
}

// DegradedMessage describes a degraded status for humans.
func DegradedMessage(res *engine.CheckResult) string {
	tool := res.Tool
	if tool == "" {
		tool = displayName(res)
	}
	switch res.Status {
	case engine.StatusToolNotFound:
		return fmt.Sprintf("%s not installed", tool)
	case engine.StatusToolTimeout:
		if res.Detail != "" {
			return res.Detail
		}
		return fmt.Sprintf("%s timed out", tool)
	case engine.StatusToolFailed:
		return fmt.Sprintf("%s failed: %s", tool, res.Detail)
	case engine.StatusParserDefect:
		return fmt.Sprintf("%s output could not be parsed", tool)
	default:
		return res.Detail
	}
}

func displayName(res *engine.CheckResult) string {
	if res.LanguageName != "" {
		return res.LanguageName
	}
	return res.Language
}

// =============================================================================
// HOOK MODE
// =============================================================================

// Editor-integration framing. A host recognizes the payload between the
// begin and end markers on stderr.
const (
	HookBegin = "\x1b]777;langcheck;begin\x07"
	HookEnd   = "\x1b]777;langcheck;end\x07"
)

// WriteHook renders res for an editor hook and returns the exit code.
//
// Nothing is written unless an error or warning was found. The payload is
// the plain rendering without color, framed by HookBegin and HookEnd.
func WriteHook(w io.Writer, res *engine.CheckResult) (int, error) {
	code := ResultExitCode(res)
	if code == ExitClean {
		return code, nil
	}

	var body strings.Builder
	if _, err := NewPlain(ux.NewTheme(false)).Write(&body, res); err != nil {
		return code, err
	}

	var b strings.Builder
	b.WriteString(HookBegin)
	b.WriteByte('\n')
	b.WriteString(body.String())
	b.WriteString(HookEnd)
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return code, err
}

// =============================================================================
// JSON MODE
// =============================================================================

// JSONReport is the machine-readable form of a check.
type JSONReport struct {
	*engine.CheckResult
	Counts   diag.Counts `json:"counts"`
	ExitCode int         `json:"exit_code"`
}

// NewJSONReport wraps res with its counts and exit code.
func NewJSONReport(res *engine.CheckResult) JSONReport {
	code := ResultExitCode(res)
	if res == nil {
		res = &engine.CheckResult{Diagnostics: []diag.Diagnostic{}}
	}
	return JSONReport{
		CheckResult: res,
		Counts:      res.Counts(),
		ExitCode:    code,
	}
}

// WriteJSON renders res as indented JSON and returns the exit code.
func WriteJSON(w io.Writer, res *engine.CheckResult) (int, error) {
	rep := NewJSONReport(res)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return rep.ExitCode, enc.Encode(rep)
}
