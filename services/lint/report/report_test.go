// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/diag"
	"github.com/AleutianAI/langcheck/services/lint/engine"
)

func checked(diags ...diag.Diagnostic) *engine.CheckResult {
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	return &engine.CheckResult{
		File:          "/proj/test.ts",
		Language:      "typescript",
		LanguageName:  "TypeScript",
		Tool:          "tsc",
		ToolAvailable: true,
		Status:        engine.StatusChecked,
		Diagnostics:   diags,
	}
}

// =============================================================================
// EXIT CODE
// =============================================================================

func TestExitCode(t *testing.T) {
	errD := diag.New(1, 1, diag.SeverityError, "e")
	warnD := diag.New(1, 1, diag.SeverityWarning, "w")
	infoD := diag.New(1, 1, diag.SeverityInfo, "i")

	tests := []struct {
		name  string
		diags []diag.Diagnostic
		want  int
	}{
		{"empty", nil, ExitClean},
		{"info only", []diag.Diagnostic{infoD, infoD}, ExitClean},
		{"single error", []diag.Diagnostic{errD}, ExitFindings},
		{"single warning", []diag.Diagnostic{warnD}, ExitFindings},
		{"mixed", []diag.Diagnostic{infoD, warnD, errD}, ExitFindings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.diags))
		})
	}
}

func TestResultExitCode_DegradedNeverFails(t *testing.T) {
	for _, status := range []engine.Status{
		engine.StatusUnsupported, engine.StatusDisabled, engine.StatusToolNotFound,
		engine.StatusToolTimeout, engine.StatusToolFailed, engine.StatusParserDefect,
	} {
		res := &engine.CheckResult{Status: status, Diagnostics: []diag.Diagnostic{}}
		assert.Equal(t, ExitClean, ResultExitCode(res), status)
	}
	assert.Equal(t, ExitClean, ResultExitCode(nil))
}

// =============================================================================
// PLAIN MODE
// =============================================================================

func TestPlain_WithDiagnostics(t *testing.T) {
	res := checked(
		diag.New(1, 7, diag.SeverityError, "Type 'number' is not assignable to type 'string'.", diag.WithCode("TS2322")),
		diag.New(3, 1, diag.SeverityWarning, "unused variable"),
		diag.New(4, 2, diag.SeverityInfo, "consider const"),
	)

	var buf bytes.Buffer
	code, err := NewPlain(ux.NewTheme(false)).Write(&buf, res)
	require.NoError(t, err)

	assert.Equal(t, ExitFindings, code)
	out := buf.String()
	assert.Contains(t, out, "/proj/test.ts:1:7: error: Type 'number' is not assignable to type 'string'. [TS2322]")
	assert.Contains(t, out, "/proj/test.ts:3:1: warning: unused variable")
	assert.Contains(t, out, "/proj/test.ts:4:2: info: consider const")
	assert.True(t, strings.HasSuffix(out, "✗ 1 error(s), 1 warning(s)\n"), out)
}

func TestPlain_Clean(t *testing.T) {
	var buf bytes.Buffer
	code, err := NewPlain(ux.NewTheme(false)).Write(&buf, checked())
	require.NoError(t, err)

	assert.Equal(t, ExitClean, code)
	assert.Equal(t, "✓ No issues found\n", buf.String())
}

func TestPlain_InfoOnlyIsClean(t *testing.T) {
	var buf bytes.Buffer
	code, err := NewPlain(ux.NewTheme(false)).Write(&buf, checked(diag.New(2, 1, diag.SeverityInfo, "note")))
	require.NoError(t, err)

	assert.Equal(t, ExitClean, code)
	assert.Contains(t, buf.String(), "No issues found (1 info)")
}

func TestPlain_Degraded(t *testing.T) {
	tests := []struct {
		status engine.Status
		detail string
		want   string
	}{
		{engine.StatusToolNotFound, "tsc not installed", "tsc not installed"},
		{engine.StatusToolTimeout, "tsc timed out after 30s", "tsc timed out after 30s"},
		{engine.StatusToolFailed, "permission denied", "tsc failed: permission denied"},
		{engine.StatusParserDefect, "panic", "tsc output could not be parsed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			res := checked()
			res.Status = tt.status
			res.Detail = tt.detail

			var buf bytes.Buffer
			code, err := NewPlain(ux.NewTheme(false)).Write(&buf, res)
			require.NoError(t, err)

			assert.Equal(t, ExitClean, code)
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "No issues found")
		})
	}
}

func TestPlain_UnsupportedIsSilent(t *testing.T) {
	var buf bytes.Buffer
	code, err := NewPlain(ux.NewTheme(false)).Write(&buf, &engine.CheckResult{Status: engine.StatusUnsupported})
	require.NoError(t, err)

	assert.Equal(t, ExitClean, code)
	assert.Empty(t, buf.String())
}

func TestPlain_Disabled(t *testing.T) {
	res := checked()
	res.Status = engine.StatusDisabled

	var buf bytes.Buffer
	code, _ := NewPlain(ux.NewTheme(false)).Write(&buf, res)

	assert.Equal(t, ExitClean, code)
	assert.Equal(t, "TypeScript checks disabled\n", buf.String())
}

// =============================================================================
// HOOK MODE
// =============================================================================

func TestWriteHook_FramesFindings(t *testing.T) {
	res := checked(diag.New(1, 1, diag.SeverityError, "Declaration or statement expected."))

	var buf bytes.Buffer
	code, err := WriteHook(&buf, res)
	require.NoError(t, err)

	assert.Equal(t, ExitFindings, code)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, HookBegin), out)
	assert.True(t, strings.HasSuffix(out, HookEnd+"\n"), out)
	assert.Contains(t, out, "1 error(s), 0 warning(s)")
	assert.Contains(t, out, "Declaration or statement expected.")
}

func TestWriteHook_CleanWritesNothing(t *testing.T) {
	for _, res := range []*engine.CheckResult{
		checked(),
		checked(diag.New(1, 1, diag.SeverityInfo, "fyi")),
		{Status: engine.StatusToolNotFound, Tool: "tsc"},
		nil,
	} {
		var buf bytes.Buffer
		code, err := WriteHook(&buf, res)
		require.NoError(t, err)
		assert.Equal(t, ExitClean, code)
		assert.Empty(t, buf.String())
	}
}

// =============================================================================
// JSON MODE
// =============================================================================

func TestWriteJSON(t *testing.T) {
	res := checked(diag.New(2, 3, diag.SeverityWarning, "w", diag.WithCode("SC2086")))

	var buf bytes.Buffer
	code, err := WriteJSON(&buf, res)
	require.NoError(t, err)
	assert.Equal(t, ExitFindings, code)

	var decoded struct {
		File        string `json:"file"`
		Status      string `json:"status"`
		ExitCode    int    `json:"exit_code"`
		Counts      diag.Counts
		Diagnostics []struct {
			Line     int    `json:"line"`
			Severity string `json:"severity"`
			Code     string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "/proj/test.ts", decoded.File)
	assert.Equal(t, "checked", decoded.Status)
	assert.Equal(t, 2, decoded.ExitCode)
	assert.Equal(t, 1, decoded.Counts.Warnings)
	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, "warning", decoded.Diagnostics[0].Severity)
	assert.Equal(t, "SC2086", decoded.Diagnostics[0].Code)
}
