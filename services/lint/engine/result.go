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
	"time"

	"github.com/AleutianAI/langcheck/services/lint/diag"
)

// =============================================================================
// STATUS
// =============================================================================

// Status classifies how a check ended. Only StatusChecked can carry
// diagnostics; every other status is a handled, non-failing outcome.
type Status string

const (
	// StatusChecked means the tool ran and its output was parsed.
	StatusChecked Status = "checked"

	// StatusUnsupported means no backend owns the file's extension.
	StatusUnsupported Status = "unsupported"

	// StatusDisabled means checking is turned off globally or for the language.
	StatusDisabled Status = "disabled"

	// StatusToolNotFound means no local or PATH executable was found.
	StatusToolNotFound Status = "tool-not-found"

	// StatusToolTimeout means the tool exceeded its deadline and was killed.
	StatusToolTimeout Status = "tool-timeout"

	// StatusToolFailed means the tool could not be started or was canceled.
	StatusToolFailed Status = "tool-failed"

	// StatusParserDefect means the backend's parser panicked.
	StatusParserDefect Status = "parser-defect"
)

// Degraded reports whether the status is a handled tool or backend failure
// worth telling the user about.
func (s Status) Degraded() bool {
	switch s {
	case StatusToolNotFound, StatusToolTimeout, StatusToolFailed, StatusParserDefect:
		return true
	default:
		return false
	}
}

// =============================================================================
// CHECK RESULT
// =============================================================================

// CheckResult is the outcome of checking one file.
//
// Thread Safety: Immutable after Check returns.
type CheckResult struct {
	// File is the absolute path that was checked.
	File string `json:"file"`

	// Language is the backend ID, empty when unsupported.
	Language string `json:"language,omitempty"`

	// LanguageName is the backend display name.
	LanguageName string `json:"language_name,omitempty"`

	// Tool is the executable name the backend uses.
	Tool string `json:"tool,omitempty"`

	// ToolPath is the resolved executable, empty when not found.
	ToolPath string `json:"tool_path,omitempty"`

	// Diagnostics are in the order the parser produced them.
	Diagnostics []diag.Diagnostic `json:"diagnostics"`

	// ToolAvailable is true when an executable was resolved.
	ToolAvailable bool `json:"tool_available"`

	// Status classifies the outcome.
	Status Status `json:"status"`

	// Detail is a short human-readable note for degraded statuses.
	Detail string `json:"detail,omitempty"`

	// Duration is the wall time of the check.
	Duration time.Duration `json:"duration"`
}

// Counts tallies the result's diagnostics.
func (r *CheckResult) Counts() diag.Counts {
	return diag.Tally(r.Diagnostics)
}

// NeedsAttention reports whether any error or warning was found.
func (r *CheckResult) NeedsAttention() bool {
	return r.Counts().NeedsAttention()
}
