// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity is the normalized importance of a diagnostic.
//
// The zero value is SeverityError so that a Diagnostic built without an
// explicit severity is reported rather than silently ignored.
type Severity int

const (
	// SeverityError marks a defect. Counts toward the non-zero exit code.
	SeverityError Severity = iota

	// SeverityWarning marks an advisory issue. Also counts toward the
	// non-zero exit code.
	SeverityWarning

	// SeverityInfo marks notes and hints. Reported, never counted.
	SeverityInfo
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three defined severities.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning || s == SeverityInfo
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name. Unknown names decode as error.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding severity: %w", err)
	}
	*s = ParseSeverity(name)
	return nil
}

// ParseSeverity maps a tool-specific severity word to a Severity.
//
// Description:
//
//	Compilers and linters each use their own vocabulary ("note",
//	"information", "style", "fatal error", ...). Matching is
//	case-insensitive and ignores surrounding whitespace.
//	Unrecognized values map to SeverityError: an unknown severity is
//	reported loudly, never dropped.
//
// Inputs:
//
//	s - Severity word as printed by the tool
//
// Outputs:
//
//	Severity - The normalized severity
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err", "fatal", "fatal error", "critical", "failure":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "info", "information", "informational", "note", "remark", "hint", "style", "help", "suggestion":
		return SeverityInfo
	default:
		return SeverityError
	}
}
